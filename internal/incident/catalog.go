package incident

import (
	"strings"
	"unicode"
)

// Field identifies a recognized column of the incident dataset.
type Field string

const (
	Latitude              Field = "latitude"
	Longitude             Field = "longitude"
	IncidentType          Field = "incident_type"
	IncidentRegion        Field = "incident_region"
	IncidentDate          Field = "incident_date"
	IncidentYear          Field = "incident_year"
	Month                 Field = "month"
	CountDead             Field = "count_dead"
	CountMissingMin       Field = "count_missing_min"
	CountDeadMissingTotal Field = "count_dead_missing_total"
	CountSurvivors        Field = "count_survivors"
	CountFemale           Field = "count_female"
	CountMale             Field = "count_male"
	CountChildren         Field = "count_children"
	OriginCountry         Field = "origin_country"
	OriginRegion          Field = "origin_region"
	CauseOfDeath          Field = "cause_of_death"
	IncidentCountry       Field = "incident_country"
	MigrationRoute        Field = "migration_route"
	IncidentLocation      Field = "incident_location"
)

// Kind is the semantic type of a recognized field.
type Kind int

const (
	KindCategorical Kind = iota
	KindCoordinate
	KindDate
	KindYear
	KindMonth
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindCoordinate:
		return "coordinate"
	case KindDate:
		return "date"
	case KindYear:
		return "year"
	case KindMonth:
		return "month"
	case KindCount:
		return "count"
	default:
		return "categorical"
	}
}

// FieldSpec describes one catalog entry.
type FieldSpec struct {
	Field   Field
	Kind    Kind
	Aliases []string
}

// Catalog lists every recognized field in display order. Aliases cover the
// headers used by the published incident spreadsheets.
var Catalog = []FieldSpec{
	{Latitude, KindCoordinate, []string{"LATITUDE", "lat"}},
	{Longitude, KindCoordinate, []string{"LONGITUDE", "lon", "lng"}},
	{IncidentType, KindCategorical, []string{"Incident Type", "type"}},
	{IncidentRegion, KindCategorical, []string{"Region of Incident", "Incident Region", "region"}},
	{IncidentDate, KindDate, []string{"Incident Date", "date"}},
	{IncidentYear, KindYear, []string{"Incident Year", "year"}},
	{Month, KindMonth, []string{"Month", "Reported Month"}},
	{CountDead, KindCount, []string{"Number of Dead", "dead"}},
	{CountMissingMin, KindCount, []string{"Minimum Estimated Number of Missing", "missing"}},
	{CountDeadMissingTotal, KindCount, []string{"Total Number of Dead and Missing", "Total Dead and Missing"}},
	{CountSurvivors, KindCount, []string{"Number of Survivors", "survivors"}},
	{CountFemale, KindCount, []string{"Number of Females", "females"}},
	{CountMale, KindCount, []string{"Number of Males", "males"}},
	{CountChildren, KindCount, []string{"Number of Children", "children"}},
	{OriginCountry, KindCategorical, []string{"Country of Origin"}},
	{OriginRegion, KindCategorical, []string{"Region of Origin"}},
	{CauseOfDeath, KindCategorical, []string{"Cause of Death"}},
	{IncidentCountry, KindCategorical, []string{"Country of Incident", "Incident Country"}},
	{MigrationRoute, KindCategorical, []string{"Migration Route", "route"}},
	{IncidentLocation, KindCategorical, []string{"Location of Incident", "Location Description", "location"}},
}

var (
	byKey   = map[string]Field{}
	specFor = map[Field]FieldSpec{}
)

func init() {
	for _, s := range Catalog {
		specFor[s.Field] = s
		byKey[HeaderKey(string(s.Field))] = s.Field
		for _, a := range s.Aliases {
			byKey[HeaderKey(a)] = s.Field
		}
	}
}

// HeaderKey folds a column header to its matching key: lowercase, trimmed,
// runs of non-alphanumerics collapsed to a single underscore.
func HeaderKey(h string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Lookup resolves a column header to a recognized field.
func Lookup(header string) (Field, bool) {
	f, ok := byKey[HeaderKey(header)]
	return f, ok
}

// KindOf returns the semantic kind of f.
func KindOf(f Field) Kind { return specFor[f].Kind }

// CountFields lists every count field in catalog order.
func CountFields() []Field {
	var out []Field
	for _, s := range Catalog {
		if s.Kind == KindCount {
			out = append(out, s.Field)
		}
	}
	return out
}

// Mapping records which raw column index backs each recognized field.
type Mapping map[Field]int

// Resolve maps raw headers to recognized fields. The first header matching a
// field wins; later duplicates stay unrecognized.
func Resolve(headers []string) Mapping {
	m := Mapping{}
	for i, h := range headers {
		f, ok := Lookup(h)
		if !ok {
			continue
		}
		if _, taken := m[f]; taken {
			continue
		}
		m[f] = i
	}
	return m
}

// Has reports whether every field is mapped.
func (m Mapping) Has(fields ...Field) bool {
	for _, f := range fields {
		if _, ok := m[f]; !ok {
			return false
		}
	}
	return true
}
