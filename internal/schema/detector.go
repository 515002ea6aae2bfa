// Package schema decides, once per session, which dashboard features the
// loaded columns support. Later stages consult the resulting Capabilities
// instead of probing columns themselves.
package schema

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
)

// Feature names one capability-gated part of the dashboard.
type Feature string

const (
	Summary        Feature = "summary"
	TimeTrend      Feature = "time_trend"
	VictimsTrend   Feature = "victims_trend"
	TypeCounts     Feature = "type_counts"
	VictimsByType  Feature = "victims_by_type"
	GeoMap         Feature = "geo_map"
	CountryCounts  Feature = "country_counts"
	RouteCounts    Feature = "route_counts"
	Demographics   Feature = "demographics"
	OriginCountry  Feature = "origin_countries"
	OriginRegion   Feature = "origin_regions"
	SurvivalRate   Feature = "survival_rate"
	CauseCounts    Feature = "cause_counts"
	Seasonal       Feature = "seasonal"
	Correlation    Feature = "correlation"
	RecordBrowser  Feature = "records"
	FilterByYear   Feature = "filter_year"
	FilterByRegion Feature = "filter_region"
	FilterByType   Feature = "filter_type"
)

// requirements lists the columns each feature needs, in display order.
var requirements = []struct {
	feature Feature
	fields  []incident.Field
}{
	{Summary, nil},
	{TimeTrend, []incident.Field{incident.IncidentDate}},
	{VictimsTrend, []incident.Field{incident.IncidentDate, incident.CountDeadMissingTotal}},
	{TypeCounts, []incident.Field{incident.IncidentType}},
	{VictimsByType, []incident.Field{incident.IncidentType, incident.CountDeadMissingTotal}},
	{GeoMap, []incident.Field{incident.Latitude, incident.Longitude}},
	{CountryCounts, []incident.Field{incident.IncidentCountry}},
	{RouteCounts, []incident.Field{incident.MigrationRoute}},
	{Demographics, []incident.Field{incident.CountMale, incident.CountFemale, incident.CountChildren}},
	{OriginCountry, []incident.Field{incident.OriginCountry}},
	{OriginRegion, []incident.Field{incident.OriginRegion}},
	{SurvivalRate, []incident.Field{incident.IncidentType, incident.CountSurvivors, incident.CountDeadMissingTotal}},
	{CauseCounts, []incident.Field{incident.CauseOfDeath}},
	{Seasonal, []incident.Field{incident.Month}},
	{Correlation, nil},
	{RecordBrowser, nil},
	{FilterByYear, []incident.Field{incident.IncidentYear}},
	{FilterByRegion, []incident.Field{incident.IncidentRegion}},
	{FilterByType, []incident.Field{incident.IncidentType}},
}

// State is the tag of a feature's availability.
type State string

const (
	Enabled  State = "enabled"
	Disabled State = "disabled"
	Degraded State = "degraded"
)

// Status is the availability of one feature.
type Status struct {
	State   State            `json:"state"`
	Missing []incident.Field `json:"missing,omitempty"`
	Reason  string           `json:"reason,omitempty"`
}

// Usable reports whether the feature may be computed.
func (s Status) Usable() bool { return s.State == Enabled }

// Capabilities is the feature set enabled for a session. It is a value:
// Degrade returns a modified copy.
type Capabilities struct {
	Mapping  incident.Mapping   `json:"-"`
	Features map[Feature]Status `json:"features"`
}

// Detect inspects column names against the field catalog. It never fails;
// missing columns disable the features that need them.
func Detect(columns []string) Capabilities {
	return FromMapping(incident.Resolve(columns))
}

// FromMapping builds capabilities from an already resolved mapping.
func FromMapping(m incident.Mapping) Capabilities {
	c := Capabilities{Mapping: m, Features: make(map[Feature]Status, len(requirements))}
	for _, r := range requirements {
		var missing []incident.Field
		for _, f := range r.fields {
			if !m.Has(f) {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			c.Features[r.feature] = Status{State: Disabled, Missing: missing, Reason: "missing columns"}
			continue
		}
		c.Features[r.feature] = Status{State: Enabled}
	}
	return c
}

// Status returns the availability of f; unknown features are disabled.
func (c Capabilities) Status(f Feature) Status {
	s, ok := c.Features[f]
	if !ok {
		return Status{State: Disabled, Reason: "unknown feature"}
	}
	return s
}

// Enabled reports whether f may be computed.
func (c Capabilities) Enabled(f Feature) bool { return c.Status(f).Usable() }

// Degrade marks enabled features as degraded with reason and returns the copy.
// Disabled features stay disabled.
func (c Capabilities) Degrade(reason string, features ...Feature) Capabilities {
	out := Capabilities{Mapping: c.Mapping, Features: make(map[Feature]Status, len(c.Features))}
	for k, v := range c.Features {
		out.Features[k] = v
	}
	for _, f := range features {
		if s := out.Features[f]; s.State == Enabled {
			out.Features[f] = Status{State: Degraded, Reason: reason}
		}
	}
	return out
}

// Ordered lists features in display order.
func Ordered() []Feature {
	out := make([]Feature, len(requirements))
	for i, r := range requirements {
		out[i] = r.feature
	}
	return out
}

// Unrecognized returns the columns not mapped to any catalog field.
func (c Capabilities) Unrecognized(columns []string) []string {
	used := make(map[int]bool, len(c.Mapping))
	for _, idx := range c.Mapping {
		used[idx] = true
	}
	var out []string
	for i, col := range columns {
		if !used[i] {
			out = append(out, col)
		}
	}
	return out
}

// Fields lists mapped fields with their source headers, sorted by column position.
func (c Capabilities) Fields(columns []string) []FieldColumn {
	out := make([]FieldColumn, 0, len(c.Mapping))
	for f, idx := range c.Mapping {
		header := ""
		if idx < len(columns) {
			header = columns[idx]
		}
		out = append(out, FieldColumn{Field: f, Column: header, Index: idx})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// FieldColumn pairs a recognized field with the header that supplied it.
type FieldColumn struct {
	Field  incident.Field `json:"field"`
	Column string         `json:"column"`
	Index  int            `json:"index"`
}

func (f FieldColumn) String() string {
	return strings.TrimSpace(string(f.Field) + " <- " + f.Column)
}
