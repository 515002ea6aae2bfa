package aggregate

import (
	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
)

// KPIs is the headline metric row. A nil metric means its column is absent.
type KPIs struct {
	Incidents int    `json:"incidents"`
	Victims   *int64 `json:"victims,omitempty"`
	Survivors *int64 `json:"survivors,omitempty"`
	Children  *int64 `json:"children,omitempty"`
	Dead      *int64 `json:"dead,omitempty"`
	Missing   *int64 `json:"missing,omitempty"`
}

// Summary computes the KPI row. count_dead_missing_total is trusted as
// provided; it is never rebuilt from the dead and missing columns.
func Summary(t *incident.Table, caps schema.Capabilities) (KPIs, error) {
	if err := guard(t, caps, schema.Summary); err != nil {
		return KPIs{}, err
	}
	k := KPIs{Incidents: t.Len()}
	sum := func(f incident.Field) *int64 {
		if !t.Has(f) {
			return nil
		}
		v := Sum(t, f)
		return &v
	}
	k.Victims = sum(incident.CountDeadMissingTotal)
	k.Survivors = sum(incident.CountSurvivors)
	k.Children = sum(incident.CountChildren)
	k.Dead = sum(incident.CountDead)
	k.Missing = sum(incident.CountMissingMin)
	return k, nil
}

// Demographics is the gender and age split of victims.
type Demographics struct {
	Males    int64 `json:"males"`
	Females  int64 `json:"females"`
	Children int64 `json:"children"`
	// Adults is males + females - children, never below zero.
	Adults int64 `json:"adults"`
}

// Demographic sums the demographic columns.
func Demographic(t *incident.Table, caps schema.Capabilities) (Demographics, error) {
	if err := guard(t, caps, schema.Demographics); err != nil {
		return Demographics{}, err
	}
	d := Demographics{
		Males:    Sum(t, incident.CountMale),
		Females:  Sum(t, incident.CountFemale),
		Children: Sum(t, incident.CountChildren),
	}
	d.Adults = d.Males + d.Females - d.Children
	if d.Adults < 0 {
		d.Adults = 0
	}
	return d, nil
}

// PreviewBounds returns the record-preview slider range and default for a
// table of rows records. All three are 0 for an empty table.
func PreviewBounds(rows, def, max int) (lo, hi, dflt int) {
	if rows <= 0 {
		return 0, 0, 0
	}
	hi = rows
	if max > 0 && max < hi {
		hi = max
	}
	dflt = def
	if dflt <= 0 || dflt > hi {
		dflt = hi
	}
	return 1, hi, dflt
}

// ClampPreview forces n into the preview range.
func ClampPreview(n, rows, def, max int) int {
	lo, hi, dflt := PreviewBounds(rows, def, max)
	switch {
	case hi == 0:
		return 0
	case n == 0:
		return dflt
	case n < lo:
		return lo
	case n > hi:
		return hi
	}
	return n
}

// Preview returns the first n rows of t, n clamped to the preview range.
func Preview(t *incident.Table, caps schema.Capabilities, n, def, max int) (*incident.Table, error) {
	if err := guard(t, caps, schema.RecordBrowser); err != nil {
		return nil, err
	}
	return t.Head(ClampPreview(n, t.Len(), def, max)), nil
}
