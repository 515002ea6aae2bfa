// Package filter applies categorical selections to the normalized table.
//
// Dimensions are independent and combine as a conjunction, so the order in
// which they are applied never matters and re-applying a selection to its own
// result is a no-op.
package filter

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
)

// Dimension is a filter axis.
type Dimension string

const (
	Year   Dimension = "year"
	Region Dimension = "region"
	Type   Dimension = "type"
)

// Dimensions lists every filter axis in control order.
var Dimensions = []Dimension{Year, Region, Type}

// ErrNoData is reported when a selection leaves no rows.
var ErrNoData = errors.New("no data for the current selection")

// ParseDimension accepts a dimension name, case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown filter dimension %q (want year, region or type)", s)
}

// Field is the record field backing d.
func (d Dimension) Field() incident.Field {
	switch d {
	case Year:
		return incident.IncidentYear
	case Region:
		return incident.IncidentRegion
	default:
		return incident.IncidentType
	}
}

// Feature is the capability gating d.
func (d Dimension) Feature() schema.Feature {
	switch d {
	case Year:
		return schema.FilterByYear
	case Region:
		return schema.FilterByRegion
	default:
		return schema.FilterByType
	}
}

// Value returns the dimension key of r.
func (d Dimension) Value(r incident.Record) string {
	if d == Year {
		return r.YearKey()
	}
	return r.Text(d.Field())
}

// Selection maps a dimension to its accepted values. A missing key or an
// empty list means unrestricted.
type Selection map[Dimension][]string

// Clone returns a deep copy, trimmed and de-duplicated.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for d, vals := range s {
		seen := make(map[string]bool, len(vals))
		var cleaned []string
		for _, v := range vals {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			cleaned = append(cleaned, v)
		}
		if len(cleaned) > 0 {
			out[d] = cleaned
		}
	}
	return out
}

// Domain returns the distinct non-blank values of d over t. Years sort
// numerically (text years after numeric ones), others lexically.
func Domain(t *incident.Table, d Dimension) []string {
	if t == nil || !t.Has(d.Field()) {
		return nil
	}
	seen := map[string]bool{}
	var vals []string
	for _, r := range t.Records {
		v := strings.TrimSpace(d.Value(r))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		vals = append(vals, v)
	}
	if d == Year {
		sort.SliceStable(vals, func(i, j int) bool {
			a, aerr := strconv.Atoi(vals[i])
			b, berr := strconv.Atoi(vals[j])
			switch {
			case aerr == nil && berr == nil:
				return a < b
			case aerr == nil:
				return true
			case berr == nil:
				return false
			}
			return vals[i] < vals[j]
		})
	} else {
		sort.Strings(vals)
	}
	return vals
}

// Control is the presentation-facing state of one filter widget.
type Control struct {
	Dimension Dimension `json:"dimension"`
	Domain    []string  `json:"domain"`
	Selected  []string  `json:"selected"`
	// Visible is false when the domain offers no real choice.
	Visible bool `json:"visible"`
}

// Controls describes every available dimension over the unfiltered table.
// Unselected dimensions report the full domain as selected.
func Controls(t *incident.Table, caps schema.Capabilities, sel Selection) []Control {
	var out []Control
	for _, d := range Dimensions {
		if !caps.Enabled(d.Feature()) {
			continue
		}
		dom := Domain(t, d)
		selected := sel[d]
		if len(selected) == 0 {
			selected = dom
		}
		out = append(out, Control{
			Dimension: d,
			Domain:    dom,
			Selected:  append([]string(nil), selected...),
			Visible:   len(dom) > 1,
		})
	}
	return out
}

// State distinguishes the filter outcomes.
type State string

const (
	Unfiltered State = "unfiltered"
	Filtered   State = "filtered"
	NoData     State = "no_data"
)

// Result is the filtered view and how it came about.
type Result struct {
	Table *incident.Table
	// Active holds the dimensions that actually restricted rows.
	Active Selection
	State  State
}

// Err returns ErrNoData for an empty result and nil otherwise.
func (r Result) Err() error {
	if r.State == NoData {
		return ErrNoData
	}
	return nil
}

// Apply keeps the rows of t that satisfy every active dimension of sel.
// A dimension is inactive when its column is missing, its selection is empty,
// or the selection covers the whole domain. t is never modified.
func Apply(t *incident.Table, caps schema.Capabilities, sel Selection) Result {
	active := Active(t, caps, sel)
	if len(active) == 0 {
		out := t.Select(func(incident.Record) bool { return true })
		if out.Len() == 0 {
			return Result{Table: out, Active: active, State: NoData}
		}
		return Result{Table: out, Active: active, State: Unfiltered}
	}
	accept := make(map[Dimension]map[string]bool, len(active))
	for d, vals := range active {
		set := make(map[string]bool, len(vals))
		for _, v := range vals {
			set[v] = true
		}
		accept[d] = set
	}
	out := t.Select(func(r incident.Record) bool {
		for d, set := range accept {
			if !set[strings.TrimSpace(d.Value(r))] {
				return false
			}
		}
		return true
	})
	state := Filtered
	if out.Len() == 0 {
		state = NoData
	}
	return Result{Table: out, Active: active, State: state}
}

// Active returns the restricting subset of sel against t's domains.
func Active(t *incident.Table, caps schema.Capabilities, sel Selection) Selection {
	active := Selection{}
	for d, vals := range sel.Clone() {
		if !caps.Enabled(d.Feature()) || !t.Has(d.Field()) {
			continue
		}
		if covers(vals, Domain(t, d)) {
			continue
		}
		active[d] = vals
	}
	return active
}

func covers(vals, domain []string) bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	for _, v := range domain {
		if !set[v] {
			return false
		}
	}
	return true
}
