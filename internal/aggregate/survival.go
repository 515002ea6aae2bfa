package aggregate

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/shopspring/decimal"
)

// DefaultMinSample is the smallest survivors + dead/missing total for which
// a survival rate is reported.
const DefaultMinSample = 5

// SurvivalRow is the survival rate of one incident type.
type SurvivalRow struct {
	Type        string  `json:"type"`
	Survivors   int64   `json:"survivors"`
	DeadMissing int64   `json:"dead_missing"`
	Rate        float64 `json:"rate"`
}

// Survival computes survivors / (survivors + dead_missing_total) * 100 per
// incident type, rounded to one decimal. Groups below minSample, or with a
// zero denominator, are dropped. Rows are ordered by rate, highest first,
// with ties in type name order.
func Survival(t *incident.Table, caps schema.Capabilities, minSample int) ([]SurvivalRow, error) {
	if err := guard(t, caps, schema.SurvivalRate); err != nil {
		return nil, err
	}
	groups := map[string]*SurvivalRow{}
	for _, r := range t.Records {
		k := strings.TrimSpace(r.Text(incident.IncidentType))
		if k == "" {
			continue
		}
		g := groups[k]
		if g == nil {
			g = &SurvivalRow{Type: k}
			groups[k] = g
		}
		g.Survivors += r.Count(incident.CountSurvivors)
		g.DeadMissing += r.Count(incident.CountDeadMissingTotal)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]SurvivalRow, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		total := g.Survivors + g.DeadMissing
		if total == 0 || total < int64(minSample) {
			continue
		}
		g.Rate = Rate(g.Survivors, total)
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	return out, nil
}

// Rate returns part/whole as a percentage rounded to one decimal, half away
// from zero. whole must be positive.
func Rate(part, whole int64) float64 {
	r, _ := decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(whole), 1).
		Float64()
	return r
}
