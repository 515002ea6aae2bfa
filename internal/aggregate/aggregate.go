// Package aggregate computes the derived series behind each dashboard view.
// Every function checks the capability it depends on and refuses empty input.
package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
)

var (
	// ErrFeatureDisabled is returned when a view's columns are missing or degraded.
	ErrFeatureDisabled = errors.New("feature not available for this dataset")
	// ErrInsufficientData is returned when there is too little input for a meaningful result.
	ErrInsufficientData = errors.New("insufficient data")
)

// DefaultTopN is the truncation used by the ranked category views.
const DefaultTopN = 10

func guard(t *incident.Table, caps schema.Capabilities, f schema.Feature) error {
	if st := caps.Status(f); !st.Usable() {
		reason := st.Reason
		if len(st.Missing) > 0 {
			names := make([]string, len(st.Missing))
			for i, m := range st.Missing {
				names[i] = string(m)
			}
			reason = "missing " + strings.Join(names, ", ")
		}
		return fmt.Errorf("%s: %w (%s)", f, ErrFeatureDisabled, reason)
	}
	if t.Len() == 0 {
		return filter.ErrNoData
	}
	return nil
}

// Sum totals a count field over t.
func Sum(t *incident.Table, f incident.Field) int64 {
	var s int64
	for _, r := range t.Records {
		s += r.Count(f)
	}
	return s
}

// Bucket is one category of a grouped aggregation.
type Bucket struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// CountBy counts rows per non-blank value of f, largest first. Ties keep the
// order in which values first appear.
func CountBy(t *incident.Table, f incident.Field) []Bucket {
	return groupSorted(t, f, func(incident.Record) int64 { return 1 })
}

// SumBy totals metric per non-blank value of group, largest first.
func SumBy(t *incident.Table, group incident.Field, metric incident.Field) []Bucket {
	return groupSorted(t, group, func(r incident.Record) int64 { return r.Count(metric) })
}

func groupSorted(t *incident.Table, f incident.Field, val func(incident.Record) int64) []Bucket {
	idx := map[string]int{}
	var out []Bucket
	for _, r := range t.Records {
		k := strings.TrimSpace(r.Text(f))
		if k == "" {
			continue
		}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Bucket{Label: k})
		}
		out[i].Value += val(r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// TopN truncates ranked buckets to n; n <= 0 keeps everything.
func TopN(b []Bucket, n int) []Bucket {
	if n <= 0 || len(b) <= n {
		return b
	}
	return b[:n]
}

// Categories is the gated form of CountBy/SumBy used by the views.
func Categories(t *incident.Table, caps schema.Capabilities, f schema.Feature, topN int) ([]Bucket, error) {
	if err := guard(t, caps, f); err != nil {
		return nil, err
	}
	switch f {
	case schema.TypeCounts:
		return TopN(CountBy(t, incident.IncidentType), topN), nil
	case schema.VictimsByType:
		return TopN(SumBy(t, incident.IncidentType, incident.CountDeadMissingTotal), topN), nil
	case schema.CountryCounts:
		return CountBy(t, incident.IncidentCountry), nil
	case schema.RouteCounts:
		return TopN(CountBy(t, incident.MigrationRoute), topN), nil
	case schema.OriginCountry:
		return TopN(CountBy(t, incident.OriginCountry), topN), nil
	case schema.OriginRegion:
		return CountBy(t, incident.OriginRegion), nil
	case schema.CauseCounts:
		return TopN(CountBy(t, incident.CauseOfDeath), CauseWords), nil
	}
	return nil, fmt.Errorf("%s: not a category view", f)
}

// CauseWords bounds the cause-of-death frequency list.
const CauseWords = 50
