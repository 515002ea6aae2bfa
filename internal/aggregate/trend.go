package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
)

// TrendPoint is one calendar month of the time trend.
type TrendPoint struct {
	Period    string `json:"period"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Incidents int    `json:"incidents"`
	Victims   int64  `json:"victims"`
}

// Trend is the month-bucketed series. Victims is false when the dataset has
// no dead-and-missing total; the victim values are then zero.
type Trend struct {
	Points  []TrendPoint `json:"points"`
	Victims bool         `json:"victims"`
}

// TimeTrend groups rows by the calendar month of their parsed date, in
// chronological order. Rows with an empty date are left out.
func TimeTrend(t *incident.Table, caps schema.Capabilities) (Trend, error) {
	if err := guard(t, caps, schema.TimeTrend); err != nil {
		return Trend{}, err
	}
	withVictims := caps.Enabled(schema.VictimsTrend)
	type key struct{ y, m int }
	buckets := map[key]*TrendPoint{}
	for _, r := range t.Records {
		d, ok := r.Date.Get()
		if !ok {
			continue
		}
		k := key{d.Year(), int(d.Month())}
		p := buckets[k]
		if p == nil {
			p = &TrendPoint{Period: fmt.Sprintf("%04d-%02d", k.y, k.m), Year: k.y, Month: k.m}
			buckets[k] = p
		}
		p.Incidents++
		if withVictims {
			p.Victims += r.Count(incident.CountDeadMissingTotal)
		}
	}
	if len(buckets) == 0 {
		return Trend{}, fmt.Errorf("time trend: %w (no dated rows)", ErrInsufficientData)
	}
	out := Trend{Victims: withVictims, Points: make([]TrendPoint, 0, len(buckets))}
	for _, p := range buckets {
		out.Points = append(out.Points, *p)
	}
	sort.Slice(out.Points, func(i, j int) bool {
		a, b := out.Points[i], out.Points[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return out, nil
}

// MonthCount is one month label of the seasonal pattern.
type MonthCount struct {
	Month     string `json:"month"`
	Ordinal   int    `json:"ordinal"`
	Incidents int    `json:"incidents"`
}

// SeasonalPattern counts rows per month label in calendar order. Labels that
// are not month names sort last in first-seen order.
func SeasonalPattern(t *incident.Table, caps schema.Capabilities) ([]MonthCount, error) {
	if err := guard(t, caps, schema.Seasonal); err != nil {
		return nil, err
	}
	idx := map[string]int{}
	var out []MonthCount
	for _, r := range t.Records {
		label := strings.TrimSpace(r.Month)
		if label == "" {
			continue
		}
		i, ok := idx[label]
		if !ok {
			i = len(out)
			idx[label] = i
			out = append(out, MonthCount{Month: label, Ordinal: r.MonthOrdinal})
		}
		out[i].Incidents++
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("seasonal: %w (no month labels)", ErrInsufficientData)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Ordinal, out[j].Ordinal
		if a == 0 || b == 0 {
			return b == 0 && a != 0
		}
		return a < b
	})
	return out, nil
}
