// Package normalize converts a raw uploaded table into the typed working
// table. It never drops rows.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/incidentscope-cli/internal/dataset"
	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/rs/zerolog/log"
)

// Result is the normalized table plus the capability set adjusted for
// columns that failed to convert.
type Result struct {
	Table    *incident.Table
	Caps     schema.Capabilities
	Warnings []string
}

// Normalize coerces recognized columns of raw. Counts become non-negative
// integers (invalid input reads 0). A date column with any unparsable cell
// keeps its original text and degrades the time trend.
func Normalize(raw *dataset.Table, caps schema.Capabilities) Result {
	m := caps.Mapping
	t := &incident.Table{
		Name:    raw.Name,
		Columns: append([]string(nil), raw.Columns...),
		Mapping: m,
		Records: make([]incident.Record, 0, len(raw.Rows)),
	}
	counts := incident.CountFields()
	var categorical []incident.Field
	for _, s := range incident.Catalog {
		if s.Kind == incident.KindCategorical {
			categorical = append(categorical, s.Field)
		}
	}

	dateIdx, hasDate := m[incident.IncidentDate]
	yearIdx, hasYear := m[incident.IncidentYear]
	monthIdx, hasMonth := m[incident.Month]
	latIdx, hasLat := m[incident.Latitude]
	lonIdx, hasLon := m[incident.Longitude]

	dateFailures := 0
	yearFailures := 0
	var firstBadDate string
	for _, row := range raw.Rows {
		cells := append([]string(nil), row...)
		cnt := make(map[incident.Field]int64, len(counts))
		for _, f := range counts {
			if idx, ok := m[f]; ok {
				cnt[f] = incident.ParseCount(cells[idx])
			}
		}
		txt := make(map[incident.Field]string, len(categorical))
		for _, f := range categorical {
			if idx, ok := m[f]; ok {
				txt[f] = strings.TrimSpace(cells[idx])
			}
		}
		rec := incident.NewRecord(cnt, txt, cells)
		if hasLat {
			rec.Latitude = coerceFloat(cells[latIdx])
		}
		if hasLon {
			rec.Longitude = coerceFloat(cells[lonIdx])
		}
		if hasDate {
			rec.Date = coerceDate(cells[dateIdx])
			if rec.Date.IsFallback() {
				dateFailures++
				if firstBadDate == "" {
					firstBadDate = rec.Date.Raw()
				}
			}
		}
		if hasYear {
			rec.Year = coerceYear(cells[yearIdx])
			if rec.Year.IsFallback() {
				yearFailures++
			}
		}
		if hasMonth {
			rec.Month = strings.TrimSpace(cells[monthIdx])
			rec.MonthOrdinal = incident.MonthOrdinal(rec.Month)
		}
		t.Records = append(t.Records, rec)
	}

	res := Result{Caps: caps}
	t.DateParsed = hasDate
	if hasDate && dateFailures > 0 {
		// The column is treated as a whole: one bad cell keeps every cell as text.
		for i := range t.Records {
			t.Records[i].Date = t.Records[i].Date.Degrade()
		}
		t.DateParsed = false
		reason := fmt.Sprintf("%d date value(s) could not be parsed (e.g. %q)", dateFailures, firstBadDate)
		res.Caps = caps.Degrade(reason, schema.TimeTrend, schema.VictimsTrend)
		res.Warnings = append(res.Warnings, "time trend disabled: "+reason)
		log.Warn().Str("file", raw.Name).Int("failures", dateFailures).Msg("date column kept as text")
	}
	t.YearNumeric = hasYear && yearFailures == 0
	if hasYear && yearFailures > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d year value(s) are not integers; kept as text", yearFailures))
	}
	t.NumericExtras = numericExtras(raw, m)
	res.Table = t
	log.Debug().Str("file", raw.Name).Int("rows", t.Len()).Int("fields", len(m)).Msg("normalized table")
	return res
}

func coerceFloat(s string) incident.Coercion[float64] {
	v := strings.TrimSpace(s)
	if v == "" {
		return incident.Null[float64]()
	}
	if f, ok := incident.ParseNumber(v); ok {
		return incident.Success(f, v)
	}
	return incident.Fallback[float64](v)
}

func coerceDate(s string) incident.Coercion[time.Time] {
	v := strings.TrimSpace(s)
	if v == "" {
		return incident.Null[time.Time]()
	}
	if t, ok := incident.ParseDate(v); ok {
		return incident.Success(t, v)
	}
	return incident.Fallback[time.Time](v)
}

func coerceYear(s string) incident.Coercion[int] {
	v := strings.TrimSpace(s)
	if v == "" {
		return incident.Null[int]()
	}
	if y, ok := incident.ParseYear(v); ok {
		return incident.Success(y, v)
	}
	return incident.Fallback[int](v)
}

// numericExtras finds unrecognized columns whose non-empty cells all parse
// as numbers, with at least one non-empty cell.
func numericExtras(raw *dataset.Table, m incident.Mapping) []int {
	used := make(map[int]bool, len(m))
	for _, idx := range m {
		used[idx] = true
	}
	var out []int
	for j := range raw.Columns {
		if used[j] || isCoordinateHeader(raw.Columns[j]) {
			continue
		}
		seen := false
		numeric := true
		for _, row := range raw.Rows {
			v := strings.TrimSpace(row[j])
			if v == "" {
				continue
			}
			seen = true
			if _, ok := incident.ParseNumber(v); !ok {
				numeric = false
				break
			}
		}
		if seen && numeric {
			out = append(out, j)
		}
	}
	return out
}

func isCoordinateHeader(h string) bool {
	switch strings.ToUpper(strings.TrimSpace(h)) {
	case "LATITUDE", "LONGITUDE":
		return true
	}
	return false
}
