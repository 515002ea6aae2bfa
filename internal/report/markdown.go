package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/aggregate"
	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/geo"
	"github.com/KaramelBytes/incidentscope-cli/internal/labels"
	"github.com/KaramelBytes/incidentscope-cli/internal/utils"
)

// JSON renders the dashboard as indented JSON.
func (d *Dashboard) JSON() ([]byte, error) {
	b, err := utils.PrettyJSON(d)
	if err != nil {
		return nil, fmt.Errorf("encode dashboard: %w", err)
	}
	return b, nil
}

// Markdown renders a compact report. Disabled sections are left out.
func (d *Dashboard) Markdown() string {
	l := labels.For(d.Language)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", d.Title))
	b.WriteString(fmt.Sprintf("%s: %s\n", l.T(labels.File), safeName(d.Source)))
	rows := l.Int(int64(d.Rows))
	if d.Rows < d.TotalRows {
		rows = fmt.Sprintf(l.T(labels.RowsOf), rows, l.Int(int64(d.TotalRows)))
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", l.T(labels.Rows), rows))
	for _, n := range d.Notices {
		b.WriteString(fmt.Sprintf("\n> %s\n", n))
	}
	if active := activeControls(d.Controls); len(active) > 0 {
		b.WriteString("\n")
		for _, c := range active {
			b.WriteString(fmt.Sprintf("- %s: %s\n", l.Dimension(c.Dimension), strings.Join(c.Selected, ", ")))
		}
	}
	if d.State == filter.NoData {
		return b.String()
	}
	for _, v := range d.Views {
		if v.Status == Disabled && v.Message == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("\n## %s\n\n", v.Title))
		if v.Status != OK {
			b.WriteString(fmt.Sprintf("_%s_\n", safeVal(v.Message)))
			continue
		}
		writeView(&b, l, v)
	}
	if len(d.Warnings) > 0 {
		b.WriteString(fmt.Sprintf("\n## %s\n\n", l.T(labels.Notes)))
		for _, w := range d.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	b.WriteString(fmt.Sprintf("\n---\n%s\n", l.T(labels.Footer)))
	return b.String()
}

func activeControls(cs []filter.Control) []filter.Control {
	var out []filter.Control
	for _, c := range cs {
		if len(c.Selected) < len(c.Domain) {
			out = append(out, c)
		}
	}
	return out
}

func writeView(b *strings.Builder, l labels.Labels, v View) {
	switch data := v.Data.(type) {
	case aggregate.KPIs:
		b.WriteString(fmt.Sprintf("- %s: %s\n", l.T(labels.KPIIncidents), l.Int(int64(data.Incidents))))
		for _, kv := range []struct {
			key labels.Key
			val *int64
		}{
			{labels.KPIVictims, data.Victims},
			{labels.KPISurvivors, data.Survivors},
			{labels.KPIChildren, data.Children},
			{labels.KPIDead, data.Dead},
			{labels.KPIMissing, data.Missing},
		} {
			if kv.val != nil {
				b.WriteString(fmt.Sprintf("- %s: %s\n", l.T(kv.key), l.Int(*kv.val)))
			}
		}
	case aggregate.Trend:
		counts := make([]float64, len(data.Points))
		victims := make([]float64, len(data.Points))
		for i, p := range data.Points {
			counts[i] = float64(p.Incidents)
			victims[i] = float64(p.Victims)
		}
		b.WriteString(fmt.Sprintf("%s: `%s`\n", l.T(labels.Incidents), Sparkline(counts)))
		if data.Victims {
			b.WriteString(fmt.Sprintf("%s: `%s`\n", l.T(labels.Victims), Sparkline(victims)))
		}
		b.WriteString("\n")
		if data.Victims {
			tableHeader(b, l.T(labels.Month), l.T(labels.Incidents), l.T(labels.Victims))
			for _, p := range data.Points {
				tableRow(b, p.Period, l.Int(int64(p.Incidents)), l.Int(p.Victims))
			}
		} else {
			tableHeader(b, l.T(labels.Month), l.T(labels.Incidents))
			for _, p := range data.Points {
				tableRow(b, p.Period, l.Int(int64(p.Incidents)))
			}
		}
	case []aggregate.Bucket:
		for _, kv := range data {
			b.WriteString(fmt.Sprintf("- %s: %s\n", safeVal(kv.Label), l.Int(kv.Value)))
		}
	case *geo.Map:
		b.WriteString(fmt.Sprintf("Markers: %d (dropped %d)\n", len(data.Markers), data.Dropped))
		b.WriteString(fmt.Sprintf("Center: %s, %s\n", l.Float(data.Center.Lat(), 4), l.Float(data.Center.Lon(), 4)))
		tableHeader(b, "lat", "lon", "size", "type", "date", "location")
		for _, m := range data.Markers {
			tableRow(b, l.Float(m.Lat, 4), l.Float(m.Lon, 4), l.Float(m.Size, 2), m.Type, m.Date, m.Location)
		}
	case aggregate.Demographics:
		b.WriteString(fmt.Sprintf("- %s: %s\n", l.T(labels.Male), l.Int(data.Males)))
		b.WriteString(fmt.Sprintf("- %s: %s\n", l.T(labels.Female), l.Int(data.Females)))
		b.WriteString(fmt.Sprintf("\n**%s**\n\n", l.T("view.children")))
		b.WriteString(fmt.Sprintf("- %s: %s\n", l.T(labels.Adults), l.Int(data.Adults)))
		b.WriteString(fmt.Sprintf("- %s: %s\n", l.T(labels.Children), l.Int(data.Children)))
	case []aggregate.SurvivalRow:
		if len(data) == 0 {
			b.WriteString("_n/a_\n")
			return
		}
		tableHeader(b, l.Dimension(filter.Type), l.T(labels.SurvivalPct), "n")
		for _, r := range data {
			tableRow(b, r.Type, l.Percent(r.Rate), l.Int(r.Survivors+r.DeadMissing))
		}
	case []aggregate.MonthCount:
		for _, m := range data {
			b.WriteString(fmt.Sprintf("- %s: %s\n", safeVal(m.Month), l.Int(int64(m.Incidents))))
		}
	case *aggregate.Matrix:
		for _, p := range data.TopPairs(10) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	case Records:
		b.WriteString(fmt.Sprintf("%s: %d (1..%d)\n\n", l.T(labels.RecordsToShow), data.Shown, data.Max))
		tableHeader(b, data.Columns...)
		for _, row := range data.Rows {
			cells := make([]string, len(row))
			for i, val := range row {
				if r := []rune(val); len(r) > 80 {
					val = string(r[:77]) + "..."
				}
				cells[i] = val
			}
			tableRow(b, cells...)
		}
	}
}

func tableHeader(b *strings.Builder, cols ...string) {
	b.WriteString("| ")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(c))
	}
	b.WriteString(" |\n|")
	for range cols {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
}

func tableRow(b *strings.Builder, cells ...string) {
	b.WriteString("| ")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(c))
	}
	b.WriteString(" |\n")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// Sparkline renders values as a row of block characters. NaN renders blank.
func Sparkline(values []float64) string {
	blocks := []rune("▁▂▃▄▅▆▇█")
	n := len(blocks)

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if math.IsInf(min, 1) {
		return strings.Repeat(" ", len(values))
	}

	spread := max - min
	var sb strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			sb.WriteRune(' ')
			continue
		}
		idx := n / 2
		if spread > 0 {
			idx = int((v - min) / spread * float64(n-1))
			if idx >= n {
				idx = n - 1
			}
		}
		sb.WriteRune(blocks[idx])
	}
	return sb.String()
}
