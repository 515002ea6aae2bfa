// Package chart renders dashboard views as PNG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KaramelBytes/incidentscope-cli/internal/aggregate"
	"github.com/KaramelBytes/incidentscope-cli/internal/labels"
	"github.com/KaramelBytes/incidentscope-cli/internal/report"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/KaramelBytes/incidentscope-cli/internal/session"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrTooFewPoints is returned when a series has nothing worth plotting.
	ErrTooFewPoints = errors.New("not enough points to draw a chart")
	// ErrUnknownKind is returned for chart names outside Kinds.
	ErrUnknownKind = errors.New("unknown chart kind")
	// ErrUnavailable is returned when the underlying view has no data.
	ErrUnavailable = errors.New("view unavailable")
)

// Kinds maps chart names to the views they draw.
var Kinds = map[string]schema.Feature{
	"trend":     schema.TimeTrend,
	"types":     schema.TypeCounts,
	"victims":   schema.VictimsByType,
	"countries": schema.CountryCounts,
	"routes":    schema.RouteCounts,
	"origins":   schema.OriginCountry,
	"regions":   schema.OriginRegion,
	"causes":    schema.CauseCounts,
	"survival":  schema.SurvivalRate,
	"seasonal":  schema.Seasonal,
}

// KindNames lists the chart names in a stable order.
func KindNames() []string {
	return []string{"trend", "types", "victims", "countries", "routes", "origins", "regions", "causes", "survival", "seasonal"}
}

// Size is the output image size in pixels.
type Size struct {
	Width  int
	Height int
}

// Render draws the named chart of c to w.
func Render(w io.Writer, c *session.Context, kind string, opt report.Options, size Size) error {
	f, ok := Kinds[strings.ToLower(kind)]
	if !ok {
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownKind, kind, strings.Join(KindNames(), ", "))
	}
	v := report.BuildView(c, f, opt)
	if v.Status != report.OK {
		msg := v.Message
		if msg == "" {
			msg = string(v.Status)
		}
		return fmt.Errorf("%s: %w: %s", kind, ErrUnavailable, msg)
	}
	l := opt.Labels
	switch data := v.Data.(type) {
	case aggregate.Trend:
		return trend(w, v.Title, data, l, size)
	case []aggregate.Bucket:
		bars := make([]gochart.Value, len(data))
		for i, b := range data {
			bars[i] = gochart.Value{Label: b.Label, Value: float64(b.Value)}
		}
		return bar(w, v.Title, bars, size)
	case []aggregate.SurvivalRow:
		bars := make([]gochart.Value, len(data))
		for i, r := range data {
			bars[i] = gochart.Value{Label: r.Type, Value: r.Rate}
		}
		return bar(w, v.Title, bars, size)
	case []aggregate.MonthCount:
		bars := make([]gochart.Value, len(data))
		for i, m := range data {
			bars[i] = gochart.Value{Label: m.Month, Value: float64(m.Incidents)}
		}
		return bar(w, v.Title, bars, size)
	}
	return fmt.Errorf("%s: %w", kind, ErrUnknownKind)
}

func trend(w io.Writer, title string, t aggregate.Trend, l labels.Labels, size Size) error {
	if len(t.Points) == 0 {
		return ErrTooFewPoints
	}
	xs := make([]time.Time, len(t.Points))
	incidents := make([]float64, len(t.Points))
	victims := make([]float64, len(t.Points))
	for i, p := range t.Points {
		xs[i] = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
		incidents[i] = float64(p.Incidents)
		victims[i] = float64(p.Victims)
	}
	// A single month gets a second point so the x range is not empty.
	if len(xs) == 1 {
		xs = append(xs, xs[0].AddDate(0, 1, 0))
		incidents = append(incidents, incidents[0])
		victims = append(victims, victims[0])
	}
	series := []gochart.Series{
		gochart.TimeSeries{
			Name:    l.T(labels.Incidents),
			XValues: xs,
			YValues: incidents,
			Style:   gochart.Style{StrokeColor: gochart.ColorBlue, StrokeWidth: 2, DotWidth: 3, DotColor: gochart.ColorBlue},
		},
	}
	if t.Victims {
		series = append(series, gochart.TimeSeries{
			Name:    l.T(labels.Victims),
			YAxis:   gochart.YAxisSecondary,
			XValues: xs,
			YValues: victims,
			Style:   gochart.Style{StrokeColor: drawing.ColorRed, StrokeWidth: 2, DotWidth: 3, DotColor: drawing.ColorRed},
		})
	}
	ch := gochart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.XAxis{ValueFormatter: gochart.TimeValueFormatterWithFormat("2006-01")},
		YAxis:      gochart.YAxis{Name: l.T(labels.Incidents), Range: fromZero(incidents)},
		Series:     series,
	}
	if t.Victims {
		ch.YAxisSecondary = gochart.YAxis{Name: l.T(labels.Victims), Range: fromZero(victims)}
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render trend chart: %w", err)
	}
	return nil
}

// fromZero is a y range from 0 to the largest value, never empty.
func fromZero(vals []float64) *gochart.ContinuousRange {
	top := 1.0
	for _, v := range vals {
		if v > top {
			top = v
		}
	}
	return &gochart.ContinuousRange{Min: 0, Max: top}
}

func bar(w io.Writer, title string, bars []gochart.Value, size Size) error {
	top := 0.0
	for _, b := range bars {
		if b.Value > top {
			top = b.Value
		}
	}
	// go-chart cannot scale a bar chart whose values are all zero.
	if top == 0 {
		return ErrTooFewPoints
	}
	barWidth := 40
	if n := len(bars); n > 0 && size.Width > 0 {
		if bw := size.Width/(n*2) - 4; bw < barWidth {
			barWidth = bw
		}
		if barWidth < 4 {
			barWidth = 4
		}
	}
	// Bars start at zero so uniform values still have a non-empty range.
	ch := gochart.BarChart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: top}},
		Bars:       bars,
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}
