// Package report assembles every dashboard view of a session and renders the
// result as Markdown or JSON.
package report

import (
	"errors"

	"github.com/KaramelBytes/incidentscope-cli/internal/aggregate"
	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/geo"
	"github.com/KaramelBytes/incidentscope-cli/internal/labels"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/KaramelBytes/incidentscope-cli/internal/session"
)

// Status is the outcome of one view.
type Status string

const (
	OK               Status = "ok"
	Disabled         Status = "disabled"
	Degraded         Status = "degraded"
	NoData           Status = "no_data"
	InsufficientData Status = "insufficient_data"
	NoCoordinates    Status = "no_coordinates"
)

// Views lists the dashboard sections in display order.
var Views = []schema.Feature{
	schema.Summary,
	schema.TimeTrend,
	schema.TypeCounts,
	schema.VictimsByType,
	schema.GeoMap,
	schema.CountryCounts,
	schema.RouteCounts,
	schema.Demographics,
	schema.OriginCountry,
	schema.OriginRegion,
	schema.SurvivalRate,
	schema.CauseCounts,
	schema.Seasonal,
	schema.Correlation,
	schema.RecordBrowser,
}

// IsView reports whether f names a dashboard section.
func IsView(f schema.Feature) bool {
	for _, v := range Views {
		if v == f {
			return true
		}
	}
	return false
}

// Options controls view computation.
type Options struct {
	TopN           int
	MinSample      int
	MarkerScale    float64
	Records        int
	PreviewDefault int
	PreviewMax     int
	Labels         labels.Labels
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		TopN:           aggregate.DefaultTopN,
		MinSample:      aggregate.DefaultMinSample,
		MarkerScale:    geo.DefaultScale,
		PreviewDefault: 10,
		PreviewMax:     50,
		Labels:         labels.For(labels.Default),
	}
}

// View is one computed dashboard section.
type View struct {
	Feature schema.Feature `json:"feature"`
	Title   string         `json:"title"`
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    any            `json:"data,omitempty"`
}

// Records is the payload of the record browser.
type Records struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Shown   int        `json:"shown"`
	Min     int        `json:"min"`
	Max     int        `json:"max"`
	Default int        `json:"default"`
}

// Dashboard is the full rendering input of one session snapshot.
type Dashboard struct {
	Title     string           `json:"title"`
	SessionID string           `json:"session_id"`
	Revision  int              `json:"revision"`
	Source    string           `json:"source"`
	Sample    bool             `json:"sample"`
	Language  string           `json:"language"`
	State     filter.State     `json:"state"`
	Rows      int              `json:"rows"`
	TotalRows int              `json:"total_rows"`
	Notices   []string         `json:"notices,omitempty"`
	Warnings  []string         `json:"warnings,omitempty"`
	Controls  []filter.Control `json:"controls"`
	Views     []View           `json:"views"`
}

// Build computes every view of c. Views never fail the dashboard; each one
// carries its own status.
func Build(c *session.Context, opt Options) *Dashboard {
	d := &Dashboard{
		Title:     opt.Labels.T(labels.AppTitle),
		SessionID: c.ID(),
		Revision:  c.Revision(),
		Source:    c.Source(),
		Sample:    c.IsSample(),
		Language:  opt.Labels.Lang(),
		State:     c.Result().State,
		Rows:      c.Working().Len(),
		TotalRows: c.Table().Len(),
		Warnings:  c.Warnings(),
		Controls:  c.Controls(),
	}
	if c.IsSample() {
		d.Notices = append(d.Notices, opt.Labels.T(labels.SampleNotice))
	}
	if c.NoData() {
		d.Notices = append(d.Notices, opt.Labels.T(labels.NoDataNotice))
	}
	for _, f := range Views {
		d.Views = append(d.Views, BuildView(c, f, opt))
	}
	return d
}

// View returns the computed section for f.
func (d *Dashboard) View(f schema.Feature) (View, bool) {
	for _, v := range d.Views {
		if v.Feature == f {
			return v, true
		}
	}
	return View{}, false
}

// BuildView computes one section. An empty selection short-circuits every
// view to no_data without running any aggregation.
func BuildView(c *session.Context, f schema.Feature, opt Options) View {
	l := opt.Labels
	v := View{Feature: f, Title: l.View(f)}
	caps := c.Capabilities()
	st := caps.Status(f)
	switch st.State {
	case schema.Disabled:
		v.Status = Disabled
		if f == schema.GeoMap {
			v.Message = l.T(labels.NoCoordColumns)
		}
		return v
	case schema.Degraded:
		v.Status = Degraded
		v.Message = st.Reason
		return v
	}
	if c.NoData() {
		v.Status = NoData
		v.Message = l.T(labels.NoDataNotice)
		return v
	}
	t := c.Working()
	var (
		data any
		err  error
	)
	switch f {
	case schema.Summary:
		data, err = aggregate.Summary(t, caps)
	case schema.TimeTrend:
		data, err = aggregate.TimeTrend(t, caps)
	case schema.GeoMap:
		data, err = geo.Sanitize(t, caps, opt.MarkerScale)
	case schema.Demographics:
		data, err = aggregate.Demographic(t, caps)
	case schema.SurvivalRate:
		data, err = aggregate.Survival(t, caps, opt.MinSample)
	case schema.Seasonal:
		data, err = aggregate.SeasonalPattern(t, caps)
	case schema.Correlation:
		data, err = aggregate.Correlation(t, caps)
	case schema.RecordBrowser:
		data, err = records(c, opt)
	default:
		data, err = aggregate.Categories(t, caps, f, opt.TopN)
	}
	v.Status, v.Message = classify(err, l, f)
	if v.Status == OK {
		v.Data = data
	}
	return v
}

func classify(err error, l labels.Labels, f schema.Feature) (Status, string) {
	switch {
	case err == nil:
		return OK, ""
	case errors.Is(err, filter.ErrNoData):
		return NoData, l.T(labels.NoDataNotice)
	case errors.Is(err, geo.ErrNoCoordinates):
		return NoCoordinates, l.T(labels.NoCoordinates)
	case errors.Is(err, aggregate.ErrInsufficientData):
		switch f {
		case schema.Correlation:
			return InsufficientData, l.T(labels.NotEnoughNumeric)
		case schema.Seasonal:
			return InsufficientData, l.T(labels.BadMonths)
		}
		return InsufficientData, err.Error()
	case errors.Is(err, aggregate.ErrFeatureDisabled):
		return Disabled, ""
	}
	return Degraded, err.Error()
}

func records(c *session.Context, opt Options) (Records, error) {
	t := c.Working()
	head, err := aggregate.Preview(t, c.Capabilities(), opt.Records, opt.PreviewDefault, opt.PreviewMax)
	if err != nil {
		return Records{}, err
	}
	lo, hi, dflt := aggregate.PreviewBounds(t.Len(), opt.PreviewDefault, opt.PreviewMax)
	return Records{
		Columns: append([]string(nil), head.Columns...),
		Rows:    head.Rows(),
		Shown:   head.Len(),
		Min:     lo,
		Max:     hi,
		Default: dflt,
	}, nil
}
