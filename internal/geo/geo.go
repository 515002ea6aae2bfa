// Package geo turns normalized records into map markers. Rows with missing or
// out-of-range coordinates are dropped here only; tabular views keep them.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/incidentscope-cli/internal/aggregate"
	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// ErrNoCoordinates is returned when no row has a valid coordinate pair.
var ErrNoCoordinates = errors.New("no valid coordinates to display on the map")

// DefaultScale multiplies the log-compressed marker size.
const DefaultScale = 5.0

// World is the legal coordinate range, lon in X and lat in Y.
var World = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// Marker is one map point.
type Marker struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Size float64 `json:"size"`
	// Z is the heat intensity: victims when known, otherwise 1.
	Z        float64 `json:"z"`
	Location string  `json:"location,omitempty"`
	Type     string  `json:"type,omitempty"`
	Date     string  `json:"date,omitempty"`
	Victims  *int64  `json:"victims,omitempty"`
}

// Map is the sanitized payload of the geographic view.
type Map struct {
	Markers []Marker  `json:"markers"`
	Center  orb.Point `json:"center"`
	Bounds  orb.Bound `json:"bounds"`
	Dropped int       `json:"dropped"`
}

// Valid reports whether lat/lon form a legal pair.
func Valid(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return World.Contains(orb.Point{lon, lat})
}

// MarkerSize is log(1 + max(metric, 1)) * scale, so a zero-victim incident
// still gets a visible marker.
func MarkerSize(metric int64, scale float64) float64 {
	m := float64(metric)
	if m < 1 {
		m = 1
	}
	return math.Log1p(m) * scale
}

// Sanitize builds markers from t. Without a dead-and-missing total every
// marker has size scale and intensity 1.
func Sanitize(t *incident.Table, caps schema.Capabilities, scale float64) (*Map, error) {
	if st := caps.Status(schema.GeoMap); !st.Usable() {
		return nil, fmt.Errorf("%s: %w (%s)", schema.GeoMap, aggregate.ErrFeatureDisabled, st.State)
	}
	if t.Len() == 0 {
		return nil, filter.ErrNoData
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	hasTotal := t.Has(incident.CountDeadMissingTotal)
	out := &Map{}
	pts := make(orb.MultiPoint, 0, t.Len())
	var sumLat, sumLon float64
	for _, r := range t.Records {
		lat, okLat := r.Latitude.Get()
		lon, okLon := r.Longitude.Get()
		if !okLat || !okLon || !Valid(lat, lon) {
			out.Dropped++
			continue
		}
		m := Marker{
			Lat:      lat,
			Lon:      lon,
			Size:     scale,
			Z:        1,
			Location: r.Text(incident.IncidentLocation),
			Type:     r.Text(incident.IncidentType),
			Date:     hoverDate(r),
		}
		if hasTotal {
			v := r.Count(incident.CountDeadMissingTotal)
			m.Victims = &v
			m.Size = MarkerSize(v, scale)
			m.Z = float64(v)
		}
		out.Markers = append(out.Markers, m)
		pts = append(pts, orb.Point{lon, lat})
		sumLat += lat
		sumLon += lon
	}
	if len(out.Markers) == 0 {
		return nil, ErrNoCoordinates
	}
	if out.Dropped > 0 {
		log.Debug().Int("dropped", out.Dropped).Int("kept", len(out.Markers)).Msg("dropped rows without valid coordinates")
	}
	n := float64(len(out.Markers))
	out.Center = orb.Point{sumLon / n, sumLat / n}
	out.Bounds = pts.Bound()
	return out, nil
}

func hoverDate(r incident.Record) string {
	if d, ok := r.Date.Get(); ok {
		return d.Format("01/02/2006")
	}
	return r.Date.Raw()
}
