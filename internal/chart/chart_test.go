package chart

import (
	"bytes"
	"testing"

	"github.com/KaramelBytes/incidentscope-cli/internal/dataset"
	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/report"
	"github.com/KaramelBytes/incidentscope-cli/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var small = Size{Width: 640, Height: 320}

func isPNG(b []byte) bool { return bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")) }

func TestRenderSampleCharts(t *testing.T) {
	c := session.Sample()
	for _, kind := range []string{"trend", "types", "victims", "survival", "seasonal", "Regions"} {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, c, kind, report.DefaultOptions(), small), kind)
		assert.True(t, isPNG(buf.Bytes()), kind)
	}
}

func TestKindNamesMatchKinds(t *testing.T) {
	names := KindNames()
	assert.Len(t, names, len(Kinds))
	for _, n := range names {
		_, ok := Kinds[n]
		assert.True(t, ok, n)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, session.Sample(), "pie", report.DefaultOptions(), small)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Zero(t, buf.Len())
}

func TestRenderUnavailable(t *testing.T) {
	c := session.Sample().WithSelection(filter.Selection{filter.Region: {"Atlantis"}})
	var buf bytes.Buffer
	err := Render(&buf, c, "survival", report.DefaultOptions(), small)
	assert.ErrorIs(t, err, ErrUnavailable)

	plain, err := session.Upload("p.csv", []byte("Incident Type\nShipwreck\n"), nil, dataset.Options{})
	require.NoError(t, err)
	err = Render(&buf, plain, "trend", report.DefaultOptions(), small)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRenderSingleMonthTrend(t *testing.T) {
	c, err := session.Upload("one.csv", []byte("Incident Date,Total Number of Dead and Missing\n2023-01-04,3\n2023-01-20,2\n"), nil, dataset.Options{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, c, "trend", report.DefaultOptions(), small))
	assert.True(t, isPNG(buf.Bytes()))
}

func TestRenderAllZeroBars(t *testing.T) {
	c, err := session.Upload("z.csv", []byte("Incident Type,Total Number of Dead and Missing\nShipwreck,0\nDrowning,0\n"), nil, dataset.Options{})
	require.NoError(t, err)
	var buf bytes.Buffer
	err = Render(&buf, c, "victims", report.DefaultOptions(), small)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestRenderUniformBars(t *testing.T) {
	c, err := session.Upload("u.csv", []byte("Incident Type,Total Number of Dead and Missing\nShipwreck,4\nDrowning,4\nViolence,4\n"), nil, dataset.Options{})
	require.NoError(t, err)
	for _, kind := range []string{"types", "victims"} {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, c, kind, report.DefaultOptions(), small), kind)
		assert.True(t, isPNG(buf.Bytes()), kind)
	}
}
