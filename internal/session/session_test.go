package session

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/incidentscope-cli/internal/dataset"
	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const csvContent = "Incident Type,Incident Year,Incident Date\nShipwreck,2022,2022-01-02\nDrowning,2023,not a date\n"

func TestSampleSession(t *testing.T) {
	c := Sample()
	assert.True(t, c.IsSample())
	assert.Equal(t, dataset.SampleName, c.Source())
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, 0, c.Revision())
	assert.Equal(t, filter.Unfiltered, c.Result().State)
	assert.Equal(t, 6, c.Working().Len())
	assert.False(t, c.NoData())
	assert.False(t, c.LoadedAt().IsZero())
	assert.Empty(t, c.Warnings())
}

func TestUploadDegradesDates(t *testing.T) {
	c, err := Upload("incidents.csv", []byte(csvContent), nil, dataset.Options{})
	require.NoError(t, err)
	assert.False(t, c.IsSample())
	assert.Equal(t, "incidents.csv", c.Source())
	assert.Equal(t, schema.Degraded, c.Capabilities().Status(schema.TimeTrend).State)
	require.Len(t, c.Warnings(), 1)
	assert.Len(t, c.Raw().Rows, 2)
	assert.Equal(t, 2, c.Table().Len())
}

func TestUploadFailure(t *testing.T) {
	_, err := Upload("notes.pdf", []byte("x"), dataset.NewCache(2), dataset.Options{})
	var le *dataset.LoadError
	require.ErrorAs(t, err, &le)
}

func TestOpen(t *testing.T) {
	c, err := Open("", nil, dataset.Options{})
	require.NoError(t, err)
	assert.True(t, c.IsSample())

	dir := t.TempDir()
	p := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(p, []byte(csvContent), 0o644))
	c, err = Open(p, dataset.NewCache(2), dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, "data.csv", c.Source())

	_, err = Open(filepath.Join(dir, "missing.csv"), nil, dataset.Options{})
	var le *dataset.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "missing.csv", le.Name)
}

func TestWithSelectionDerivesNewContext(t *testing.T) {
	base := Sample()
	sel := filter.Selection{filter.Type: {"Shipwreck", "Drowning"}}
	next := base.WithSelection(sel)

	assert.Equal(t, base.ID(), next.ID())
	assert.Equal(t, 1, next.Revision())
	assert.Equal(t, filter.Filtered, next.Result().State)
	assert.Equal(t, 2, next.Working().Len())

	assert.Equal(t, 0, base.Revision(), "the original snapshot is unchanged")
	assert.Equal(t, 6, base.Working().Len())
	assert.Empty(t, base.Selection())

	sel[filter.Type][0] = "Violence"
	assert.Equal(t, "Shipwreck", next.Selection()[filter.Type][0], "selection is copied")

	empty := next.WithSelection(filter.Selection{filter.Region: {"Atlantis"}})
	assert.True(t, empty.NoData())
	assert.Equal(t, 2, empty.Revision())
	assert.Equal(t, 6, empty.Table().Len(), "normalized table is shared, never filtered")

	cleared := empty.WithSelection(nil)
	assert.Equal(t, filter.Unfiltered, cleared.Result().State)
}

func TestControlsUseUnfilteredDomain(t *testing.T) {
	c := Sample().WithSelection(filter.Selection{filter.Region: {"Europe"}})
	for _, ctl := range c.Controls() {
		if ctl.Dimension == filter.Type {
			assert.Len(t, ctl.Domain, 6)
		}
		if ctl.Dimension == filter.Region {
			assert.Equal(t, []string{"Europe"}, ctl.Selected)
		}
	}
}

func TestUploadSpreadsheetDatesKeepTrend(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Incident Type", "Incident Date"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Shipwreck", time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Drowning", time.Date(2023, time.March, 2, 0, 0, 0, 0, time.UTC)}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	c, err := Upload("incidents.xlsx", buf.Bytes(), nil, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, schema.Enabled, c.Capabilities().Status(schema.TimeTrend).State)
	assert.Empty(t, c.Warnings())
}
