package schema

import (
	"testing"

	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEnablesByColumns(t *testing.T) {
	cols := []string{"Incident Type", "Number of Survivors", "Total Number of Dead and Missing", "Notes"}
	c := Detect(cols)

	assert.True(t, c.Enabled(Summary), "summary needs no columns")
	assert.True(t, c.Enabled(RecordBrowser))
	assert.True(t, c.Enabled(TypeCounts))
	assert.True(t, c.Enabled(VictimsByType))
	assert.True(t, c.Enabled(SurvivalRate))
	assert.True(t, c.Enabled(FilterByType))

	geo := c.Status(GeoMap)
	assert.Equal(t, Disabled, geo.State)
	assert.Equal(t, []incident.Field{incident.Latitude, incident.Longitude}, geo.Missing)
	assert.False(t, c.Enabled(TimeTrend))
	assert.False(t, c.Enabled(FilterByYear))

	assert.Equal(t, []string{"Notes"}, c.Unrecognized(cols))
}

func TestDetectEmptyHeader(t *testing.T) {
	c := Detect(nil)
	for _, f := range Ordered() {
		switch f {
		case Summary, Correlation, RecordBrowser:
			assert.True(t, c.Enabled(f), f)
		default:
			assert.False(t, c.Enabled(f), f)
		}
	}
}

func TestStatusUnknownFeature(t *testing.T) {
	st := Detect(nil).Status(Feature("heatmap"))
	assert.Equal(t, Disabled, st.State)
	assert.False(t, st.Usable())
}

func TestDegradeReturnsCopy(t *testing.T) {
	c := Detect([]string{"Incident Date", "Total Number of Dead and Missing"})
	require.True(t, c.Enabled(TimeTrend))

	d := c.Degrade("bad dates", TimeTrend, VictimsTrend, GeoMap)
	assert.Equal(t, Degraded, d.Status(TimeTrend).State)
	assert.Equal(t, "bad dates", d.Status(VictimsTrend).Reason)
	assert.Equal(t, Disabled, d.Status(GeoMap).State, "disabled features stay disabled")
	assert.True(t, c.Enabled(TimeTrend), "the original is unchanged")
}

func TestFieldsSortedByColumn(t *testing.T) {
	cols := []string{"Month", "x", "Incident Type"}
	fs := Detect(cols).Fields(cols)
	require.Len(t, fs, 2)
	assert.Equal(t, FieldColumn{Field: incident.Month, Column: "Month", Index: 0}, fs[0])
	assert.Equal(t, "incident_type <- Incident Type", fs[1].String())
}

func TestOrderedCoversEveryFeature(t *testing.T) {
	c := Detect(nil)
	assert.Len(t, Ordered(), len(c.Features))
	assert.Equal(t, Summary, Ordered()[0])
}
