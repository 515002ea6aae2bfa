package filter

import (
	"testing"

	"github.com/KaramelBytes/incidentscope-cli/internal/dataset"
	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/normalize"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) (*incident.Table, schema.Capabilities) {
	t.Helper()
	cols := []string{"Incident Year", "Region of Incident", "Incident Type"}
	raw := &dataset.Table{Name: "f.csv", Columns: cols, Rows: [][]string{
		{"2021", "Mediterranean", "Shipwreck"},
		{"2022", "Mediterranean", "Drowning"},
		{"2022", "Europe", "Shipwreck"},
		{"10", "Europe", "Violence"},
		{"unknown", "", "Violence"},
		{"2023", "North America", " Shipwreck "},
	}}
	res := normalize.Normalize(raw, schema.Detect(cols))
	return res.Table, res.Caps
}

func types(tbl *incident.Table) []string {
	var out []string
	for _, r := range tbl.Records {
		out = append(out, r.Text(incident.IncidentType))
	}
	return out
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension(" Region ")
	require.NoError(t, err)
	assert.Equal(t, Region, d)
	_, err = ParseDimension("country")
	assert.Error(t, err)
}

func TestDomainOrdering(t *testing.T) {
	tbl, _ := fixture(t)
	assert.Equal(t, []string{"10", "2021", "2022", "2023", "unknown"}, Domain(tbl, Year))
	assert.Equal(t, []string{"Europe", "Mediterranean", "North America"}, Domain(tbl, Region))
	assert.Equal(t, []string{"Drowning", "Shipwreck", "Violence"}, Domain(tbl, Type))
}

func TestApplyConjunction(t *testing.T) {
	tbl, caps := fixture(t)
	res := Apply(tbl, caps, Selection{Year: {"2022"}, Type: {"Shipwreck"}})
	assert.Equal(t, Filtered, res.State)
	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "Europe", res.Table.Records[0].Text(incident.IncidentRegion))
	assert.NoError(t, res.Err())
	assert.Equal(t, 6, tbl.Len(), "source table untouched")
}

func TestApplyTextYear(t *testing.T) {
	tbl, caps := fixture(t)
	res := Apply(tbl, caps, Selection{Year: {"unknown"}})
	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, "Violence", res.Table.Records[0].Text(incident.IncidentType))
}

func TestApplyOrderIndependent(t *testing.T) {
	tbl, caps := fixture(t)
	a := Apply(Apply(tbl, caps, Selection{Region: {"Europe", "Mediterranean"}}).Table, caps, Selection{Type: {"Shipwreck"}})
	b := Apply(Apply(tbl, caps, Selection{Type: {"Shipwreck"}}).Table, caps, Selection{Region: {"Europe", "Mediterranean"}})
	both := Apply(tbl, caps, Selection{Region: {"Europe", "Mediterranean"}, Type: {"Shipwreck"}})
	assert.Equal(t, types(both.Table), types(a.Table))
	assert.Equal(t, types(both.Table), types(b.Table))
	assert.Equal(t, 2, both.Table.Len())
}

func TestApplyIdempotent(t *testing.T) {
	tbl, caps := fixture(t)
	sel := Selection{Type: {"Violence", "Drowning"}}
	once := Apply(tbl, caps, sel)
	twice := Apply(once.Table, caps, sel)
	assert.Equal(t, types(once.Table), types(twice.Table))
}

func TestFullDomainIsUnfiltered(t *testing.T) {
	tbl, caps := fixture(t)
	res := Apply(tbl, caps, Selection{Type: Domain(tbl, Type), Region: nil})
	assert.Equal(t, Unfiltered, res.State)
	assert.Empty(t, res.Active)
	assert.Equal(t, tbl.Len(), res.Table.Len())
}

func TestApplyNoData(t *testing.T) {
	tbl, caps := fixture(t)
	res := Apply(tbl, caps, Selection{Year: {"2021"}, Region: {"Europe"}})
	assert.Equal(t, NoData, res.State)
	assert.ErrorIs(t, res.Err(), ErrNoData)
	assert.Equal(t, 0, res.Table.Len())

	empty := tbl.Select(func(incident.Record) bool { return false })
	assert.Equal(t, NoData, Apply(empty, caps, nil).State)
}

func TestUnavailableDimensionIgnored(t *testing.T) {
	cols := []string{"Incident Type"}
	raw := &dataset.Table{Name: "t.csv", Columns: cols, Rows: [][]string{{"Shipwreck"}, {"Drowning"}}}
	res := normalize.Normalize(raw, schema.Detect(cols))
	out := Apply(res.Table, res.Caps, Selection{Year: {"2020"}, Type: {"Drowning"}})
	assert.Equal(t, 1, out.Table.Len())
	assert.Equal(t, Selection{Type: {"Drowning"}}, out.Active)

	cs := Controls(res.Table, res.Caps, nil)
	require.Len(t, cs, 1)
	assert.Equal(t, Type, cs[0].Dimension)
}

func TestControls(t *testing.T) {
	tbl, caps := fixture(t)
	cs := Controls(tbl, caps, Selection{Region: {"Europe"}})
	require.Len(t, cs, 3)
	assert.Equal(t, Year, cs[0].Dimension)
	assert.Equal(t, Domain(tbl, Year), cs[0].Selected, "unselected dimensions report the full domain")
	assert.Equal(t, []string{"Europe"}, cs[1].Selected)
	assert.True(t, cs[2].Visible)

	single := tbl.Select(func(r incident.Record) bool { return r.Text(incident.IncidentType) == "Drowning" })
	for _, c := range Controls(single, caps, nil) {
		assert.False(t, c.Visible, c.Dimension)
	}
}

func TestSelectionClone(t *testing.T) {
	sel := Selection{Type: {" Shipwreck", "Shipwreck", ""}, Region: {}}
	c := sel.Clone()
	assert.Equal(t, Selection{Type: {"Shipwreck"}}, c)
	c[Type][0] = "x"
	assert.Equal(t, " Shipwreck", sel[Type][0])
}
