package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSVSniffsDelimiterAndPads(t *testing.T) {
	content := []byte("\xef\xbb\xbfIncident Type;Number of Dead;Notes\nShipwreck;12,5\n;;\nViolence;3;x;extra\n")
	tbl, err := Load("incidents.csv", content, Options{})
	require.NoError(t, err)
	assert.Equal(t, "incidents.csv", tbl.Name)
	assert.Equal(t, []string{"Incident Type", "Number of Dead", "Notes"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2, "blank rows are dropped")
	assert.Equal(t, []string{"Shipwreck", "12,5", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"Violence", "3", "x"}, tbl.Rows[1])
}

func TestLoadCSVForcedDelimiter(t *testing.T) {
	content := []byte("a|b\n1|2\n")
	tbl, err := Load("pipe.txt", content, Options{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}

func TestLoadTSVByName(t *testing.T) {
	tbl, err := Load("data.tsv", []byte("a,b\tc\n1,5\t2\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b", "c"}, tbl.Columns)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("notes.pdf", []byte("%PDF"), Options{})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "notes.pdf", le.Name)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Load("empty.csv", nil, Options{})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Load("broken.xlsx", []byte("not a zip"), Options{})
	require.ErrorAs(t, err, &le)
}

func TestGzipRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cols := []string{"Incident Type", "Incident Year"}
	rows := [][]string{{"Shipwreck", "2023"}, {"Drowning", "2022"}}
	require.NoError(t, Export(&buf, "out.csv.gz", cols, rows))
	assert.Equal(t, []byte{0x1f, 0x8b}, buf.Bytes()[:2])

	tbl, err := Load("upload.csv.gz", buf.Bytes(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "upload.csv.gz", tbl.Name)
	assert.Equal(t, cols, tbl.Columns)
	assert.Equal(t, rows, tbl.Rows)
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cols := []string{"Incident Type", "Number of Dead"}
	rows := [][]string{{"Shipwreck", "12"}, {"Violence", "3"}}
	require.NoError(t, Export(&buf, "filtered.xlsx", cols, rows))

	tbl, err := Load("book.xlsx", buf.Bytes(), Options{})
	require.NoError(t, err)
	assert.Equal(t, cols, tbl.Columns)
	assert.Equal(t, rows, tbl.Rows)

	tbl, err = Load("book.xlsx", buf.Bytes(), Options{Sheet: "Incidents"})
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 2)

	_, err = Load("book.xlsx", buf.Bytes(), Options{Sheet: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Incidents")
}

func TestXLSXDateCellsBecomeISODates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	day := time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Incident Date", "Number of Dead", "Incident Type"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", day))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", day.Add(14*time.Hour+30*time.Minute)))
	require.NoError(t, f.SetCellValue("Sheet1", "A4", day.AddDate(0, 1, 0)))
	short, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A4", "A4", short))
	custom := "dd/mm/yyyy"
	european, err := f.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A5", day.AddDate(0, 2, 0)))
	require.NoError(t, f.SetCellStyle("Sheet1", "A5", "A5", european))
	for row := 2; row <= 5; row++ {
		require.NoError(t, f.SetCellValue("Sheet1", fmt.Sprintf("B%d", row), 44941))
		require.NoError(t, f.SetCellValue("Sheet1", fmt.Sprintf("C%d", row), "Shipwreck"))
	}
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	tbl, err := Load("dates.xlsx", buf.Bytes(), Options{})
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, "2023-01-15", tbl.Rows[0][0])
	assert.Equal(t, "2023-01-15 14:30:00", tbl.Rows[1][0])
	assert.Equal(t, "2023-02-15", tbl.Rows[2][0])
	assert.Equal(t, "2023-03-15", tbl.Rows[3][0])
	assert.Equal(t, "44941", tbl.Rows[0][1], "plain numbers are not dates")
}

func TestLoadKeepsBaseName(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "incidents.csv")
	content := []byte("a,b\n1,2\n")

	tbl, err := Load(p, content, Options{})
	require.NoError(t, err)
	assert.Equal(t, "incidents.csv", tbl.Name)

	c := NewCache(2)
	miss, err := c.Load(p, content, Options{})
	require.NoError(t, err)
	hit, err := c.Load(p, content, Options{})
	require.NoError(t, err)
	assert.Equal(t, miss.Name, hit.Name)
	assert.Equal(t, "incidents.csv", hit.Name)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, DefaultExportName, []string{"a", "b"}, [][]string{{"x,y", "1"}}))
	assert.Equal(t, "a,b\n\"x,y\",1\n", buf.String())
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", ContentType("filtered_incident_data.csv"))
	assert.Equal(t, "application/gzip", ContentType("x.csv.gz"))
	assert.Contains(t, ContentType("x.XLSX"), "spreadsheetml")
}

func TestSampleIsFreshCopy(t *testing.T) {
	a := Sample()
	require.Len(t, a.Rows, 6)
	assert.Equal(t, SampleName, a.Name)
	a.Rows[0][0] = "changed"
	a.Columns[0] = "changed"
	b := Sample()
	assert.NotEqual(t, "changed", b.Rows[0][0])
	assert.Equal(t, "LATITUDE", b.Columns[0])
}

func TestCacheHitsOnIdenticalContent(t *testing.T) {
	c := NewCache(2)
	content := []byte("a,b\n1,2\n")
	first, err := c.Load("one.csv", content, Options{})
	require.NoError(t, err)
	second, err := c.Load("two.csv", content, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "two.csv", second.Name)
	assert.Equal(t, first.Rows, second.Rows)

	_, err = c.Load("one.csv", content, Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len(), "different options are a different key")

	_, err = c.Load("bad.pdf", content, Options{})
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Equal(t, 2, c.Len(), "failures are not cached")
}
