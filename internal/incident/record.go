package incident

import (
	"strconv"
	"time"
)

// Record is one normalized incident row. Records are built once by the
// normalizer and never mutated afterwards; filtering shares them by value.
type Record struct {
	Latitude  Coercion[float64]
	Longitude Coercion[float64]
	Date      Coercion[time.Time]
	Year      Coercion[int]
	Month     string
	// MonthOrdinal is 1..12, or 0 when Month is not a recognized month name.
	MonthOrdinal int

	counts map[Field]int64
	text   map[Field]string
	cells  []string
}

// NewRecord assembles a record. The maps and slice are owned by the record
// after the call.
func NewRecord(counts map[Field]int64, text map[Field]string, cells []string) Record {
	return Record{counts: counts, text: text, cells: cells}
}

// Count returns a count field value; absent fields read as 0.
func (r Record) Count(f Field) int64 { return r.counts[f] }

// Text returns a categorical field value; absent fields read as "".
func (r Record) Text(f Field) string { return r.text[f] }

// Cell returns the raw text at column i.
func (r Record) Cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// YearKey is the year dimension value: the parsed integer, or the original
// text when the cell did not parse.
func (r Record) YearKey() string {
	if y, ok := r.Year.Get(); ok {
		return strconv.Itoa(y)
	}
	return r.Year.Raw()
}

// DateText renders the date for display: ISO date when parsed, original text otherwise.
func (r Record) DateText() string {
	if t, ok := r.Date.Get(); ok {
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05")
	}
	return r.Date.Raw()
}

// Table is the normalized working table. Select returns new views; the
// original is never modified.
type Table struct {
	Name    string
	Columns []string
	Mapping Mapping
	// DateParsed is false when the date column is missing or degraded.
	DateParsed bool
	// YearNumeric is true when every non-empty year cell parsed as an integer.
	YearNumeric bool
	// NumericExtras lists unrecognized column indices whose non-empty cells are all numeric.
	NumericExtras []int
	Records       []Record
}

// Len returns the row count.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Has reports whether every field is present as a column.
func (t *Table) Has(fields ...Field) bool { return t.Mapping.Has(fields...) }

// Select returns a view holding the records for which keep returns true.
func (t *Table) Select(keep func(Record) bool) *Table {
	out := t.shallow()
	out.Records = make([]Record, 0, len(t.Records))
	for _, r := range t.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Head returns a view of the first n records.
func (t *Table) Head(n int) *Table {
	out := t.shallow()
	if n > len(t.Records) {
		n = len(t.Records)
	}
	if n < 0 {
		n = 0
	}
	out.Records = t.Records[:n:n]
	return out
}

func (t *Table) shallow() *Table {
	cp := *t
	cp.Records = nil
	return &cp
}

// Rows renders every record as normalized export cells, aligned with Columns.
func (t *Table) Rows() [][]string {
	out := make([][]string, 0, len(t.Records))
	for _, r := range t.Records {
		out = append(out, t.normalizedCells(r))
	}
	return out
}

func (t *Table) normalizedCells(r Record) []string {
	row := make([]string, len(t.Columns))
	for i := range row {
		row[i] = r.Cell(i)
	}
	for f, idx := range t.Mapping {
		switch KindOf(f) {
		case KindCount:
			row[idx] = strconv.FormatInt(r.Count(f), 10)
		case KindDate:
			row[idx] = r.DateText()
		case KindYear:
			row[idx] = r.YearKey()
		}
	}
	return row
}
