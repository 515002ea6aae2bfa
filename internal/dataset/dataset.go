package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a raw rectangular table as read from an upload: a header row and
// string cells, every row padded or truncated to the header width.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Options tunes decoding.
type Options struct {
	// Delimiter forces the CSV delimiter; 0 sniffs it from the header line.
	Delimiter rune
	// Sheet selects the workbook sheet; empty means the first sheet.
	Sheet string
}

// Loader decodes one file format into a raw table.
type Loader interface {
	CanLoad(name string) bool
	Load(name string, content []byte, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(gzipLoader{})
	Register(csvLoader{})
	Register(xlsxLoader{})
}

var (
	// ErrUnsupported indicates a file format with no registered loader.
	ErrUnsupported = errors.New("unsupported table format")
	// ErrEmpty indicates a file without a header row.
	ErrEmpty = errors.New("table has no header row")
)

// LoadError marks a failed upload. It is the one hard stop of a session.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	return fmt.Sprintf("load %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load picks a loader by file name and decodes content. Every failure is
// reported as a *LoadError.
func Load(name string, content []byte, opt Options) (*Table, error) {
	t, err := decode(name, content, opt)
	if err != nil {
		return nil, &LoadError{Name: filepath.Base(name), Err: err}
	}
	// Only the base name is kept so a local path never reaches the views.
	t.Name = filepath.Base(name)
	return t, nil
}

func decode(name string, content []byte, opt Options) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(name) {
			return l.Load(name, content, opt)
		}
	}
	return nil, ErrUnsupported
}

// rectangular pads or truncates each row to width and returns a new table.
func rectangular(name string, header []string, rows [][]string) *Table {
	width := len(header)
	cols := make([]string, width)
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := make([]string, width)
		copy(row, r)
		out = append(out, row)
	}
	return &Table{Name: name, Columns: cols, Rows: out}
}

func hasExt(name string, exts ...string) bool {
	lower := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}
