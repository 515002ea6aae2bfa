package dataset

import (
	"fmt"
	"io"
	"strings"
)

// DefaultExportName is the suggested download name for a filtered table.
const DefaultExportName = "filtered_incident_data.csv"

// Export writes columns and rows in the format implied by name: .xlsx
// workbooks, otherwise UTF-8 CSV, gzip-compressed when name ends in .gz.
func Export(w io.Writer, name string, columns []string, rows [][]string) error {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".xlsx") {
		return WriteXLSX(w, "", columns, rows)
	}
	out, closeFn := gzipWriter(lower, w)
	if err := WriteCSV(out, columns, rows); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("close gzip: %w", err)
	}
	return nil
}

// ContentType returns the MIME type for an export name.
func ContentType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case strings.HasSuffix(lower, ".gz"):
		return "application/gzip"
	default:
		return "text/csv; charset=utf-8"
	}
}
