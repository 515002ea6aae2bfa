package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
)

// MinCorrelationColumns is the smallest number of quantity columns for which
// a correlation matrix is produced.
const MinCorrelationColumns = 3

// Matrix is a symmetric Pearson correlation matrix. A nil cell is undefined
// (a constant column or fewer than two paired observations).
type Matrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// Pair is one off-diagonal coefficient.
type Pair struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
}

type numericColumn struct {
	name  string
	value func(incident.Record) (float64, bool)
}

// quantityColumns lists the columns that take part in the correlation:
// count fields, an all-integer year, and fully numeric unrecognized columns.
// Coordinates never qualify.
func quantityColumns(t *incident.Table) []numericColumn {
	var cols []numericColumn
	for _, f := range incident.CountFields() {
		idx, ok := t.Mapping[f]
		if !ok {
			continue
		}
		f := f
		cols = append(cols, numericColumn{name: t.Columns[idx], value: func(r incident.Record) (float64, bool) {
			return float64(r.Count(f)), true
		}})
	}
	if idx, ok := t.Mapping[incident.IncidentYear]; ok && t.YearNumeric {
		cols = append(cols, numericColumn{name: t.Columns[idx], value: func(r incident.Record) (float64, bool) {
			y, ok := r.Year.Get()
			return float64(y), ok
		}})
	}
	for _, idx := range t.NumericExtras {
		idx := idx
		cols = append(cols, numericColumn{name: t.Columns[idx], value: func(r incident.Record) (float64, bool) {
			return incident.ParseNumber(r.Cell(idx))
		}})
	}
	return cols
}

// Correlation computes pairwise Pearson coefficients over the quantity
// columns, using the rows where both values are present.
func Correlation(t *incident.Table, caps schema.Capabilities) (*Matrix, error) {
	if err := guard(t, caps, schema.Correlation); err != nil {
		return nil, err
	}
	cols := quantityColumns(t)
	if len(cols) < MinCorrelationColumns {
		return nil, fmt.Errorf("correlation: %w (%d numeric columns, need %d)", ErrInsufficientData, len(cols), MinCorrelationColumns)
	}
	type pairAcc struct {
		n     float64
		sumX  float64
		sumY  float64
		sumXX float64
		sumYY float64
		sumXY float64
	}
	ncol := len(cols)
	pair := make([]pairAcc, ncol*ncol) // key = i*ncol + j with i>=j
	vals := make([]float64, ncol)
	ok := make([]bool, ncol)
	for _, r := range t.Records {
		for i, c := range cols {
			vals[i], ok[i] = c.value(r)
		}
		for i := 0; i < ncol; i++ {
			if !ok[i] {
				continue
			}
			for j := 0; j <= i; j++ {
				if !ok[j] {
					continue
				}
				x, y := vals[i], vals[j]
				pa := &pair[i*ncol+j]
				pa.n++
				pa.sumX += x
				pa.sumY += y
				pa.sumXX += x * x
				pa.sumYY += y * y
				pa.sumXY += x * y
			}
		}
	}
	m := &Matrix{Columns: make([]string, ncol), Values: make([][]*float64, ncol)}
	for i, c := range cols {
		m.Columns[i] = c.name
		m.Values[i] = make([]*float64, ncol)
	}
	for i := 0; i < ncol; i++ {
		for j := 0; j <= i; j++ {
			pa := pair[i*ncol+j]
			if pa.n < 2 {
				continue
			}
			denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
			if denom == 0 || math.IsNaN(denom) {
				continue
			}
			r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			if r > 1 {
				r = 1
			} else if r < -1 {
				r = -1
			}
			if i == j {
				r = 1
			}
			v := r
			m.Values[i][j] = &v
			m.Values[j][i] = &v
		}
	}
	return m, nil
}

// TopPairs returns up to n defined off-diagonal pairs, strongest first.
func (m *Matrix) TopPairs(n int) []Pair {
	if m == nil {
		return nil
	}
	var pairs []Pair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			if v := m.Values[i][j]; v != nil {
				pairs = append(pairs, Pair{A: m.Columns[i], B: m.Columns[j], R: *v})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
