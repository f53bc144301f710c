package sparse

import (
	"fmt"
	"sort"
)

// Triplet is one (row, col, value) coordinate entry of a matrix under
// construction. Entries with identical coordinates are summed on assembly.
type Triplet struct {
	Row, Col int
	Val      float64
}

// CSR is a compressed sparse row matrix. It is immutable once built.
type CSR struct {
	rows, cols int
	rowPtr     []int
	colInd     []int
	values     []float64
}

// NewCSR assembles a CSR matrix from coordinate entries. The entries may
// arrive in any order; duplicates are summed, matching the semantics of
// triplet-based assembly in common sparse libraries.
func NewCSR(rows, cols int, entries []Triplet) (*CSR, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("sparse: invalid matrix dimensions %dx%d", rows, cols)
	}
	for _, e := range entries {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, fmt.Errorf("sparse: entry (%d,%d) out of range for %dx%d matrix",
				e.Row, e.Col, rows, cols)
		}
	}

	sorted := make([]Triplet, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	m := &CSR{
		rows:   rows,
		cols:   cols,
		rowPtr: make([]int, rows+1),
		colInd: make([]int, 0, len(sorted)),
		values: make([]float64, 0, len(sorted)),
	}

	for k := 0; k < len(sorted); {
		row, col := sorted[k].Row, sorted[k].Col
		sum := 0.0
		for ; k < len(sorted) && sorted[k].Row == row && sorted[k].Col == col; k++ {
			sum += sorted[k].Val
		}
		m.colInd = append(m.colInd, col)
		m.values = append(m.values, sum)
		m.rowPtr[row+1] = len(m.values)
	}

	// Rows without entries inherit the previous row boundary.
	for r := 1; r <= rows; r++ {
		if m.rowPtr[r] < m.rowPtr[r-1] {
			m.rowPtr[r] = m.rowPtr[r-1]
		}
	}

	return m, nil
}

// Dims returns the matrix dimensions.
func (m *CSR) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int {
	return len(m.values)
}

// At returns the value at (i, j), zero for unstored entries.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic("sparse: index out of range")
	}
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		if m.colInd[k] == j {
			return m.values[k]
		}
	}
	return 0
}

// MulVecTo computes dst = M*x. dst and x must not alias.
func (m *CSR) MulVecTo(dst, x []float64) {
	if len(x) != m.cols || len(dst) != m.rows {
		panic("sparse: dimension mismatch in MulVecTo")
	}
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sum += m.values[k] * x[m.colInd[k]]
		}
		dst[i] = sum
	}
}

// Diagonal extracts the main diagonal into dst, allocating when dst is nil.
func (m *CSR) Diagonal(dst []float64) []float64 {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	if dst == nil {
		dst = make([]float64, n)
	}
	if len(dst) != n {
		panic("sparse: dimension mismatch in Diagonal")
	}
	for i := 0; i < n; i++ {
		dst[i] = m.At(i, i)
	}
	return dst
}
