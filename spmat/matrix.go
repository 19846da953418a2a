package spmat

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Sentinel errors for matrix construction and access.
var (
	// ErrBadShape indicates a non-positive dimension or array lengths that
	// do not agree with the column pointers.
	ErrBadShape = errors.New("spmat: bad matrix shape")
	// ErrBadIndex indicates a row index out of range or a duplicate entry
	// within a column.
	ErrBadIndex = errors.New("spmat: bad row index")
)

// Matrix is a sparse matrix in compressed-sparse-column (CSC) form.
// Row indices are strictly ascending within each column. The struct is
// treated as read-only by the solver; callers must not mutate a Matrix
// while an Analyze or Factorize call is using it.
type Matrix struct {
	M, N int       // dimensions
	Colp []int     // size N+1, column pointers
	Rowi []int     // size Nnz, row indices
	Val  []float64 // size Nnz, numeric values
}

// New builds a Matrix from raw CSC arrays. The arrays are retained, not
// copied. Row indices are sorted (with their values) within each column if
// necessary; duplicates and out-of-range indices are rejected.
func New(m, n int, colp, rowi []int, val []float64) (*Matrix, error) {
	if m <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, m, n)
	}
	if len(colp) != n+1 || colp[0] != 0 {
		return nil, fmt.Errorf("%w: column pointers", ErrBadShape)
	}
	nnz := colp[n]
	if len(rowi) != nnz || len(val) != nnz {
		return nil, fmt.Errorf("%w: nnz arrays", ErrBadShape)
	}
	a := &Matrix{M: m, N: n, Colp: colp, Rowi: rowi, Val: val}
	for j := 0; j < n; j++ {
		lo, hi := colp[j], colp[j+1]
		if hi < lo {
			return nil, fmt.Errorf("%w: column %d", ErrBadShape, j)
		}
		if !sort.IntsAreSorted(rowi[lo:hi]) {
			sortColumn(rowi[lo:hi], val[lo:hi])
		}
		for p := lo; p < hi; p++ {
			if rowi[p] < 0 || rowi[p] >= m {
				return nil, fmt.Errorf("%w: row %d in column %d", ErrBadIndex, rowi[p], j)
			}
			if p > lo && rowi[p] == rowi[p-1] {
				return nil, fmt.Errorf("%w: duplicate row %d in column %d", ErrBadIndex, rowi[p], j)
			}
		}
	}
	return a, nil
}

// sortColumn sorts one column's row indices ascending, carrying values along.
func sortColumn(rowi []int, val []float64) {
	idx := make([]int, len(rowi))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return rowi[idx[a]] < rowi[idx[b]] })
	r2 := make([]int, len(rowi))
	v2 := make([]float64, len(val))
	for i, k := range idx {
		r2[i] = rowi[k]
		v2[i] = val[k]
	}
	copy(rowi, r2)
	copy(val, v2)
}

// FromTriplets builds a Matrix from coordinate-form entries. Duplicate
// coordinates are summed, matching the usual triplet-to-CSC convention.
func FromTriplets(m, n int, rows, cols []int, vals []float64) (*Matrix, error) {
	if m <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, m, n)
	}
	if len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, fmt.Errorf("%w: triplet arrays", ErrBadShape)
	}
	type ent struct {
		r, c int
		v    float64
	}
	ents := make([]ent, 0, len(rows))
	for k := range rows {
		if rows[k] < 0 || rows[k] >= m || cols[k] < 0 || cols[k] >= n {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrBadIndex, rows[k], cols[k])
		}
		ents = append(ents, ent{rows[k], cols[k], vals[k]})
	}
	sort.Slice(ents, func(a, b int) bool {
		if ents[a].c != ents[b].c {
			return ents[a].c < ents[b].c
		}
		return ents[a].r < ents[b].r
	})
	// Merge consecutive duplicates, then count per column.
	merged := ents[:0]
	for _, e := range ents {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.r == e.r && last.c == e.c {
				last.v += e.v
				continue
			}
		}
		merged = append(merged, e)
	}
	colp := make([]int, n+1)
	rowi := make([]int, len(merged))
	val := make([]float64, len(merged))
	for k, e := range merged {
		rowi[k] = e.r
		val[k] = e.v
		colp[e.c+1]++
	}
	for c := 0; c < n; c++ {
		colp[c+1] += colp[c]
	}
	return New(m, n, colp, rowi, val)
}

// FromDense builds a Matrix from a dense row-major [][]float64, dropping
// exact zeros.
func FromDense(dense [][]float64) (*Matrix, error) {
	m := len(dense)
	if m == 0 || len(dense[0]) == 0 {
		return nil, fmt.Errorf("%w: empty dense input", ErrBadShape)
	}
	n := len(dense[0])
	colp := make([]int, n+1)
	var rowi []int
	var val []float64
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			if len(dense[i]) != n {
				return nil, fmt.Errorf("%w: ragged dense input", ErrBadShape)
			}
			if dense[i][j] != 0 {
				rowi = append(rowi, i)
				val = append(val, dense[i][j])
			}
		}
		colp[j+1] = len(rowi)
	}
	return New(m, n, colp, rowi, val)
}

// Dims returns the matrix dimensions.
func (a *Matrix) Dims() (m, n int) { return a.M, a.N }

// Nnz returns the number of stored entries.
func (a *Matrix) Nnz() int { return a.Colp[a.N] }

// At returns the value at (i, j), or 0 if the entry is not stored.
// Lookup is a binary search within column j.
func (a *Matrix) At(i, j int) float64 {
	lo, hi := a.Colp[j], a.Colp[j+1]
	k := lo + sort.SearchInts(a.Rowi[lo:hi], i)
	if k < hi && a.Rowi[k] == i {
		return a.Val[k]
	}
	return 0
}

// ColRows returns the row indices of column j (shared storage, do not mutate).
func (a *Matrix) ColRows(j int) []int { return a.Rowi[a.Colp[j]:a.Colp[j+1]] }

// ColVals returns the values of column j (shared storage, do not mutate).
func (a *Matrix) ColVals(j int) []float64 { return a.Val[a.Colp[j]:a.Colp[j+1]] }

// Clone returns a deep copy of the matrix.
func (a *Matrix) Clone() *Matrix {
	b := &Matrix{
		M:    a.M,
		N:    a.N,
		Colp: append([]int(nil), a.Colp...),
		Rowi: append([]int(nil), a.Rowi...),
		Val:  append([]float64(nil), a.Val...),
	}
	return b
}

// ToDense expands the matrix into a dense row-major [][]float64.
// Intended for tests and small diagnostics only.
func (a *Matrix) ToDense() [][]float64 {
	d := make([][]float64, a.M)
	for i := range d {
		d[i] = make([]float64, a.N)
	}
	for j := 0; j < a.N; j++ {
		for p := a.Colp[j]; p < a.Colp[j+1]; p++ {
			d[a.Rowi[p]][j] = a.Val[p]
		}
	}
	return d
}

// MulVec computes y = A·x. If y is nil a new slice is allocated; otherwise
// it is zeroed and reused. x must have length N and y length M.
func (a *Matrix) MulVec(y, x []float64) []float64 {
	if y == nil {
		y = make([]float64, a.M)
	} else {
		for i := range y {
			y[i] = 0
		}
	}
	for j := 0; j < a.N; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for p := a.Colp[j]; p < a.Colp[j+1]; p++ {
			y[a.Rowi[p]] += a.Val[p] * xj
		}
	}
	return y
}

// MulMat computes Y = A·X for column-major X (n×nrhs) into column-major Y
// (m×nrhs). Y is allocated if nil.
func (a *Matrix) MulMat(y, x []float64, nrhs int) []float64 {
	if y == nil {
		y = make([]float64, a.M*nrhs)
	}
	for k := 0; k < nrhs; k++ {
		a.MulVec(y[k*a.M:(k+1)*a.M], x[k*a.N:(k+1)*a.N])
	}
	return y
}

// Norm1 returns the 1-norm of the matrix (maximum column sum of magnitudes).
func (a *Matrix) Norm1() float64 {
	var norm float64
	for j := 0; j < a.N; j++ {
		var s float64
		for p := a.Colp[j]; p < a.Colp[j+1]; p++ {
			s += math.Abs(a.Val[p])
		}
		if s > norm {
			norm = s
		}
	}
	return norm
}

// MaxAbsRows returns the per-row maximum magnitude, the row-scaling vector
// used by the numeric phase. Rows with no entries report 0.
func (a *Matrix) MaxAbsRows() []float64 {
	rs := make([]float64, a.M)
	for p, i := range a.Rowi {
		if v := math.Abs(a.Val[p]); v > rs[i] {
			rs[i] = v
		}
	}
	return rs
}
