package symbolic

import "github.com/katalvlaran/multifront/spmat"

// singletons is the outcome of trivial degree-1 elimination: the two
// triangular singleton blocks plus the surviving submatrix membership.
type singletons struct {
	ust                Uston
	lst                Lston
	aliveRow, aliveCol []bool
	cs1, rs1           int
}

// findSingletons eliminates degree-1 columns, then degree-1 rows, from the
// pattern of a. Two phases suffice: removing a column singleton can only
// lower other column degrees, and removing a row singleton can only lower
// other row degrees, so neither phase re-feeds the other.
//
// A column singleton (the only entry of column c sits in row r) pins the
// pivot (r, c); the rest of row r becomes one CSR row of the U block. A row
// singleton pins its pivot likewise; the rest of column c becomes one CSC
// column of the L block.
func findSingletons(a *spmat.Matrix, enabled bool) singletons {
	m, n := a.Dims()
	s := singletons{
		aliveRow: make([]bool, m),
		aliveCol: make([]bool, n),
	}
	for i := range s.aliveRow {
		s.aliveRow[i] = true
	}
	for j := range s.aliveCol {
		s.aliveCol[j] = true
	}
	s.ust.Ptr = []int{0}
	s.lst.Ptr = []int{0}
	if !enabled {
		return s
	}

	// Row-major view of the pattern with Val indices, for row walks.
	rowPtr := make([]int, m+1)
	for _, i := range a.Rowi {
		rowPtr[i+1]++
	}
	for i := 0; i < m; i++ {
		rowPtr[i+1] += rowPtr[i]
	}
	rowCol := make([]int, a.Nnz())
	rowVIdx := make([]int, a.Nnz())
	next := append([]int(nil), rowPtr...)
	for j := 0; j < n; j++ {
		for p := a.Colp[j]; p < a.Colp[j+1]; p++ {
			i := a.Rowi[p]
			rowCol[next[i]] = j
			rowVIdx[next[i]] = p
			next[i]++
		}
	}

	// Phase 1: column singletons.
	colDeg := make([]int, n)
	for j := 0; j < n; j++ {
		colDeg[j] = a.Colp[j+1] - a.Colp[j]
	}
	var queue []int
	for j := 0; j < n; j++ {
		if colDeg[j] == 1 {
			queue = append(queue, j)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if !s.aliveCol[c] || colDeg[c] != 1 {
			continue
		}
		r, pidx := -1, -1
		for p := a.Colp[c]; p < a.Colp[c+1]; p++ {
			if s.aliveRow[a.Rowi[p]] {
				r, pidx = a.Rowi[p], p
				break
			}
		}
		if r < 0 {
			continue // defensive: degree bookkeeping said otherwise
		}
		s.aliveRow[r] = false
		s.aliveCol[c] = false
		s.ust.PivRow = append(s.ust.PivRow, r)
		s.ust.PivCol = append(s.ust.PivCol, c)
		s.ust.PivIdx = append(s.ust.PivIdx, pidx)
		for p := rowPtr[r]; p < rowPtr[r+1]; p++ {
			j := rowCol[p]
			if j == c || !s.aliveCol[j] {
				continue
			}
			s.ust.Col = append(s.ust.Col, j)
			s.ust.ValIdx = append(s.ust.ValIdx, rowVIdx[p])
			colDeg[j]--
			if colDeg[j] == 1 {
				queue = append(queue, j)
			}
		}
		s.ust.Ptr = append(s.ust.Ptr, len(s.ust.Col))
		s.cs1++
	}

	// Phase 2: row singletons on the remaining pattern.
	rowDeg := make([]int, m)
	for i := 0; i < m; i++ {
		if !s.aliveRow[i] {
			continue
		}
		for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
			if s.aliveCol[rowCol[p]] {
				rowDeg[i]++
			}
		}
		if rowDeg[i] == 1 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		if !s.aliveRow[r] || rowDeg[r] != 1 {
			continue
		}
		c, pidx := -1, -1
		for p := rowPtr[r]; p < rowPtr[r+1]; p++ {
			if s.aliveCol[rowCol[p]] {
				c, pidx = rowCol[p], rowVIdx[p]
				break
			}
		}
		if c < 0 {
			continue
		}
		s.aliveRow[r] = false
		s.aliveCol[c] = false
		s.lst.PivRow = append(s.lst.PivRow, r)
		s.lst.PivCol = append(s.lst.PivCol, c)
		s.lst.PivIdx = append(s.lst.PivIdx, pidx)
		for p := a.Colp[c]; p < a.Colp[c+1]; p++ {
			i := a.Rowi[p]
			if i == r || !s.aliveRow[i] {
				continue
			}
			s.lst.Row = append(s.lst.Row, i)
			s.lst.ValIdx = append(s.lst.ValIdx, p)
			rowDeg[i]--
			if rowDeg[i] == 1 {
				queue = append(queue, i)
			}
		}
		s.lst.Ptr = append(s.lst.Ptr, len(s.lst.Row))
		s.rs1++
	}
	return s
}
