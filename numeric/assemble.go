package numeric

import "sort"

// contrib is a contribution block in flight from a child front to its
// parent: the Schur complement rows the child could not eliminate,
// restricted to the columns the parent and its ancestors own.
type contrib struct {
	rows []int     // S row indices
	cols []int     // S column positions, ascending
	data []float64 // len(rows)×len(cols), row-major
}

// processFront assembles, factors and splits one front. Children have
// completed before this runs; their contribution blocks are consumed and
// released here.
func (st *factorState) processFront(f int) error {
	p := st.plan
	k1, k2 := p.Super[f], p.Super[f+1]
	fp := k2 - k1

	// Rows: own leftmost rows first (contiguous by construction), then
	// child contribution rows not already present.
	rows := make([]int, 0, p.Fm[f])
	rowIdx := make(map[int]int, p.Fm[f])
	for r := p.Sleft[k1]; r < p.Sleft[k2]; r++ {
		rowIdx[r] = len(rows)
		rows = append(rows, r)
	}
	for _, g := range p.Child[p.Childp[f]:p.Childp[f+1]] {
		for _, r := range st.cbs[g].rows {
			if _, ok := rowIdx[r]; !ok {
				rowIdx[r] = len(rows)
				rows = append(rows, r)
			}
		}
	}
	rowCount := len(rows)

	// Columns: the fp pivot positions, then the sorted union of trailing
	// positions from own rows and child blocks. Child columns below k2
	// always land inside the pivot span.
	trailSet := make(map[int]struct{})
	for _, r := range rows[:p.Sleft[k2]-p.Sleft[k1]] {
		for q := p.Sp[r]; q < p.Sp[r+1]; q++ {
			if j := p.Sj[q]; j >= k2 {
				trailSet[j] = struct{}{}
			}
		}
	}
	for _, g := range p.Child[p.Childp[f]:p.Childp[f+1]] {
		for _, j := range st.cbs[g].cols {
			if j >= k2 {
				trailSet[j] = struct{}{}
			}
		}
	}
	trail := make([]int, 0, len(trailSet))
	for j := range trailSet {
		trail = append(trail, j)
	}
	sort.Ints(trail)
	fn := fp + len(trail)
	colIdx := make(map[int]int, fn)
	for j := k1; j < k2; j++ {
		colIdx[j] = j - k1
	}
	for t, j := range trail {
		colIdx[j] = fp + t
	}

	if rowCount > 0 && fn > maxDenseElems/rowCount {
		return ErrTooLarge
	}
	fdat := make([]float64, rowCount*fn)

	// Scatter the scaled original entries of the own rows.
	for i, r := range rows[:p.Sleft[k2]-p.Sleft[k1]] {
		s := st.rsInv[p.SRowOrig[r]]
		for q := p.Sp[r]; q < p.Sp[r+1]; q++ {
			fdat[i*fn+colIdx[p.Sj[q]]] += st.aval[p.SvalIdx[q]] * s
		}
	}
	// Scatter-add the child contribution blocks, then release them.
	for _, g := range p.Child[p.Childp[f]:p.Childp[f+1]] {
		cb := st.cbs[g]
		nc := len(cb.cols)
		dcol := make([]int, nc)
		for ci, j := range cb.cols {
			dcol[ci] = colIdx[j]
		}
		for ri, r := range cb.rows {
			src := cb.data[ri*nc:]
			dst := fdat[rowIdx[r]*fn:]
			for ci := 0; ci < nc; ci++ {
				dst[dcol[ci]] += src[ci]
			}
		}
		st.cbs[g] = nil
	}

	var diagSRow []int
	if st.symmetric {
		diagSRow = make([]int, fp)
		for j := 0; j < fp; j++ {
			diagSRow[j] = p.DiagRow[k1+j]
		}
	}

	res := st.kr.frontLU(fdat, fn, rowCount, fp, fn, rows, diagSRow)

	// Split the factored block: LU columns stay, pivot U rows stay, the
	// trailing rows move on to the parent.
	cc := len(trail)
	fd := &st.fronts[f]
	fd.RowList = rows
	fd.NPiv = res.npiv
	fd.Dead = res.dead
	fd.minU, fd.maxU, fd.flops = res.minU, res.maxU, res.flops
	fd.ColList = make([]int, cc)
	for t, j := range trail {
		fd.ColList[t] = p.N1 + j
	}
	fd.LU = make([]float64, rowCount*fp)
	st.kr.forRows(rowCount, fp, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			copy(fd.LU[i*fp:(i+1)*fp], fdat[i*fn:i*fn+fp])
		}
	})
	fd.U = make([]float64, res.npiv*cc)
	for i := 0; i < res.npiv; i++ {
		copy(fd.U[i*cc:(i+1)*cc], fdat[i*fn+fp:(i+1)*fn])
	}

	nr := rowCount - res.npiv
	cb := &contrib{rows: rows[res.npiv:], cols: trail}
	cb.data = make([]float64, nr*cc)
	st.kr.forRows(nr, cc, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			copy(cb.data[i*cc:(i+1)*cc], fdat[(res.npiv+i)*fn+fp:(res.npiv+i+1)*fn])
		}
	})
	st.cbs[f] = cb
	return nil
}
