package symbolic

import (
	"sort"

	"github.com/katalvlaran/multifront/order"
	"github.com/katalvlaran/multifront/spmat"
)

// Analyze performs the symbolic phase: singleton filtering, ordering (via
// the oracle), construction of the permuted pattern S, the assembly tree
// with conservative size bounds, and the task partition. The returned Plan
// depends only on the nonzero pattern of a; matrices sharing the pattern
// may reuse it across any number of Factorize calls, including concurrent
// ones.
//
// A nil oracle defaults to order.Degree{}. Analyze either returns a fully
// built Plan or an error — never a partial plan.
//
// Errors: ErrNilMatrix, ErrNotSquare, ErrTooLarge, ErrOutOfMemory, plus
// any error surfaced by the oracle.
func Analyze(a *spmat.Matrix, oracle order.Oracle, opts Options) (*Plan, error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	if a.M != a.N {
		return nil, ErrNotSquare
	}
	if oracle == nil {
		oracle = order.Degree{}
	}

	sing := findSingletons(a, opts.FilterSingletons)
	p := &Plan{
		M:   a.M,
		N:   a.N,
		Anz: a.Nnz(),
		Cs1: sing.cs1,
		Rs1: sing.rs1,
		N1:  sing.cs1 + sing.rs1,
		Ust: sing.ust,
		Lst: sing.lst,
	}
	p.Sm = a.M - p.N1
	p.Sn = a.N - p.N1

	// Compact the surviving submatrix, keeping the Val index of every entry
	// so numeric phases can re-gather values for any same-pattern matrix.
	subRowOf := make([]int, a.M)
	for i := range subRowOf {
		subRowOf[i] = -1
	}
	subRows := make([]int, 0, p.Sm)
	for i := 0; i < a.M; i++ {
		if sing.aliveRow[i] {
			subRowOf[i] = len(subRows)
			subRows = append(subRows, i)
		}
	}
	subCols := make([]int, 0, p.Sn)
	for j := 0; j < a.N; j++ {
		if sing.aliveCol[j] {
			subCols = append(subCols, j)
		}
	}

	var sub *spmat.Matrix
	var ord *order.Ordering
	var subVIdx [][]int // per sub-column: Val indices parallel to its rows
	if p.Sn > 0 {
		colp := make([]int, p.Sn+1)
		var rowi []int
		var val []float64
		subVIdx = make([][]int, p.Sn)
		for sj, j := range subCols {
			for q := a.Colp[j]; q < a.Colp[j+1]; q++ {
				if i := a.Rowi[q]; sing.aliveRow[i] {
					rowi = append(rowi, subRowOf[i])
					val = append(val, a.Val[q])
					subVIdx[sj] = append(subVIdx[sj], q)
				}
			}
			colp[sj+1] = len(rowi)
		}
		var err error
		sub, err = spmat.New(p.Sm, p.Sn, colp, rowi, val)
		if err != nil {
			return nil, err
		}
		ord, err = oracle.Order(sub)
		if err != nil {
			return nil, err
		}
	}

	p.buildS(sub, ord, subRows, subCols, subVIdx)
	p.resolveStrategy(a, opts.Strategy)
	if err := p.buildTree(ord, opts); err != nil {
		return nil, err
	}
	p.partitionTasks(opts)
	return p, nil
}

// buildS lays out the permuted pattern S: columns in oracle order, rows
// sorted by leftmost column position, entries carrying Val indices.
func (p *Plan) buildS(sub *spmat.Matrix, ord *order.Ordering, subRows, subCols []int, subVIdx [][]int) {
	p.SColOrig = make([]int, p.Sn)
	p.ColPos = make([]int, p.N)
	for k := 0; k < p.Cs1; k++ {
		p.ColPos[p.Ust.PivCol[k]] = k
	}
	for k := 0; k < p.Rs1; k++ {
		p.ColPos[p.Lst.PivCol[k]] = p.Cs1 + k
	}

	type entry struct {
		pos, vidx int
	}
	rows := make([][]entry, p.Sm)
	if ord != nil {
		for k, sj := range ord.ColPerm {
			p.SColOrig[k] = subCols[sj]
			p.ColPos[subCols[sj]] = p.N1 + k
			ris := sub.ColRows(sj)
			vidxs := subVIdx[sj]
			// Positions ascend, so per-row lists stay sorted by position.
			for t, si := range ris {
				rows[si] = append(rows[si], entry{k, vidxs[t]})
			}
		}
	}

	// Sort rows by leftmost position; empty rows sink to the end.
	leftmost := make([]int, p.Sm)
	for i := range leftmost {
		if len(rows[i]) > 0 {
			leftmost[i] = rows[i][0].pos
		} else {
			leftmost[i] = p.Sn
		}
	}
	rowOrder := make([]int, p.Sm)
	for i := range rowOrder {
		rowOrder[i] = i
	}
	sort.SliceStable(rowOrder, func(x, y int) bool {
		return leftmost[rowOrder[x]] < leftmost[rowOrder[y]]
	})

	p.SRowOrig = make([]int, p.Sm)
	p.Sleft = make([]int, p.Sn+2)
	for _, si := range rowOrder {
		p.Sleft[leftmost[si]+1]++
	}
	for j := 0; j <= p.Sn; j++ {
		p.Sleft[j+1] += p.Sleft[j]
	}

	p.Sp = make([]int, p.Sm+1)
	for newi, si := range rowOrder {
		p.SRowOrig[newi] = subRows[si]
		p.Sp[newi+1] = p.Sp[newi] + len(rows[si])
	}
	p.Snz = p.Sp[p.Sm]
	p.Sj = make([]int, 0, p.Snz)
	p.SvalIdx = make([]int, 0, p.Snz)
	for _, si := range rowOrder {
		for _, e := range rows[si] {
			p.Sj = append(p.Sj, e.pos)
			p.SvalIdx = append(p.SvalIdx, e.vidx)
		}
	}

	// Structural-diagonal row per position, for symmetric-strategy pivoting.
	srowOf := make([]int, p.M)
	for i := range srowOf {
		srowOf[i] = -1
	}
	for newi, r := range p.SRowOrig {
		srowOf[r] = newi
	}
	p.DiagRow = make([]int, p.Sn)
	for k := 0; k < p.Sn; k++ {
		oc := p.SColOrig[k]
		if oc < p.M {
			p.DiagRow[k] = srowOf[oc]
		} else {
			p.DiagRow[k] = -1
		}
	}
}

// resolveStrategy fixes the pivoting strategy into the plan. Auto resolves
// to Symmetric only for a structurally symmetric pattern with a full
// diagonal; the decision is made once here and never revisited during
// Factorize.
func (p *Plan) resolveStrategy(a *spmat.Matrix, requested Strategy) {
	switch requested {
	case StrategySymmetric, StrategyUnsymmetric:
		p.Strategy = requested
		return
	}
	if patternSymmetric(a) {
		p.Strategy = StrategySymmetric
	} else {
		p.Strategy = StrategyUnsymmetric
	}
}

// patternSymmetric reports whether every stored (i,j) has a stored (j,i)
// and the full diagonal is present.
func patternSymmetric(a *spmat.Matrix) bool {
	for j := 0; j < a.N; j++ {
		if !hasEntry(a, j, j) {
			return false
		}
		for _, i := range a.ColRows(j) {
			if !hasEntry(a, j, i) {
				return false
			}
		}
	}
	return true
}

func hasEntry(a *spmat.Matrix, i, j int) bool {
	rs := a.ColRows(j)
	k := sort.SearchInts(rs, i)
	return k < len(rs) && rs[k] == i
}
