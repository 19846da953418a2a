package numeric

import (
	"math"

	"github.com/katalvlaran/multifront/spmat"
	"github.com/katalvlaran/multifront/symbolic"
)

// maxDenseElems caps any single dense working block, mirroring the bound
// the symbolic phase enforces on its upper estimates.
const maxDenseElems = 1 << 28

// factorState is the mutable working set of one Factorize call. The plan
// is read-only; cbs and fronts are written by at most one task each, with
// the scheduler's ready channel ordering child writes before parent reads.
type factorState struct {
	plan      *symbolic.Plan
	kr        *kernels
	symmetric bool

	aval  []float64 // input values, indexed by the plan's Val indices
	rsInv []float64 // reciprocal row scale factors, original row order

	cbs    []*contrib
	fronts []frontData
}

// Factorize computes the numeric factorization of a under plan. The
// matrix must carry the exact pattern the plan was analyzed from; reuse
// across value changes is the point of the two-phase API.
//
// On a singular input the returned Factorization is non-nil and valid for
// diagnostics (Rcond, MinUdiag), and the error is ErrSingular. Any other
// error returns a nil Factorization.
func Factorize(plan *symbolic.Plan, a *spmat.Matrix, opts Options) (*Factorization, error) {
	if plan == nil {
		return nil, ErrNilPlan
	}
	if a == nil {
		return nil, ErrNilMatrix
	}
	if a.M != plan.M || a.N != plan.N || a.Nnz() != plan.Anz {
		return nil, ErrPlanMismatch
	}

	st := &factorState{
		plan:      plan,
		symmetric: plan.Strategy == symbolic.StrategySymmetric,
		aval:      a.Val,
		cbs:       make([]*contrib, plan.Nf),
		fronts:    make([]frontData, plan.Nf),
	}
	workers := opts.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	st.kr = &kernels{opts: opts, lim: newLimiter(workers - 1)}

	fac := &Factorization{plan: plan, kern: st.kr}
	fac.Rs = rowScales(a, opts.Scale)
	st.rsInv = make([]float64, a.M)
	for i, s := range fac.Rs {
		st.rsInv[i] = 1 / s
	}

	st.gatherSingletons(fac)

	if err := runTasks(plan, workers, func(t int) error {
		tr := plan.Tasks[t]
		for f := tr.First; f <= tr.Last; f++ {
			if err := st.processFront(f); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	fac.fronts = st.fronts

	if singular := st.finalize(fac); singular {
		return fac, ErrSingular
	}
	return fac, nil
}

// rowScales returns the per-row scale factors: the row's maximum absolute
// value, or 1 for empty rows and when scaling is off.
func rowScales(a *spmat.Matrix, enabled bool) []float64 {
	rs := make([]float64, a.M)
	if !enabled {
		for i := range rs {
			rs[i] = 1
		}
		return rs
	}
	copy(rs, a.MaxAbsRows())
	for i, v := range rs {
		if v == 0 {
			rs[i] = 1
		}
	}
	return rs
}

// gatherSingletons pulls the scaled numeric values of both singleton
// blocks out of the input matrix, in plan order.
func (st *factorState) gatherSingletons(fac *Factorization) {
	p := st.plan
	fac.ustPiv = make([]float64, p.Cs1)
	for k := 0; k < p.Cs1; k++ {
		fac.ustPiv[k] = st.aval[p.Ust.PivIdx[k]] * st.rsInv[p.Ust.PivRow[k]]
	}
	fac.ustVal = make([]float64, len(p.Ust.ValIdx))
	for k := 0; k < p.Cs1; k++ {
		s := st.rsInv[p.Ust.PivRow[k]]
		for q := p.Ust.Ptr[k]; q < p.Ust.Ptr[k+1]; q++ {
			fac.ustVal[q] = st.aval[p.Ust.ValIdx[q]] * s
		}
	}
	fac.lstPiv = make([]float64, p.Rs1)
	for k := 0; k < p.Rs1; k++ {
		fac.lstPiv[k] = st.aval[p.Lst.PivIdx[k]] * st.rsInv[p.Lst.PivRow[k]]
	}
	fac.lstVal = make([]float64, len(p.Lst.ValIdx))
	for q, vi := range p.Lst.ValIdx {
		fac.lstVal[q] = st.aval[vi] * st.rsInv[p.Lst.Row[q]]
	}
}

// finalize composes the final row permutation, merges the per-front
// diagnostics, and decides singularity. Returns true when fewer than n
// pivots were eliminated or any pivot is exactly zero.
func (st *factorState) finalize(fac *Factorization) bool {
	p := st.plan
	if p.N == 0 {
		return false
	}
	fac.MinUdiag = math.Inf(1)
	fac.NPivTotal = p.N1

	fac.Pfin = make([]int, p.N)
	fac.Ps = make([]int, p.Sm)
	assignedPos := make([]bool, p.N)
	assignedRow := make([]bool, p.Sm)
	for i := range fac.Ps {
		fac.Ps[i] = -1
	}

	for k := 0; k < p.Cs1; k++ {
		fac.Pfin[k] = p.Ust.PivRow[k]
		assignedPos[k] = true
		mergeDiag(fac, math.Abs(fac.ustPiv[k]))
	}
	for k := 0; k < p.Rs1; k++ {
		fac.Pfin[p.Cs1+k] = p.Lst.PivRow[k]
		assignedPos[p.Cs1+k] = true
		mergeDiag(fac, math.Abs(fac.lstPiv[k]))
	}

	anyDead := false
	for f := 0; f < p.Nf; f++ {
		fd := &st.fronts[f]
		fac.NPivTotal += fd.NPiv
		fac.Flops += fd.flops
		if fd.NPiv > 0 {
			if fd.minU < fac.MinUdiag {
				fac.MinUdiag = fd.minU
			}
			if fd.maxU > fac.MaxUdiag {
				fac.MaxUdiag = fd.maxU
			}
		}
		if len(fd.Dead) > 0 {
			anyDead = true
		}
		// The t-th pivot row lands at the position of the t-th live column.
		base := p.N1 + p.Super[f]
		fp := p.Super[f+1] - p.Super[f]
		t := 0
		for j := 0; j < fp; j++ {
			if isDead(fd.Dead, j) {
				continue
			}
			r := fd.RowList[t]
			fac.Ps[r] = base + j
			fac.Pfin[base+j] = p.SRowOrig[r]
			assignedPos[base+j] = true
			assignedRow[r] = true
			t++
		}
	}

	// Unpivoted rows fill the unassigned positions in order, keeping Pfin
	// a complete permutation even for singular inputs.
	next := 0
	for r := 0; r < p.Sm; r++ {
		if assignedRow[r] {
			continue
		}
		for assignedPos[next] {
			next++
		}
		fac.Ps[r] = next
		fac.Pfin[next] = p.SRowOrig[r]
		assignedPos[next] = true
	}

	if fac.MinUdiag == math.Inf(1) {
		fac.MinUdiag = 0
	}
	for k := 0; k < p.Cs1; k++ {
		if fac.ustPiv[k] == 0 {
			fac.MinUdiag = 0
		}
	}
	for k := 0; k < p.Rs1; k++ {
		if fac.lstPiv[k] == 0 {
			fac.MinUdiag = 0
		}
	}
	if anyDead || fac.NPivTotal < p.N || fac.MinUdiag == 0 {
		fac.singular = true
		if anyDead {
			fac.MinUdiag = 0
		}
	}

	fac.rowPos = make([]int, p.N)
	for k, r := range fac.Pfin {
		fac.rowPos[r] = k
	}
	return fac.singular
}

func mergeDiag(fac *Factorization, a float64) {
	if a < fac.MinUdiag {
		fac.MinUdiag = a
	}
	if a > fac.MaxUdiag {
		fac.MaxUdiag = a
	}
}
