package numeric

// Solve computes x with A·x = b for the factored matrix and returns it in
// original column order. The factorization must be nonsingular.
func (f *Factorization) Solve(b []float64) ([]float64, error) {
	x := make([]float64, f.plan.N)
	if err := f.solveInto(x, b); err != nil {
		return nil, err
	}
	return x, nil
}

// SolveVec solves in place, overwriting b with x.
func (f *Factorization) SolveVec(b []float64) error {
	x := make([]float64, f.plan.N)
	if err := f.solveInto(x, b); err != nil {
		return err
	}
	copy(b, x)
	return nil
}

// SolveMat solves for nrhs right-hand sides stored column-major in b,
// overwriting each column with its solution.
func (f *Factorization) SolveMat(b []float64, nrhs int) error {
	n := f.plan.N
	if nrhs < 0 || len(b) != n*nrhs {
		return ErrBadRHS
	}
	x := make([]float64, n)
	for j := 0; j < nrhs; j++ {
		col := b[j*n : (j+1)*n]
		if err := f.solveInto(x, col); err != nil {
			return err
		}
		copy(col, x)
	}
	return nil
}

func (f *Factorization) solveInto(x, b []float64) error {
	if f.singular {
		return ErrSingular
	}
	p := f.plan
	if len(b) != p.N || len(x) != p.N {
		return ErrBadRHS
	}

	// Row permutation plus scaling into elimination order, the two
	// triangular sweeps, then scatter back to original columns.
	y := make([]float64, p.N)
	if err := Perm(f.Pfin, f.Rs, b, y); err != nil {
		return err
	}
	f.lsolve(y)
	f.usolve(y)

	for k := 0; k < p.Cs1; k++ {
		x[p.Ust.PivCol[k]] = y[k]
	}
	for k := 0; k < p.Rs1; k++ {
		x[p.Lst.PivCol[k]] = y[p.Cs1+k]
	}
	for j := 0; j < p.Sn; j++ {
		x[p.SColOrig[j]] = y[p.N1+j]
	}
	return nil
}

// LSolve applies the unit-lower triangular sweep to a vector already in
// elimination order (permuted and scaled). Exposed for callers composing
// their own pipelines.
func (f *Factorization) LSolve(y []float64) error {
	if f.singular {
		return ErrSingular
	}
	if len(y) != f.plan.N {
		return ErrBadRHS
	}
	f.lsolve(y)
	return nil
}

// USolve applies the upper triangular back-substitution to a vector the
// lower sweep has produced.
func (f *Factorization) USolve(y []float64) error {
	if f.singular {
		return ErrSingular
	}
	if len(y) != f.plan.N {
		return ErrBadRHS
	}
	f.usolve(y)
	return nil
}

// lsolve runs forward substitution in position order: column singletons
// carry no L entries, row singletons update their column's rows, and each
// front applies its unit-lower pivot block followed by the L21 scatter.
func (f *Factorization) lsolve(y []float64) {
	p := f.plan

	for k := 0; k < p.Rs1; k++ {
		pos := p.Cs1 + k
		inv := 1 / f.lstPiv[k]
		for q := p.Lst.Ptr[k]; q < p.Lst.Ptr[k+1]; q++ {
			y[f.rowPos[p.Lst.Row[q]]] -= f.lstVal[q] * inv * y[pos]
		}
	}

	for fi := 0; fi < p.Nf; fi++ {
		fd := &f.fronts[fi]
		fp := p.Super[fi+1] - p.Super[fi]
		base := p.N1 + p.Super[fi]
		y1 := y[base : base+fp]
		f.kern.trsvLowerUnit(fd.LU, fp, fp, y1)
		nr := len(fd.RowList) - fp
		if nr == 0 {
			continue
		}
		tmp := make([]float64, nr)
		f.kern.gemvMinus(fd.LU[fp*fp:], fp, y1, tmp, nr, fp)
		for i, r := range fd.RowList[fp:] {
			y[f.Ps[r]] += tmp[i]
		}
	}
}

// usolve runs back-substitution in reverse position order.
func (f *Factorization) usolve(y []float64) {
	p := f.plan

	for fi := p.Nf - 1; fi >= 0; fi-- {
		fd := &f.fronts[fi]
		fp := p.Super[fi+1] - p.Super[fi]
		base := p.N1 + p.Super[fi]
		y1 := y[base : base+fp]
		if cc := len(fd.ColList); cc > 0 {
			xt := make([]float64, cc)
			for i, pos := range fd.ColList {
				xt[i] = y[pos]
			}
			f.kern.gemvMinus(fd.U, cc, xt, y1, fd.NPiv, cc)
		}
		f.kern.trsvUpperNonUnit(fd.LU, fp, fp, y1)
	}

	for k := p.Rs1 - 1; k >= 0; k-- {
		y[p.Cs1+k] /= f.lstPiv[k]
	}
	for k := p.Cs1 - 1; k >= 0; k-- {
		s := y[k]
		for q := p.Ust.Ptr[k]; q < p.Ust.Ptr[k+1]; q++ {
			s -= f.ustVal[q] * y[p.ColPos[p.Ust.Col[q]]]
		}
		y[k] = s / f.ustPiv[k]
	}
}

// Perm gathers b into permutation order with optional scaling:
// x[k] = b[p[k]] / s[p[k]]. A nil s skips the scaling.
func Perm(p []int, s []float64, b, x []float64) error {
	if len(x) != len(p) || len(b) != len(p) {
		return ErrBadRHS
	}
	if s == nil {
		for k, r := range p {
			x[k] = b[r]
		}
		return nil
	}
	for k, r := range p {
		x[k] = b[r] / s[r]
	}
	return nil
}

// InvPerm scatters b back through the permutation with optional scaling:
// x[p[k]] = b[k] / s[p[k]].
func InvPerm(p []int, s []float64, b, x []float64) error {
	if len(x) != len(p) || len(b) != len(p) {
		return ErrBadRHS
	}
	for k, r := range p {
		if s == nil {
			x[r] = b[k]
		} else {
			x[r] = b[k] / s[r]
		}
	}
	return nil
}
