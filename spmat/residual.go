package spmat

import "math"

// Residual reports the scaled residual of an approximate solution x of
// A·x = b:
//
//	resid = ‖b − A·x‖₁ / (‖A‖₁ · ‖x‖₁)
//
// together with ‖A‖₁ and ‖x‖₁. A zero denominator yields the raw residual
// norm instead of NaN, so a zero solution of a zero system reports 0.
func Residual(a *Matrix, x, b []float64) (resid, anorm, xnorm float64) {
	r := a.MulVec(nil, x)
	var rnorm float64
	for i := range r {
		rnorm += math.Abs(b[i] - r[i])
	}
	anorm = a.Norm1()
	for _, v := range x {
		xnorm += math.Abs(v)
	}
	if anorm*xnorm != 0 {
		return rnorm / (anorm * xnorm), anorm, xnorm
	}
	return rnorm, anorm, xnorm
}

// ResidualMat is the multiple right-hand-side form of Residual. X and B are
// column-major n×nrhs; the residual and solution norms are taken over all
// columns jointly, matching the single-vector formula.
func ResidualMat(a *Matrix, x, b []float64, nrhs int) (resid, anorm, xnorm float64) {
	anorm = a.Norm1()
	var rnorm float64
	r := make([]float64, a.M)
	for k := 0; k < nrhs; k++ {
		a.MulVec(r, x[k*a.N:(k+1)*a.N])
		for i := range r {
			rnorm += math.Abs(b[k*a.M+i] - r[i])
		}
	}
	for _, v := range x {
		xnorm += math.Abs(v)
	}
	if anorm*xnorm != 0 {
		return rnorm / (anorm * xnorm), anorm, xnorm
	}
	return rnorm, anorm, xnorm
}
