package numeric_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/multifront/numeric"
	"github.com/katalvlaran/multifront/spmat"
	"github.com/katalvlaran/multifront/symbolic"
)

func TestSolveMat(t *testing.T) {
	a := spdTridiag(t, 8)
	plan := analyze(t, a, symbolic.DefaultOptions())
	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.NoError(t, err)

	const nrhs = 3
	n := a.N
	xTrue := make([]float64, n*nrhs)
	for k := range xTrue {
		xTrue[k] = float64(k%7) - 3
	}
	b := a.MulMat(nil, xTrue, nrhs)

	require.NoError(t, fac.SolveMat(b, nrhs))
	for k := range b {
		require.InDelta(t, xTrue[k], b[k], 1e-9)
	}

	require.True(t, errors.Is(fac.SolveMat(b[:1], nrhs), numeric.ErrBadRHS))
}

func TestSolve_BadShape(t *testing.T) {
	a := spdTridiag(t, 4)
	plan := analyze(t, a, symbolic.DefaultOptions())
	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.NoError(t, err)

	_, err = fac.Solve([]float64{1, 2})
	require.True(t, errors.Is(err, numeric.ErrBadRHS))
	require.True(t, errors.Is(fac.SolveVec([]float64{1}), numeric.ErrBadRHS))
	require.True(t, errors.Is(fac.LSolve([]float64{1}), numeric.ErrBadRHS))
	require.True(t, errors.Is(fac.USolve([]float64{1}), numeric.ErrBadRHS))
}

// TestLSolveUSolve_Compose rebuilds the Solve pipeline from the exposed
// pieces and checks it agrees with Solve.
func TestLSolveUSolve_Compose(t *testing.T) {
	a := spdTridiag(t, 6)
	plan := analyze(t, a, symbolic.DefaultOptions())
	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.NoError(t, err)

	b := []float64{1, 0, -2, 4, 0.5, -1}
	want, err := fac.Solve(b)
	require.NoError(t, err)

	y := make([]float64, plan.N)
	require.NoError(t, numeric.Perm(fac.Pfin, fac.Rs, b, y))
	require.NoError(t, fac.LSolve(y))
	require.NoError(t, fac.USolve(y))

	// Positions map back to original columns through the plan.
	x := make([]float64, plan.N)
	for k := 0; k < plan.Cs1; k++ {
		x[plan.Ust.PivCol[k]] = y[k]
	}
	for k := 0; k < plan.Rs1; k++ {
		x[plan.Lst.PivCol[k]] = y[plan.Cs1+k]
	}
	for j := 0; j < plan.Sn; j++ {
		x[plan.SColOrig[j]] = y[plan.N1+j]
	}
	for i := range x {
		require.InDelta(t, want[i], x[i], 1e-12)
	}
}

func TestPermHelpers(t *testing.T) {
	p := []int{2, 0, 1}
	s := []float64{2, 4, 8}
	b := []float64{10, 20, 40}

	x := make([]float64, 3)
	require.NoError(t, numeric.Perm(p, s, b, x))
	require.Equal(t, []float64{5, 5, 5}, x)

	back := make([]float64, 3)
	require.NoError(t, numeric.InvPerm(p, nil, x, back))
	require.Equal(t, []float64{5, 5, 5}, back)

	require.NoError(t, numeric.Perm(p, nil, b, x))
	require.Equal(t, []float64{40, 10, 20}, x)

	require.True(t, errors.Is(numeric.Perm(p, nil, b, x[:2]), numeric.ErrBadRHS))
	require.True(t, errors.Is(numeric.InvPerm(p, nil, b[:2], x), numeric.ErrBadRHS))
}

// TestResidualAgreement cross-checks the residual utility on a solved
// system: near zero for the true solution, large for a perturbed one.
func TestResidualAgreement(t *testing.T) {
	a := spdTridiag(t, 10)
	plan := analyze(t, a, symbolic.DefaultOptions())
	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.NoError(t, err)

	b := make([]float64, a.N)
	for i := range b {
		b[i] = float64(i) - 4.5
	}
	x, err := fac.Solve(b)
	require.NoError(t, err)

	resid, anorm, xnorm := spmat.Residual(a, x, b)
	require.Less(t, resid, 1e-12)
	require.Equal(t, 4.0, anorm)
	require.Greater(t, xnorm, 0.0)

	x[0] += 1
	resid, _, _ = spmat.Residual(a, x, b)
	require.Greater(t, resid, 1e-5)
}
