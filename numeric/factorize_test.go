package numeric_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/multifront/numeric"
	"github.com/katalvlaran/multifront/order"
	"github.com/katalvlaran/multifront/spmat"
	"github.com/katalvlaran/multifront/symbolic"
)

func fromDense(t *testing.T, d [][]float64) *spmat.Matrix {
	t.Helper()
	a, err := spmat.FromDense(d)
	require.NoError(t, err)
	return a
}

func analyze(t *testing.T, a *spmat.Matrix, sopts symbolic.Options) *symbolic.Plan {
	t.Helper()
	plan, err := symbolic.Analyze(a, order.Natural{}, sopts)
	require.NoError(t, err)
	return plan
}

// roundTrip factors a, solves against b = A·xTrue and checks the result.
func roundTrip(t *testing.T, a *spmat.Matrix, plan *symbolic.Plan, opts numeric.Options, tol float64) {
	t.Helper()
	n := a.N
	xTrue := make([]float64, n)
	for i := range xTrue {
		xTrue[i] = float64(i%5) - 2
	}
	b := a.MulVec(nil, xTrue)

	fac, err := numeric.Factorize(plan, a, opts)
	require.NoError(t, err)
	require.False(t, fac.Singular())
	require.Greater(t, fac.Rcond(), 0.0)

	x, err := fac.Solve(b)
	require.NoError(t, err)
	for i := range x {
		require.InDelta(t, xTrue[i], x[i], tol, "x[%d]", i)
	}
	resid, _, _ := spmat.Residual(a, x, b)
	require.Less(t, resid, tol)
}

func spdTridiag(t *testing.T, n int) *spmat.Matrix {
	t.Helper()
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		d[i][i] = 2
		if i > 0 {
			d[i][i-1] = -1
		}
		if i < n-1 {
			d[i][i+1] = -1
		}
	}
	return fromDense(t, d)
}

func TestFactorize_Validation(t *testing.T) {
	a := spdTridiag(t, 4)
	plan := analyze(t, a, symbolic.DefaultOptions())

	_, err := numeric.Factorize(nil, a, numeric.DefaultOptions())
	require.True(t, errors.Is(err, numeric.ErrNilPlan))

	_, err = numeric.Factorize(plan, nil, numeric.DefaultOptions())
	require.True(t, errors.Is(err, numeric.ErrNilMatrix))

	other := spdTridiag(t, 5)
	_, err = numeric.Factorize(plan, other, numeric.DefaultOptions())
	require.True(t, errors.Is(err, numeric.ErrPlanMismatch))
}

func TestFactorize_SPDTridiagonal(t *testing.T) {
	a := spdTridiag(t, 4)
	plan := analyze(t, a, symbolic.DefaultOptions())
	require.GreaterOrEqual(t, plan.Nf, 1)
	roundTrip(t, a, plan, numeric.DefaultOptions(), 1e-10)

	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.NoError(t, err)
	x, err := fac.Solve([]float64{1, 1, 1, 1})
	require.NoError(t, err)
	want := denseSolve(t, a.ToDense(), []float64{1, 1, 1, 1})
	for i := range x {
		require.InDelta(t, want[i], x[i], 1e-10)
	}
}

// TestFactorize_ChainFronts splits the tree into one front per column so
// contribution blocks actually flow between fronts.
func TestFactorize_ChainFronts(t *testing.T) {
	a := spdTridiag(t, 12)
	sopts := symbolic.DefaultOptions()
	sopts.AmalgThreshold = 1
	plan := analyze(t, a, sopts)
	require.Equal(t, 12, plan.Nf)
	roundTrip(t, a, plan, numeric.DefaultOptions(), 1e-9)
}

// TestFactorize_BlockedPanels forces small panels and the BLAS code paths.
func TestFactorize_BlockedPanels(t *testing.T) {
	n := 16
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := i - 3; j <= i+3; j++ {
			if j >= 0 && j < n {
				d[i][j] = 1
			}
		}
		d[i][i] = 10
	}
	a := fromDense(t, d)
	plan := analyze(t, a, symbolic.DefaultOptions())

	opts := numeric.DefaultOptions()
	opts.PanelWidth = 2
	opts.Trivial = 1
	opts.WorthwhileGemm = 1
	opts.WorthwhileTrsm = 1
	roundTrip(t, a, plan, opts, 1e-9)
}

func TestFactorize_NoScaling(t *testing.T) {
	a := spdTridiag(t, 6)
	plan := analyze(t, a, symbolic.DefaultOptions())
	opts := numeric.DefaultOptions()
	opts.Scale = false
	roundTrip(t, a, plan, opts, 1e-10)
}

// TestFactorize_SingularDuplicateRows hits a numerically singular input:
// two identical rows leave a dead column, the factorization survives for
// diagnostics and the solve family refuses it.
func TestFactorize_SingularDuplicateRows(t *testing.T) {
	a := fromDense(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{1, 2, 3},
	})
	plan := analyze(t, a, symbolic.DefaultOptions())

	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.True(t, errors.Is(err, numeric.ErrSingular))
	require.NotNil(t, fac)
	require.True(t, fac.Singular())
	require.Equal(t, 0.0, fac.Rcond())
	require.Equal(t, 0.0, fac.MinUdiag)

	_, err = fac.Solve([]float64{1, 1, 1})
	require.True(t, errors.Is(err, numeric.ErrSingular))
}

// TestFactorize_StructuralZeroColumn covers structural singularity: a
// column with no entries at all must yield ErrSingular with diagnostics
// intact, not a crash. The surviving submatrix here is a single empty
// column, so the front carries zero rows and zero flops.
func TestFactorize_StructuralZeroColumn(t *testing.T) {
	a, err := spmat.FromTriplets(3, 3,
		[]int{0, 1, 2, 0, 2},
		[]int{0, 0, 0, 2, 2},
		[]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	plan := analyze(t, a, symbolic.DefaultOptions())

	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.True(t, errors.Is(err, numeric.ErrSingular))
	require.NotNil(t, fac)
	require.True(t, fac.Singular())
	require.Equal(t, 0.0, fac.MinUdiag)
	require.Equal(t, 0.0, fac.Rcond())
}

// TestFactorize_EmptyRow covers the other structural defect: a row with no
// entries leaves the last pivot column dead inside an otherwise ordinary
// front.
func TestFactorize_EmptyRow(t *testing.T) {
	a, err := spmat.FromTriplets(3, 3,
		[]int{0, 2, 0, 2, 0, 2},
		[]int{0, 0, 1, 1, 2, 2},
		[]float64{4, 1, 1, 3, 2, 5})
	require.NoError(t, err)
	plan, err := symbolic.Analyze(a, order.Degree{}, symbolic.DefaultOptions())
	require.NoError(t, err)

	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.True(t, errors.Is(err, numeric.ErrSingular))
	require.NotNil(t, fac)
	require.Equal(t, 0.0, fac.MinUdiag)

	_, err = fac.Solve([]float64{1, 2, 3})
	require.True(t, errors.Is(err, numeric.ErrSingular))
}

// TestFactorize_PivTolAboveOne keeps a misconfigured tolerance from
// rejecting every candidate; the column max steps in as the pivot.
func TestFactorize_PivTolAboveOne(t *testing.T) {
	a := spdTridiag(t, 6)
	sopts := symbolic.DefaultOptions()
	sopts.Strategy = symbolic.StrategyUnsymmetric
	plan := analyze(t, a, sopts)

	opts := numeric.DefaultOptions()
	opts.PivTol = 2
	roundTrip(t, a, plan, opts, 1e-10)
}

// TestFactorize_TriangularSingletons dissolves the whole matrix into
// singleton blocks; the solve runs with no fronts at all.
func TestFactorize_TriangularSingletons(t *testing.T) {
	a := fromDense(t, [][]float64{
		{2, 5, 7},
		{0, 4, 9},
		{0, 0, 8},
	})
	plan := analyze(t, a, symbolic.DefaultOptions())
	require.Equal(t, 0, plan.Nf)
	roundTrip(t, a, plan, numeric.DefaultOptions(), 1e-12)
}

// TestFactorize_RowSingleton covers the L-singleton block in both sweeps.
func TestFactorize_RowSingleton(t *testing.T) {
	a := fromDense(t, [][]float64{
		{3, 0, 0, 0},
		{1, 4, 1, 0},
		{0, 1, 5, 1},
		{1, 0, 1, 6},
	})
	plan := analyze(t, a, symbolic.DefaultOptions())
	require.Equal(t, 1, plan.Rs1)
	roundTrip(t, a, plan, numeric.DefaultOptions(), 1e-10)
}

// TestFactorize_PlanReuseConcurrent shares one plan across concurrent
// factorizations of same-pattern matrices with different values.
func TestFactorize_PlanReuseConcurrent(t *testing.T) {
	a := spdTridiag(t, 20)
	sopts := symbolic.DefaultOptions()
	sopts.AmalgThreshold = 2
	plan := analyze(t, a, sopts)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			b := a.Clone()
			for k := range b.Val {
				b.Val[k] *= float64(g + 1)
			}
			fac, err := numeric.Factorize(plan, b, numeric.DefaultOptions())
			require.NoError(t, err)

			xTrue := make([]float64, b.N)
			for i := range xTrue {
				xTrue[i] = float64(i + g)
			}
			rhs := b.MulVec(nil, xTrue)
			x, err := fac.Solve(rhs)
			require.NoError(t, err)
			for i := range x {
				require.InDelta(t, xTrue[i], x[i], 1e-8)
			}
		}(g)
	}
	wg.Wait()
}

// TestFactorize_SchedulerStress pushes many small tasks through a wide
// worker pool and checks the result is still exact.
func TestFactorize_SchedulerStress(t *testing.T) {
	n := 80
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := i - 2; j <= i+2; j++ {
			if j >= 0 && j < n {
				d[i][j] = -1
			}
		}
		d[i][i] = 10
	}
	a := fromDense(t, d)
	sopts := symbolic.DefaultOptions()
	sopts.AmalgThreshold = 2
	sopts.MaxWorkers = 8
	plan := analyze(t, a, sopts)
	require.Greater(t, plan.NumTasks(), 1)

	opts := numeric.DefaultOptions()
	opts.MaxWorkers = 8
	for iter := 0; iter < 10; iter++ {
		roundTrip(t, a, plan, opts, 1e-8)
	}
}

// TestFactorize_DenseReference compares the solver against straightforward
// dense Gaussian elimination on a general unsymmetric matrix.
func TestFactorize_DenseReference(t *testing.T) {
	d := [][]float64{
		{4, 1, 0, 2, 0, 0},
		{1, 5, 1, 0, 0, 3},
		{0, 2, 6, 1, 0, 0},
		{1, 0, 1, 7, 2, 0},
		{0, 0, 0, 2, 8, 1},
		{0, 3, 0, 0, 1, 9},
	}
	a := fromDense(t, d)
	sopts := symbolic.DefaultOptions()
	sopts.AmalgThreshold = 2
	plan := analyze(t, a, sopts)

	b := []float64{1, -2, 3, -4, 5, -6}
	fac, err := numeric.Factorize(plan, a, numeric.DefaultOptions())
	require.NoError(t, err)
	x, err := fac.Solve(b)
	require.NoError(t, err)

	want := denseSolve(t, d, b)
	for i := range x {
		require.InDelta(t, want[i], x[i], 1e-9)
	}
}

// denseSolve is a plain partial-pivoting reference for small systems.
func denseSolve(t *testing.T, d [][]float64, b []float64) []float64 {
	t.Helper()
	n := len(d)
	m := make([][]float64, n)
	for i := range m {
		m[i] = append(append([]float64(nil), d[i]...), b[i])
	}
	for j := 0; j < n; j++ {
		piv := j
		for i := j + 1; i < n; i++ {
			if abs(m[i][j]) > abs(m[piv][j]) {
				piv = i
			}
		}
		m[j], m[piv] = m[piv], m[j]
		require.NotZero(t, m[j][j])
		for i := j + 1; i < n; i++ {
			l := m[i][j] / m[j][j]
			for q := j; q <= n; q++ {
				m[i][q] -= l * m[j][q]
			}
		}
	}
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := m[i][n]
		for q := i + 1; q < n; q++ {
			s -= m[i][q] * x[q]
		}
		x[i] = s / m[i][i]
	}
	return x
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
