package numeric

import (
	"errors"
	"runtime"

	"github.com/katalvlaran/multifront/symbolic"
)

var (
	// ErrNilPlan is returned when Factorize receives a nil symbolic plan.
	ErrNilPlan = errors.New("numeric: nil plan")
	// ErrNilMatrix is returned when a nil matrix is supplied.
	ErrNilMatrix = errors.New("numeric: nil matrix")
	// ErrPlanMismatch is returned when the matrix does not carry the
	// pattern the plan was analyzed from.
	ErrPlanMismatch = errors.New("numeric: matrix does not match plan pattern")
	// ErrSingular marks a structurally or numerically singular matrix. The
	// accompanying Factorization is still usable for diagnostics, but not
	// for Solve.
	ErrSingular = errors.New("numeric: matrix is singular")
	// ErrTooLarge is returned when a dense block exceeds the kernel index
	// range.
	ErrTooLarge = errors.New("numeric: problem too large for dense kernels")
	// ErrOutOfMemory is returned when the working-set bound exceeds the
	// configured budget.
	ErrOutOfMemory = errors.New("numeric: working set exceeds memory budget")
	// ErrBadRHS is returned by the solve family for a right-hand side whose
	// shape does not match the factorization.
	ErrBadRHS = errors.New("numeric: right-hand side shape mismatch")
)

// Options tunes the numeric phase. The zero value is not useful; start
// from DefaultOptions and adjust.
type Options struct {
	// Scale enables per-row scaling by the row's maximum absolute value
	// before factorization. Improves pivot quality on badly scaled inputs.
	Scale bool

	// PanelWidth is the column width of the blocked dense elimination.
	PanelWidth int

	// PivTol is the relative threshold for partial pivoting: a candidate
	// row is accepted once its magnitude reaches PivTol times the column
	// maximum. 1.0 is classic partial pivoting; smaller values trade
	// growth for sparsity.
	PivTol float64

	// DiagTol is the relaxed threshold applied to the structural diagonal
	// entry under the symmetric strategy.
	DiagTol float64

	// Trivial is the matrix dimension below which dense kernels run as
	// plain loops with no BLAS call.
	Trivial int

	// WorthwhileGemm and WorthwhileTrsm are flop thresholds below which
	// the trailing update runs sequentially rather than splitting across
	// workers.
	WorthwhileGemm int
	WorthwhileTrsm int

	// MaxWorkers bounds the scheduler's worker pool.
	MaxWorkers int

	// MemChunk is the granularity, in elements, of working-buffer growth.
	MemChunk int
}

// DefaultOptions returns the tuning used when callers have no reason to
// deviate.
func DefaultOptions() Options {
	return Options{
		Scale:          true,
		PanelWidth:     32,
		PivTol:         0.1,
		DiagTol:        0.001,
		Trivial:        4,
		WorthwhileGemm: 512,
		WorthwhileTrsm: 4096,
		MaxWorkers:     runtime.GOMAXPROCS(0),
		MemChunk:       1 << 20,
	}
}

// frontData is the per-front numeric output kept by a Factorization.
//
// The dense block factored for front f is split on completion:
//
//	LU — rowCount×fp, unit-lower L below the diagonal of the first NPiv
//	     rows, upper U on and above it, and the scaled candidate rows of
//	     dead columns untouched below;
//	U  — NPiv×cc, the pivot rows over the contribution columns;
//
// while the trailing (rowCount−NPiv)×cc contribution block is consumed by
// the parent during assembly and never stored here.
type frontData struct {
	// RowList holds S row indices in post-pivoting order: NPiv pivot rows
	// first, then the rows forwarded in the contribution block.
	RowList []int
	// ColList holds the global positions of the contribution columns,
	// ascending.
	ColList []int
	// NPiv is the number of pivots actually eliminated; short of the
	// front's pivot-column count exactly when dead columns were met.
	NPiv int
	// Dead lists the front-local pivot-column indices that had no
	// acceptable pivot, ascending. Empty in the nonsingular case.
	Dead []int

	LU []float64 // len(RowList)×fp, row-major
	U  []float64 // NPiv×cc, row-major

	minU, maxU, flops float64
}

// Factorization is the numeric result of one Factorize call. It is
// immutable after construction and safe for concurrent solves.
type Factorization struct {
	plan *symbolic.Plan
	kern *kernels

	// Rs holds the per-row scale factors in original row order; all ones
	// when scaling is disabled.
	Rs []float64

	// Pfin maps global elimination position to original row: the row of A
	// eliminated at position k is Pfin[k].
	Pfin []int
	// rowPos is the inverse of Pfin: original row to position.
	rowPos []int
	// Ps maps S row index to global elimination position.
	Ps []int

	// Singleton pivot values and off-pivot values, gathered from the
	// input matrix in plan order.
	ustPiv, ustVal []float64
	lstPiv, lstVal []float64

	fronts []frontData

	// NPivTotal counts eliminated pivots, singletons included.
	NPivTotal int
	// MinUdiag and MaxUdiag are the extreme magnitudes seen on the U
	// diagonal; their ratio estimates the reciprocal condition number.
	MinUdiag, MaxUdiag float64
	// Flops counts the floating-point operations spent in elimination.
	Flops float64

	singular bool
}

// Rcond returns the cheap reciprocal condition estimate min|u_ii|/max|u_ii|.
// Zero for a singular factorization.
func (f *Factorization) Rcond() float64 {
	if f.MaxUdiag == 0 {
		return 0
	}
	return f.MinUdiag / f.MaxUdiag
}

// Singular reports whether fewer than n pivots were eliminated.
func (f *Factorization) Singular() bool { return f.singular }
