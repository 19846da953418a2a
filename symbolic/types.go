package symbolic

import (
	"errors"
	"runtime"
)

// Sentinel errors for the symbolic phase.
var (
	// ErrNilMatrix indicates a nil input matrix.
	ErrNilMatrix = errors.New("symbolic: nil matrix")
	// ErrNotSquare indicates a non-square input matrix.
	ErrNotSquare = errors.New("symbolic: matrix must be square")
	// ErrTooLarge indicates a symbolic size bound that would overflow the
	// index arithmetic of the dense kernels.
	ErrTooLarge = errors.New("symbolic: problem too large")
	// ErrOutOfMemory indicates a bound on working storage that exceeds the
	// addressable budget before any allocation is attempted.
	ErrOutOfMemory = errors.New("symbolic: working storage bound exceeds memory budget")
)

// Strategy selects the pivoting flavor fixed into a Plan.
type Strategy int

const (
	// StrategyAuto resolves to Symmetric when the input pattern is
	// structurally symmetric with a full diagonal, Unsymmetric otherwise.
	StrategyAuto Strategy = iota
	// StrategyUnsymmetric uses plain threshold partial pivoting.
	StrategyUnsymmetric
	// StrategySymmetric prefers structural diagonal pivots when they are
	// not much smaller than the best candidate, preserving symmetry.
	StrategySymmetric
)

// Options holds the symbolic-phase configuration. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	// Strategy selects the pivoting strategy resolved into the Plan.
	Strategy Strategy
	// FilterSingletons enables the trivial elimination of degree-1 rows and
	// columns before tree construction.
	FilterSingletons bool
	// AmalgThreshold is the relaxed-amalgamation ceiling: adjacent chain
	// columns are merged into one front while the front's pivot count stays
	// within this bound.
	AmalgThreshold int
	// MaxWorkers is the parallelism target used to size the task partition.
	MaxWorkers int
}

// DefaultOptions returns production defaults: automatic strategy, singleton
// filtering on, amalgamation threshold 32, worker target GOMAXPROCS.
func DefaultOptions() Options {
	return Options{
		Strategy:         StrategyAuto,
		FilterSingletons: true,
		AmalgThreshold:   32,
		MaxWorkers:       runtime.GOMAXPROCS(0),
	}
}

// Uston is the column-singleton block: the pivot rows of trivially
// eliminated degree-1 columns, stored row-major (CSR) since each becomes a
// row of U. Entry indices reference the input matrix's Val array so the
// block can be re-valued for any matrix sharing the pattern.
type Uston struct {
	PivRow []int // size cs1: original pivot row per singleton
	PivCol []int // size cs1: original pivot column per singleton
	PivIdx []int // size cs1: Val index of the pivot entry
	Ptr    []int // size cs1+1: row pointers into Col/ValIdx
	Col    []int // off-diagonal original column indices
	ValIdx []int // Val index per off-diagonal entry
}

// Lston is the row-singleton block: the pivot columns of trivially
// eliminated degree-1 rows, stored column-major (CSC) since each becomes a
// column of L.
type Lston struct {
	PivRow []int // size rs1: original pivot row per singleton
	PivCol []int // size rs1: original pivot column per singleton
	PivIdx []int // size rs1: Val index of the pivot entry
	Ptr    []int // size rs1+1: column pointers into Row/ValIdx
	Row    []int // off-diagonal original row indices
	ValIdx []int // Val index per off-diagonal entry
}

// TaskRange is one scheduling unit: the fronts First..Last form a chain
// (Parent[f] == f+1 within the range) and execute sequentially inside the
// task.
type TaskRange struct {
	First, Last int
}

// Plan is the symbolic factorization: everything derivable from the nonzero
// pattern alone. A Plan is immutable after Analyze and may be shared,
// read-only, by any number of concurrent Factorize calls on matrices with
// the same pattern.
type Plan struct {
	M, N, Anz int      // input dimensions and entry count (pairing check)
	Strategy  Strategy // resolved strategy (never StrategyAuto)

	// Singletons. N1 = Cs1 + Rs1 rows/columns eliminated before the tree.
	N1, Cs1, Rs1 int
	Ust          Uston
	Lst          Lston

	// S: the permuted pattern after singleton removal, (M-N1)×(N-N1),
	// stored by rows sorted by leftmost column position. Column indices in
	// each row are ascending positions (not original columns).
	Sm, Sn, Snz int
	Sp          []int // size Sm+1: row pointers
	Sj          []int // column positions per entry
	SvalIdx     []int // input Val index per entry
	Sleft       []int // size Sn+2: rows with leftmost position j are
	// Sleft[j]..Sleft[j+1]-1; Sleft[Sn]..Sleft[Sn+1]-1 are the empty rows.
	SRowOrig []int // size Sm: S row -> original row
	SColOrig []int // size Sn: S column position -> original column
	ColPos   []int // size N: original column -> global elimination position
	DiagRow  []int // size Sn: S row holding the structural diagonal of the
	// column at each position, -1 if absent (symmetric-strategy preference)

	// Assembly tree over Nf fronts plus the synthetic root Nf.
	Nf           int
	Super        []int     // size Nf+1: first pivot position of each front
	Parent       []int     // size Nf+1: front parent; roots point at Nf
	Child        []int     // size Nf: child lists, segmented by Childp
	Childp       []int     // size Nf+2
	Depth        []int     // size Nf: distance from the synthetic root
	Fm           []int     // size Nf: row-count upper bound per front
	Cm           []int     // size Nf: contribution-block row bound per front
	FrontFlops   []float64 // size Nf: per-front flop bound
	SubtreeFlops []float64 // size Nf: flop bound summed over the subtree

	// Task partition: a coarsening of the front tree along chains.
	Tasks          []TaskRange
	TaskOf         []int // size Nf
	TaskParent     []int // -1 for root tasks
	TaskChildCount []int
	TaskDepth      []int
}

// NumTasks returns the number of scheduling units in the plan.
func (p *Plan) NumTasks() int { return len(p.Tasks) }

// FrontCols returns the pivot-column span [first, last) of front f as
// global elimination positions.
func (p *Plan) FrontCols(f int) (first, last int) {
	return p.N1 + p.Super[f], p.N1 + p.Super[f+1]
}
