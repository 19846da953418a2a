package order

import (
	"errors"
	"sort"

	"github.com/katalvlaran/multifront/spmat"
)

// Sentinel errors for oracle input validation.
var (
	// ErrNilMatrix indicates a nil input matrix.
	ErrNilMatrix = errors.New("order: nil matrix")
	// ErrNotSquare indicates a non-square input matrix.
	ErrNotSquare = errors.New("order: matrix must be square")
)

// Ordering is the oracle's answer for one sparse pattern: a column
// permutation, an elimination-tree skeleton over permuted columns, and a
// per-node row-count estimate. It is immutable once returned.
type Ordering struct {
	// ColPerm maps permuted position k to the original column ColPerm[k].
	ColPerm []int
	// Parent is the column elimination tree over permuted positions;
	// Parent[k] == -1 marks a root. Parent[k] > k always holds.
	Parent []int
	// RowCounts[k] is the number of rows whose leftmost entry (in permuted
	// column order) falls at position k — the candidate pivot rows the
	// symbolic phase will charge to that node.
	RowCounts []int
}

// Oracle produces an Ordering for a square sparse matrix. Implementations
// must be deterministic for a fixed nonzero pattern: the symbolic phase
// promises identical plans for identical patterns.
type Oracle interface {
	Order(a *spmat.Matrix) (*Ordering, error)
}

// Natural is the identity-permutation oracle.
type Natural struct{}

// Order returns the natural ordering of a with its elimination tree.
func (Natural) Order(a *spmat.Matrix) (*Ordering, error) {
	if err := validate(a); err != nil {
		return nil, err
	}
	perm := make([]int, a.N)
	for k := range perm {
		perm[k] = k
	}
	return finish(a, perm), nil
}

// Degree orders columns by ascending nonzero count (stable), a cheap
// degree heuristic that keeps dense columns late in the elimination.
type Degree struct{}

// Order returns the degree ordering of a with its elimination tree.
func (Degree) Order(a *spmat.Matrix) (*Ordering, error) {
	if err := validate(a); err != nil {
		return nil, err
	}
	perm := make([]int, a.N)
	for k := range perm {
		perm[k] = k
	}
	sort.SliceStable(perm, func(x, y int) bool {
		dx := a.Colp[perm[x]+1] - a.Colp[perm[x]]
		dy := a.Colp[perm[y]+1] - a.Colp[perm[y]]
		return dx < dy
	})
	return finish(a, perm), nil
}

func validate(a *spmat.Matrix) error {
	if a == nil {
		return ErrNilMatrix
	}
	if a.M != a.N {
		return ErrNotSquare
	}
	return nil
}

func finish(a *spmat.Matrix, perm []int) *Ordering {
	return &Ordering{
		ColPerm:   perm,
		Parent:    ColEtree(a, perm),
		RowCounts: leftmostCounts(a, perm),
	}
}

// leftmostCounts counts, per permuted position, the rows whose leftmost
// entry under the permutation lands there.
func leftmostCounts(a *spmat.Matrix, perm []int) []int {
	first := make([]int, a.M)
	for i := range first {
		first[i] = -1
	}
	for k, j := range perm {
		for _, r := range a.ColRows(j) {
			if first[r] == -1 {
				first[r] = k
			}
		}
	}
	counts := make([]int, a.N)
	for _, k := range first {
		if k >= 0 {
			counts[k]++
		}
	}
	return counts
}
