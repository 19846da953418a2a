// Package order defines the fill-reducing ordering oracle consumed by the
// symbolic phase of multifront, plus two reference oracles and the column
// elimination tree computation shared by any oracle implementation.
//
// # The oracle boundary
//
// A direct solver's symbolic phase needs three things it does not compute
// itself: a column permutation, an elimination-tree skeleton over the
// permuted columns, and a per-node row-count estimate. The Oracle interface
// captures exactly that contract:
//
//	type Oracle interface {
//	    Order(a *spmat.Matrix) (*Ordering, error)
//	}
//
// Serious deployments plug in an external fill-reducing ordering (an AMD or
// nested-dissection equivalent) behind this interface. The solver itself
// deliberately implements no such heuristic.
//
// # Reference oracles
//
//   - Natural — identity permutation. Predictable, useful for tests and for
//     matrices already ordered upstream.
//   - Degree  — columns sorted by ascending nonzero count (stable). The
//     cheapest degree heuristic; a modest fill reducer on many patterns.
//
// Both delegate tree construction to ColEtree, the standard column
// elimination tree of AᵀA computed by ancestor path compression in
// near-linear time, and estimate per-node row counts from leftmost-column
// membership.
//
// # Errors
//
//	ErrNilMatrix — nil input matrix
//	ErrNotSquare — the solver factorizes square systems only
package order
