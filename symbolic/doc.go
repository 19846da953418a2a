// Package symbolic implements the analysis phase of multifront: everything
// about a factorization that depends only on the nonzero pattern of the
// input matrix.
//
// # Pipeline
//
// Analyze(a, oracle, opts) runs, in order:
//
//  1. Singleton filtering — degree-1 columns, then degree-1 rows, are
//     eliminated trivially into two triangular blocks (CSR U-singletons,
//     CSC L-singletons). Dense front machinery never sees them.
//  2. Ordering — the remaining submatrix is handed to the order.Oracle,
//     which returns a column permutation, a column elimination tree, and
//     per-node row estimates.
//  3. S construction — the permuted pattern, rows sorted by leftmost
//     column position, every entry carrying the index of its value in the
//     input array so the plan re-values cheaply for any same-pattern
//     matrix.
//  4. Assembly tree — chain columns merge into fronts under relaxed
//     amalgamation (AmalgThreshold pivot columns per front); per-front
//     upper bounds Fm/Cm and flop estimates are derived bottom-up.
//  5. Task partition — fronts group into chain tasks sized against the
//     worker target, producing the coarse dependency tree the numeric
//     scheduler walks.
//
// # The Plan
//
// The resulting Plan is immutable and exclusively pattern-derived. Many
// Factorize calls — concurrent ones included — may share one Plan, as long
// as their matrices carry the pattern Analyze saw. The caller keeps the
// Plan alive for as long as any dependent Factorization is in use; both are
// ordinary garbage-collected values.
//
// # Invariants
//
//   - Parent[f] > f for every front; children complete before parents.
//   - The task tree coarsens the front tree: a front's parent task is an
//     ancestor of (or equal to) the front's own task.
//   - Fm/Cm bound the post-pivoting sizes from above whenever every pivot
//     column of the subtree eliminates; deferred (dead) pivot columns in a
//     singular factorization can push a contribution block past Cm, which
//     the assembler absorbs by sizing from actual counts.
//   - Analyze is deterministic: identical patterns yield identical plans.
//
// # Errors
//
//	ErrNilMatrix   — nil input
//	ErrNotSquare   — the solver factorizes square systems only
//	ErrTooLarge    — a front's dense bound overflows the kernel index range
//	ErrOutOfMemory — summed bounds exceed the addressable working budget
package symbolic
