// Package numeric implements the value-dependent phase of multifront: the
// parallel multifrontal factorization itself and the solve family on its
// result.
//
// # Factorize
//
// Factorize(plan, a, opts) walks the plan's task forest bottom-up on a
// bounded worker pool. Each task processes its chain of fronts in order:
// assemble the dense working block from the matrix's scaled entries and
// the children's contribution blocks, run panel-blocked threshold partial
// pivoting over the pivot columns, keep the factor blocks and forward the
// Schur complement to the parent. Dense arithmetic goes through
// gonum's blas64 above the tuning thresholds and plain loops below them;
// large trailing updates additionally split rows across idle workers.
//
// A singular matrix is not an invalid one: elimination records dead pivot
// columns and continues, and the returned Factorization (paired with
// ErrSingular) still carries the permutations and diagnostics, Rcond
// included. Only the solve family refuses singular results.
//
// # Solving
//
// Solve, SolveVec and SolveMat run the full pipeline: row permutation and
// scaling, forward substitution through the singleton L block and the
// per-front unit-lower blocks, back-substitution through the per-front
// upper blocks and the singleton U block, then the column permutation.
// LSolve and USolve expose the two sweeps for callers composing their own
// pipelines, with Perm and InvPerm as the matching permutation helpers.
//
// A Factorization is immutable after construction; concurrent solves on
// one result are safe, as is sharing one Plan across concurrent Factorize
// calls.
package numeric
