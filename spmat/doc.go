// Package spmat provides the compressed-sparse-column (CSC) matrix container
// consumed by the symbolic and numeric phases of multifront, together with
// the handful of norm and residual utilities a direct solver needs around
// the edges of a factorization.
//
// # Storage
//
// A Matrix holds an M×N pattern and values in standard CSC form:
//
//	Colp — N+1 column pointers
//	Rowi — Nnz row indices, ascending within each column
//	Val  — Nnz numeric values, parallel to Rowi
//
// Construction through New validates and normalizes the arrays (row indices
// are sorted in place per column if needed, duplicates are rejected), so the
// rest of the solver may assume a canonical layout. FromTriplets and
// FromDense are conveniences for tests and small inputs.
//
// # What lives here
//
//   - Read access: Dims, Nnz, At, ColRows, ColVals
//   - Whole-matrix helpers: Clone, ToDense, MulVec, MulMat
//   - Norms: Norm1 (max column 1-norm), MaxAbsRows (per-row max magnitude,
//     the row-scaling vector of the numeric phase)
//   - Residual / ResidualMat: resid = ‖b−A·x‖₁ / (‖A‖₁·‖x‖₁)
//
// # Errors
//
//	ErrBadShape — non-positive dimension or mismatched array lengths
//	ErrBadIndex — row index out of range, or duplicate entry in a column
//
// The container is deliberately minimal: it is a storage format, not a
// sparse-algebra library.
package spmat
