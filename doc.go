// Package multifront is a task-parallel sparse direct solver for square
// systems A·x = b, built around a multifrontal LU factorization with
// partial pivoting.
//
// 🚀 What is multifront?
//
//	A pure-Go solver core that splits the classical two-phase direct-solver
//	contract into small, composable packages:
//		• spmat    — compressed sparse column container, residual norms
//		• order    — pluggable fill-reducing ordering oracle (+ reference oracles)
//		• symbolic — Analyze: singleton filtering, assembly tree, task partition
//		• numeric  — Factorize: frontal assembly, pivoted panel-blocked dense
//		             elimination on BLAS kernels, fork-join task scheduling,
//		             and the Solve family
//
// The standard workflow mirrors every production direct solver:
//
//	plan, err := symbolic.Analyze(A, order.Degree{}, symbolic.DefaultOptions())
//	num, err := numeric.Factorize(plan, A, numeric.DefaultOptions())
//	x, err := num.Solve(b)
//
// A Plan captures everything derivable from the nonzero pattern alone and is
// reusable, read-only, across any number of (possibly concurrent) Factorize
// calls on matrices sharing that pattern. A Factorization owns the numeric
// factors, permutations, scaling and conditioning diagnostics for one matrix.
//
// Parallelism is two-level: independent subtrees of the assembly tree run as
// concurrent tasks on a bounded worker pool, and sufficiently large dense
// updates inside a single front are themselves split across workers. Both
// levels are governed by explicit, immutable Options values — no process-wide
// state.
//
// Dive into the package docs of symbolic and numeric for the algorithmic
// details, invariants, and error contracts.
package multifront
