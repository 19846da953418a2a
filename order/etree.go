package order

import "github.com/katalvlaran/multifront/spmat"

// ColEtree computes the column elimination tree of AᵀA for the matrix a
// under the column permutation perm (perm[k] is the original column at
// permuted position k), without forming AᵀA.
//
// The tree is the dependency skeleton of an LU factorization of A(:,perm):
// if position i is an ancestor of position k, eliminating column k can
// update column i. Parent[k] == -1 marks roots; Parent[k] > k otherwise.
//
// Algorithm: ancestor path compression. Columns are visited left to right;
// each row remembers the last position in which it appeared, and the path
// from that position to the current one is climbed and compressed. Runs in
// O(nnz · α(n)) time, O(m+n) extra space.
func ColEtree(a *spmat.Matrix, perm []int) []int {
	n := a.N
	parent := make([]int, n)
	ancestor := make([]int, n)
	prev := make([]int, a.M) // last position seen per row, -1 if none
	for i := range prev {
		prev[i] = -1
	}
	for k := 0; k < n; k++ {
		parent[k] = -1
		ancestor[k] = -1
		for _, r := range a.ColRows(perm[k]) {
			i := prev[r]
			for i != -1 && i < k {
				next := ancestor[i]
				ancestor[i] = k
				if next == -1 {
					parent[i] = k
				}
				i = next
			}
			prev[r] = k
		}
	}
	return parent
}
