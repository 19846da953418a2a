package numeric

import (
	"sync"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// limiter caps the extra goroutines dense kernels may spawn on top of the
// scheduler's workers, so large trailing updates inside one front can use
// idle CPUs without oversubscribing when many fronts run at once.
type limiter chan struct{}

func newLimiter(n int) limiter {
	if n < 0 {
		n = 0
	}
	l := make(limiter, n)
	for i := 0; i < n; i++ {
		l <- struct{}{}
	}
	return l
}

func (l limiter) tryAcquire() bool {
	select {
	case <-l:
		return true
	default:
		return false
	}
}

func (l limiter) release() { l <- struct{}{} }

// kernels bundles the tuning thresholds with the shared limiter. One value
// is built per Factorize call and used by every worker.
type kernels struct {
	opts Options
	lim  limiter
}

// forRows runs fn over [0, rows) in chunks of at most MemChunk elements,
// spreading chunks over idle workers for bulk copies of large blocks.
func (kr *kernels) forRows(rows, rowElems int, fn func(lo, hi int)) {
	chunk := rows
	if rowElems > 0 && kr.opts.MemChunk > 0 {
		if c := kr.opts.MemChunk / rowElems; c < rows {
			chunk = c
			if chunk < 1 {
				chunk = 1
			}
		}
	}
	if chunk >= rows {
		fn(0, rows)
		return
	}
	var wg sync.WaitGroup
	extra := 0
	for lo := 0; lo < rows; lo += chunk {
		hi := lo + chunk
		if hi > rows {
			hi = rows
		}
		if hi < rows && kr.lim.tryAcquire() {
			extra++
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				fn(lo, hi)
			}(lo, hi)
		} else {
			fn(lo, hi)
		}
	}
	wg.Wait()
	for ; extra > 0; extra-- {
		kr.lim.release()
	}
}

// schur computes C -= A·B for row-major blocks: A is m×k with stride lda,
// B is k×n with stride ldb, C is m×n with stride ldc.
//
// Tiny updates run as plain loops; mid-size ones as a single Gemm; large
// ones split C's rows across whatever extra workers the limiter grants.
func (kr *kernels) schur(c []float64, ldc int, a []float64, lda int, b []float64, ldb int, m, n, k int) {
	if m == 0 || n == 0 || k == 0 {
		return
	}
	flops := 2 * m * n * k
	if flops < kr.opts.WorthwhileGemm || (m <= kr.opts.Trivial && n <= kr.opts.Trivial) {
		for i := 0; i < m; i++ {
			ci := c[i*ldc:]
			ai := a[i*lda:]
			for p := 0; p < k; p++ {
				av := ai[p]
				if av == 0 {
					continue
				}
				bp := b[p*ldb:]
				for j := 0; j < n; j++ {
					ci[j] -= av * bp[j]
				}
			}
		}
		return
	}

	split := 1
	const minRowsPerSplit = 64
	for split < m/minRowsPerSplit && kr.lim.tryAcquire() {
		split++
	}
	if split == 1 {
		gemmMinus(c, ldc, a, lda, b, ldb, m, n, k)
		return
	}

	var wg sync.WaitGroup
	chunk := (m + split - 1) / split
	for lo := 0; lo < m; lo += chunk {
		hi := lo + chunk
		if hi > m {
			hi = m
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			gemmMinus(c[lo*ldc:], ldc, a[lo*lda:], lda, b, ldb, hi-lo, n, k)
		}(lo, hi)
	}
	wg.Wait()
	for i := 1; i < split; i++ {
		kr.lim.release()
	}
}

func gemmMinus(c []float64, ldc int, a []float64, lda int, b []float64, ldb int, m, n, k int) {
	blas64.Gemm(blas.NoTrans, blas.NoTrans, -1,
		blas64.General{Rows: m, Cols: k, Stride: lda, Data: a[:(m-1)*lda+k]},
		blas64.General{Rows: k, Cols: n, Stride: ldb, Data: b[:(k-1)*ldb+n]},
		1,
		blas64.General{Rows: m, Cols: n, Stride: ldc, Data: c[:(m-1)*ldc+n]})
}

// trsmLowerUnit solves L·X = B in place, with L a unit lower-triangular
// p×p block (stride ldl) and B p×n (stride ldb).
func (kr *kernels) trsmLowerUnit(l []float64, ldl int, b []float64, ldb int, p, n int) {
	if p == 0 || n == 0 {
		return
	}
	if p*p*n < kr.opts.WorthwhileTrsm || p <= kr.opts.Trivial {
		for i := 1; i < p; i++ {
			bi := b[i*ldb:]
			li := l[i*ldl:]
			for q := 0; q < i; q++ {
				lv := li[q]
				if lv == 0 {
					continue
				}
				bq := b[q*ldb:]
				for j := 0; j < n; j++ {
					bi[j] -= lv * bq[j]
				}
			}
		}
		return
	}
	blas64.Trsm(blas.Left, blas.NoTrans, 1,
		blas64.Triangular{Uplo: blas.Lower, Diag: blas.Unit, N: p, Stride: ldl, Data: l[:(p-1)*ldl+p]},
		blas64.General{Rows: p, Cols: n, Stride: ldb, Data: b[:(p-1)*ldb+n]})
}

// trsvLowerUnit solves L·x = x in place for a unit lower-triangular p×p
// block stored row-major with stride ld.
func (kr *kernels) trsvLowerUnit(l []float64, ld, p int, x []float64) {
	if p == 0 {
		return
	}
	if p <= kr.opts.Trivial {
		for i := 1; i < p; i++ {
			li := l[i*ld:]
			s := x[i]
			for q := 0; q < i; q++ {
				s -= li[q] * x[q]
			}
			x[i] = s
		}
		return
	}
	blas64.Trsv(blas.NoTrans,
		blas64.Triangular{Uplo: blas.Lower, Diag: blas.Unit, N: p, Stride: ld, Data: l[:(p-1)*ld+p]},
		blas64.Vector{N: p, Data: x, Inc: 1})
}

// trsvUpperNonUnit solves U·x = x in place for an upper-triangular p×p
// block stored row-major with stride ld. Diagonal entries must be nonzero.
func (kr *kernels) trsvUpperNonUnit(u []float64, ld, p int, x []float64) {
	if p == 0 {
		return
	}
	if p <= kr.opts.Trivial {
		for i := p - 1; i >= 0; i-- {
			ui := u[i*ld:]
			s := x[i]
			for q := i + 1; q < p; q++ {
				s -= ui[q] * x[q]
			}
			x[i] = s / ui[i]
		}
		return
	}
	blas64.Trsv(blas.NoTrans,
		blas64.Triangular{Uplo: blas.Upper, Diag: blas.NonUnit, N: p, Stride: ld, Data: u[:(p-1)*ld+p]},
		blas64.Vector{N: p, Data: x, Inc: 1})
}

// gemvMinus computes y -= A·x for a row-major m×n block with stride ld.
func (kr *kernels) gemvMinus(a []float64, ld int, x []float64, y []float64, m, n int) {
	if m == 0 || n == 0 {
		return
	}
	if 2*m*n < kr.opts.WorthwhileGemm {
		for i := 0; i < m; i++ {
			ai := a[i*ld:]
			s := 0.0
			for j := 0; j < n; j++ {
				s += ai[j] * x[j]
			}
			y[i] -= s
		}
		return
	}
	blas64.Gemv(blas.NoTrans, -1,
		blas64.General{Rows: m, Cols: n, Stride: ld, Data: a[:(m-1)*ld+n]},
		blas64.Vector{N: n, Data: x, Inc: 1},
		1,
		blas64.Vector{N: m, Data: y, Inc: 1})
}

// gerMinus applies the rank-1 update A -= x·yᵀ on a row-major m×n block.
// Used in place of Gemm when dead pivot columns break the block structure.
func (kr *kernels) gerMinus(a []float64, ld int, x []float64, incx int, y []float64, m, n int) {
	if m == 0 || n == 0 {
		return
	}
	if m <= kr.opts.Trivial || n <= kr.opts.Trivial {
		for i := 0; i < m; i++ {
			xv := x[i*incx]
			if xv == 0 {
				continue
			}
			ai := a[i*ld:]
			for j := 0; j < n; j++ {
				ai[j] -= xv * y[j]
			}
		}
		return
	}
	blas64.Ger(-1,
		blas64.Vector{N: m, Data: x[:(m-1)*incx+1], Inc: incx},
		blas64.Vector{N: n, Data: y[:n], Inc: 1},
		blas64.General{Rows: m, Cols: n, Stride: ld, Data: a[:(m-1)*ld+n]})
}
