package numeric

import "math"

// denseResult reports what frontLU eliminated.
type denseResult struct {
	npiv       int
	dead       []int // front-local pivot columns with no acceptable pivot
	minU, maxU float64
	flops      float64
}

// frontLU factors the leading fp columns of a rowCount×fn row-major block
// with threshold partial pivoting, swapping rowList alongside the rows.
//
// Pivot rule per column: the column maximum over the uneliminated rows
// sets the scale; the first row reaching PivTol times it wins. Under the
// symmetric strategy the structural diagonal row (diagSRow, S row index
// per pivot column, -1 when absent) is tried first against the relaxed
// DiagTol. A zero column is recorded as dead and skipped; elimination
// continues so the factorization stays usable for diagnostics.
//
// The trailing update past each panel is Trsm+Gemm when the panel
// eliminated cleanly, and a per-pivot rank-1 sweep when dead columns broke
// the unit-lower panel structure.
func (kr *kernels) frontLU(fdat []float64, ld, rowCount, fp, fn int, rowList []int, diagSRow []int) denseResult {
	res := denseResult{minU: math.Inf(1)}
	nb := kr.opts.PanelWidth
	if nb < 1 {
		nb = 1
	}

	var rowPos map[int]int
	if diagSRow != nil {
		rowPos = make(map[int]int, rowCount)
		for i, r := range rowList {
			rowPos[r] = i
		}
	}

	for p0 := 0; p0 < fp; p0 += nb {
		p1 := p0 + nb
		if p1 > fp {
			p1 = fp
		}
		panelStart := res.npiv
		panelDead := false

		for j := p0; j < p1; j++ {
			pr := res.npiv
			colmax := 0.0
			maxRow := -1
			for i := pr; i < rowCount; i++ {
				if v := math.Abs(fdat[i*ld+j]); v > colmax {
					colmax = v
					maxRow = i
				}
			}
			if colmax == 0 {
				res.dead = append(res.dead, j)
				panelDead = true
				continue
			}

			piv := -1
			if diagSRow != nil && diagSRow[j] >= 0 {
				if dp, ok := rowPos[diagSRow[j]]; ok && dp >= pr {
					if math.Abs(fdat[dp*ld+j]) >= kr.opts.DiagTol*colmax {
						piv = dp
					}
				}
			}
			if piv < 0 {
				for i := pr; i < rowCount; i++ {
					if math.Abs(fdat[i*ld+j]) >= kr.opts.PivTol*colmax {
						piv = i
						break
					}
				}
			}
			// A PivTol above 1 rejects every candidate; the column max is
			// always an acceptable pivot.
			if piv < 0 {
				piv = maxRow
			}

			if piv != pr {
				swapRows(fdat, ld, fn, pr, piv)
				if rowPos != nil {
					rowPos[rowList[pr]], rowPos[rowList[piv]] = piv, pr
				}
				rowList[pr], rowList[piv] = rowList[piv], rowList[pr]
			}

			pv := fdat[pr*ld+j]
			if a := math.Abs(pv); a < res.minU {
				res.minU = a
			}
			if a := math.Abs(pv); a > res.maxU {
				res.maxU = a
			}

			// Scale the L column, then eliminate within the panel only; the
			// trailing columns wait for the blocked update.
			for i := pr + 1; i < rowCount; i++ {
				fdat[i*ld+j] /= pv
			}
			for i := pr + 1; i < rowCount; i++ {
				lv := fdat[i*ld+j]
				if lv == 0 {
					continue
				}
				fi := fdat[i*ld:]
				fr := fdat[pr*ld:]
				for q := j + 1; q < p1; q++ {
					fi[q] -= lv * fr[q]
				}
			}
			res.flops += 2 * float64(rowCount-pr) * float64(fn-j)
			res.npiv++
		}

		if p1 >= fn {
			continue
		}
		pj := res.npiv - panelStart
		if pj == 0 {
			continue
		}
		if !panelDead {
			// Pivot rows panelStart..npiv align with columns p0..p1, so the
			// panel's L11 is unit lower and the blocked update applies.
			kr.trsmLowerUnit(fdat[panelStart*ld+p0:], ld, fdat[panelStart*ld+p1:], ld, pj, fn-p1)
			kr.schur(fdat[res.npiv*ld+p1:], ld,
				fdat[res.npiv*ld+p0:], ld,
				fdat[panelStart*ld+p1:], ld,
				rowCount-res.npiv, fn-p1, pj)
			continue
		}
		// Dead columns shifted the pivot rows off the panel diagonal; fall
		// back to one rank-1 update per surviving pivot.
		t := 0
		for j := p0; j < p1; j++ {
			if isDead(res.dead, j) {
				continue
			}
			r := panelStart + t
			kr.gerMinus(fdat[(r+1)*ld+p1:], ld,
				fdat[(r+1)*ld+j:], ld,
				fdat[r*ld+p1:r*ld+fn],
				rowCount-r-1, fn-p1)
			t++
		}
	}

	if res.npiv == 0 {
		res.minU = 0
	}
	return res
}

func swapRows(fdat []float64, ld, width, a, b int) {
	ra := fdat[a*ld : a*ld+width]
	rb := fdat[b*ld : b*ld+width]
	for q := range ra {
		ra[q], rb[q] = rb[q], ra[q]
	}
}

func isDead(dead []int, j int) bool {
	for _, d := range dead {
		if d == j {
			return true
		}
	}
	return false
}
