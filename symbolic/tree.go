package symbolic

import "github.com/katalvlaran/multifront/order"

// Guard rails for symbolic size bounds, checked before any dense block is
// allocated at numeric time.
const (
	// maxFrontElems caps a single front's dense working matrix.
	maxFrontElems = 1 << 28
	// maxTotalElems caps the summed upper bound over all fronts.
	maxTotalElems = 1 << 31
)

// buildTree forms the fronts and the assembly tree over them.
//
// Fronts are maximal runs of consecutive elimination-tree chain columns
// (Parent[j] == j+1) merged under relaxed amalgamation: the run is cut once
// it holds AmalgThreshold pivot columns. Merging chain nodes trades a
// denser front for fewer, larger tasks — the classic overhead/fill
// trade-off, applied only along chains so every front's pivot columns stay
// contiguous.
//
// Per front the builder records conservative bounds: Fm (own leftmost rows
// plus all children's contribution-block bounds) and Cm = Fm − pivots.
// The bounds hold whenever every pivot column eliminates; a front that
// defers dead pivot columns forwards a larger contribution block, which
// numeric assembly sizes from actual counts. Flop bounds per front and per
// subtree feed the task partitioner; they carry no correctness weight.
func (p *Plan) buildTree(ord *order.Ordering, opts Options) error {
	thr := opts.AmalgThreshold
	if thr < 1 {
		thr = 1
	}

	super := []int{0}
	if p.Sn > 0 {
		parent := ord.Parent
		for j := 0; j < p.Sn-1; j++ {
			if parent[j] == j+1 && j+1-super[len(super)-1] < thr {
				continue // extend the current front along the chain
			}
			super = append(super, j+1)
		}
	}
	super = append(super, p.Sn)
	if p.Sn == 0 {
		super = []int{0}
	}
	p.Nf = len(super) - 1
	p.Super = super

	colFront := make([]int, p.Sn)
	for f := 0; f < p.Nf; f++ {
		for j := super[f]; j < super[f+1]; j++ {
			colFront[j] = f
		}
	}

	// Front parents; roots attach to the synthetic node Nf.
	p.Parent = make([]int, p.Nf+1)
	p.Parent[p.Nf] = -1
	for f := 0; f < p.Nf; f++ {
		last := super[f+1] - 1
		if pp := ord.Parent[last]; pp == -1 {
			p.Parent[f] = p.Nf
		} else {
			p.Parent[f] = colFront[pp]
		}
	}

	// Child lists by counting sort, with a bucket for the synthetic root.
	p.Childp = make([]int, p.Nf+2)
	for f := 0; f < p.Nf; f++ {
		p.Childp[p.Parent[f]+1]++
	}
	for f := 0; f < p.Nf+1; f++ {
		p.Childp[f+1] += p.Childp[f]
	}
	p.Child = make([]int, p.Nf)
	next := append([]int(nil), p.Childp[:p.Nf+1]...)
	for f := 0; f < p.Nf; f++ {
		p.Child[next[p.Parent[f]]] = f
		next[p.Parent[f]]++
	}

	// Depth from the synthetic root. Parent[f] > f always, so a descending
	// sweep sees parents before children.
	p.Depth = make([]int, p.Nf)
	for f := p.Nf - 1; f >= 0; f-- {
		if p.Parent[f] == p.Nf {
			p.Depth[f] = 0
		} else {
			p.Depth[f] = p.Depth[p.Parent[f]] + 1
		}
	}

	// Bounds and flop estimates, children first (ascending front index).
	p.Fm = make([]int, p.Nf)
	p.Cm = make([]int, p.Nf)
	p.FrontFlops = make([]float64, p.Nf)
	p.SubtreeFlops = make([]float64, p.Nf)
	cbAcc := make([]int, p.Nf+1)
	subAcc := make([]float64, p.Nf+1)
	var totalElems float64
	for f := 0; f < p.Nf; f++ {
		fp := super[f+1] - super[f]
		own := p.Sleft[super[f+1]] - p.Sleft[super[f]]
		fm := own + cbAcc[f]
		cm := fm - fp
		if cm < 0 {
			cm = 0
		}
		p.Fm[f] = fm
		p.Cm[f] = cm
		cbAcc[p.Parent[f]] += cm

		fnB := fp + (p.Sn - super[f+1]) // all later positions bound the CB columns
		elems := float64(fm) * float64(fnB)
		if elems > maxFrontElems {
			return ErrTooLarge
		}
		totalElems += elems
		if totalElems > maxTotalElems {
			return ErrOutOfMemory
		}
		p.FrontFlops[f] = 2 * elems * float64(fp)
		p.SubtreeFlops[f] = p.FrontFlops[f] + subAcc[f]
		subAcc[p.Parent[f]] += p.SubtreeFlops[f]
	}
	return nil
}
