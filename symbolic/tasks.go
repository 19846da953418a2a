package symbolic

// minTaskFlops keeps the partitioner from producing tasks too small to
// amortize scheduling overhead.
const minTaskFlops = 1e4

// partitionTasks groups fronts into scheduling units along tree chains.
//
// A task is a run of fronts f..g with Parent[i] == i+1 inside the run, so
// the fronts execute sequentially within the task with no external
// dependency between them. Runs are extended greedily until the
// accumulated flop bound reaches a ceiling derived from the total work and
// the worker target, which keeps the number of schedulable units roughly
// proportional to the available parallelism.
//
// The resulting task tree coarsens the front tree: every front's parent
// task is an ancestor of (or the same as) the front's own task. Dependency
// enforcement is the scheduler's job; this component only records shape.
func (p *Plan) partitionTasks(opts Options) {
	workers := opts.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	var total float64
	for _, fl := range p.FrontFlops {
		total += fl
	}
	ceiling := total / float64(2*workers)
	if ceiling < minTaskFlops {
		ceiling = minTaskFlops
	}

	p.Tasks = p.Tasks[:0]
	p.TaskOf = make([]int, p.Nf)
	for f := 0; f < p.Nf; {
		start := f
		acc := p.FrontFlops[f]
		// A root front has Parent[f] == Nf == f+1 when it closes the front
		// list; the chain must stop before the synthetic root.
		for f+1 < p.Nf && p.Parent[f] == f+1 && acc < ceiling {
			f++
			acc += p.FrontFlops[f]
		}
		t := len(p.Tasks)
		p.Tasks = append(p.Tasks, TaskRange{First: start, Last: f})
		for g := start; g <= f; g++ {
			p.TaskOf[g] = t
		}
		f++
	}

	nt := len(p.Tasks)
	p.TaskParent = make([]int, nt)
	p.TaskChildCount = make([]int, nt)
	for t, tr := range p.Tasks {
		pf := p.Parent[tr.Last]
		if pf == p.Nf {
			p.TaskParent[t] = -1
		} else {
			p.TaskParent[t] = p.TaskOf[pf]
			p.TaskChildCount[p.TaskOf[pf]]++
		}
	}

	// Parent tasks always carry higher indices, so a descending sweep sees
	// parents first.
	p.TaskDepth = make([]int, nt)
	for t := nt - 1; t >= 0; t-- {
		if p.TaskParent[t] == -1 {
			p.TaskDepth[t] = 0
		} else {
			p.TaskDepth[t] = p.TaskDepth[p.TaskParent[t]] + 1
		}
	}
}
