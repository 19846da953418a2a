package numeric

import (
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/multifront/symbolic"
)

// runTasks executes the plan's task forest bottom-up on a bounded worker
// pool. Leaf tasks start ready; a task becomes ready exactly when its last
// child finishes, with the ready channel's send/receive providing the
// happens-before edge between a child's writes and the parent's reads.
//
// The first task error latches; remaining tasks drain unrun so completed
// fronts stay available to the caller.
func runTasks(plan *symbolic.Plan, workers int, run func(task int) error) error {
	nt := plan.NumTasks()
	if nt == 0 {
		return nil
	}
	if workers > nt {
		workers = nt
	}

	childLeft := make([]atomic.Int32, nt)
	for t := 0; t < nt; t++ {
		childLeft[t].Store(int32(plan.TaskChildCount[t]))
	}
	ready := make(chan int, nt)
	for t := 0; t < nt; t++ {
		if plan.TaskChildCount[t] == 0 {
			ready <- t
		}
	}

	var (
		remaining atomic.Int64
		failed    atomic.Bool
		errOnce   sync.Once
		firstErr  error
		wg        sync.WaitGroup
	)
	remaining.Store(int64(nt))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range ready {
				if !failed.Load() {
					if err := run(t); err != nil {
						errOnce.Do(func() { firstErr = err })
						failed.Store(true)
					}
				}
				if par := plan.TaskParent[t]; par >= 0 {
					if childLeft[par].Add(-1) == 0 {
						ready <- par
					}
				}
				if remaining.Add(-1) == 0 {
					close(ready)
				}
			}
		}()
	}
	wg.Wait()
	return firstErr
}
