package model

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// runPool evaluates items on a fixed number of workers. Every Interpreter
// is private to the worker that built it; only the read-only program store
// and resolver are shared. Once ctx is cancelled the remaining items are
// reported with the context's error instead of being run.
func runPool(ctx context.Context, workers int, items []*WorkItem, eval func(*WorkItem) Result) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(items))
	queue := make(chan *WorkItem)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for item := range queue {
				log.Trace().Int("worker", id).Str("equation", item.Name).Msg("picked up equation")
				results[item.Index] = eval(item)
			}
		}(w)
	}

	for i, item := range items {
		if ctx.Err() == nil {
			select {
			case queue <- item:
				continue
			case <-ctx.Done():
			}
		}
		for _, skipped := range items[i:] {
			results[skipped.Index] = Result{Name: skipped.Name, Hash: skipped.Hash, Err: ctx.Err()}
		}
		break
	}
	close(queue)
	wg.Wait()
	return results
}
