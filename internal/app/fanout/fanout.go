// Package fanout runs a function over a batch of items on a fixed pool of
// workers and returns the outcomes in input order.
package fanout

import (
	"context"
	"sync"
)

// Result is the outcome for one item: Value on success, Err otherwise.
type Result[R any] struct {
	Value R
	Err   error
}

// Run applies fn to every item using at most workers goroutines. Items not
// yet started when ctx is done get ctx.Err() and fn is not called for them;
// items already running finish normally. workers below 1 is treated as 1.
func Run[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	workers = min(max(workers, 1), len(items))

	next := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range next {
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				v, err := fn(ctx, items[i])
				results[i] = Result[R]{Value: v, Err: err}
			}
		})
	}

	for i := range items {
		next <- i
	}
	close(next)
	wg.Wait()

	return results
}
