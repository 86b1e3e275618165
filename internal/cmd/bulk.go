package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult represents the outcome of a single bulk operation
type BulkResult struct {
	ID      int
	Success bool
	Error   error
	Data    any
}

// runBulkOperation executes operations concurrently with bounded parallelism.
// Results come back in the order of ids; a cancelled context leaves the
// remaining entries failed with the context error.
func runBulkOperation[T any](
	ctx context.Context,
	ids []int,
	concurrency int64,
	progress bool,
	errOut io.Writer,
	operation func(ctx context.Context, id int) (T, error),
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if errOut == nil {
		errOut = io.Discard
	}

	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	results := make([]BulkResult, len(ids))
	total := len(ids)
	var done int64

	g, gctx := errgroup.WithContext(ctx)

	for i, id := range ids {
		i, id := i, id // per-iteration copies (go directive < 1.22)
		results[i] = BulkResult{ID: id}
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i].Error = err
				return nil
			}
			defer sem.Release(1)

			if err := gctx.Err(); err != nil {
				results[i].Error = err
				return nil
			}

			data, err := operation(gctx, id)
			if err != nil {
				results[i].Error = err
			} else {
				results[i].Success = true
				results[i].Data = data
			}

			if progress && total > 0 {
				current := atomic.AddInt64(&done, 1)
				mu.Lock()
				_, _ = fmt.Fprintf(errOut, "\rFetched %d/%d", current, total)
				mu.Unlock()
			}

			// Individual failures are reported per result.
			return nil
		})
	}

	_ = g.Wait()

	if progress && total > 0 {
		_, _ = fmt.Fprintf(errOut, "\rFetched %d/%d\n", atomic.LoadInt64(&done), total)
	}

	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}
