// Package concurrent provides a bounded worker pool for fanning out
// independent work such as snapshot file loads and per-meeting rescoring.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs submitted functions with a bounded level of parallelism.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a pool running at most workerCount functions at
// once. Non-positive counts fall back to serial execution.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{workerCount: workerCount}
}

// Run executes the functions and returns the first error, cancelling the
// remaining work through the derived context.
func (wp *WorkerPool) Run(ctx context.Context, functions ...func() error) error {
	if len(functions) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}
			return fn()
		})
	}
	return g.Wait()
}

// RunAll executes every function regardless of failures and returns the
// non-nil errors that occurred.
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func() error) []error {
	if len(functions) == 0 {
		return nil
	}

	errCh := make(chan error, len(functions))

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return nil
			default:
			}
			if err := fn(); err != nil {
				errCh <- err
			}
			return nil
		})
	}

	// Errors travel through the channel, so Wait always returns nil and
	// never cancels the remaining functions.
	_ = g.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
