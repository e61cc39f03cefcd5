package analyzer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const defaultWorkerCount = 7

// WorkerPool bounds how many flush tasks run at once.
// Its size is fixed at construction and does not depend on batch size.
type WorkerPool struct {
	size int
}

// NewWorkerPool creates a pool running at most size tasks concurrently.
// A non-positive size falls back to one worker per dimension.
func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = defaultWorkerCount
	}
	return &WorkerPool{size: size}
}

// Size returns the concurrency limit.
func (p *WorkerPool) Size() int {
	return p.size
}

// Run executes every task and blocks until all of them have returned.
// The first failure cancels the context handed to tasks still running and
// is returned once the barrier completes.
func (p *WorkerPool) Run(ctx context.Context, tasks []func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}

	return g.Wait()
}
