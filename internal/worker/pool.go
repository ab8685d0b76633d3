// Package worker runs batches of independent jobs (FAQ fetches, entry
// extractions) over a fixed-size goroutine pool. Entries are
// independent units of work; ordering only matters inside an entry,
// which each job handles sequentially on its own.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed on the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	Err() error
}

// Pool executes submitted jobs on a fixed number of workers.
type Pool struct {
	workers int
	jobs    chan Job

	mu      sync.Mutex
	results []Result
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given worker count (minimum 1).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
	}
}

// Run starts the workers, feeds them every job, and returns the
// collected results once all jobs finished or the context was
// canceled. Result order is completion order, not submission order.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}

	for _, job := range jobs {
		select {
		case <-ctx.Done():
		case p.jobs <- job:
			continue
		}
		break
	}
	close(p.jobs)

	p.wg.Wait()
	return p.results
}

func (p *Pool) work(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			res := job.Execute(ctx)
			p.mu.Lock()
			p.results = append(p.results, res)
			p.mu.Unlock()
		}
	}
}
