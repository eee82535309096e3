package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
)

// Job represents a work item to be processed
type Job func(ctx context.Context) error

// Pool manages a pool of workers for parallel processing
type Pool struct {
	jobs       chan Job
	maxWorkers int
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	ctx        context.Context
	cancel     context.CancelFunc
	logger     arbor.ILogger
}

// NewPool creates a new worker pool
func NewPool(maxWorkers int, logger arbor.ILogger) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		jobs:       make(chan Job, maxWorkers*2),
		maxWorkers: maxWorkers,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Start begins the worker pool
func (p *Pool) Start() {
	p.logger.Info().
		Int("max_workers", p.maxWorkers).
		Msg("Starting worker pool")

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit adds a job to the pool. Blocks when the queue is full so
// intake backpressure reaches the HTTP layer instead of growing an
// unbounded backlog. The read lock spans the send so Shutdown cannot
// close the queue under an in-flight submit.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("worker pool is shutting down")
	}

	select {
	case p.jobs <- job:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Shutdown stops accepting work, drains every queued job and waits
// for workers to finish. Accepted jobs always run to completion, so
// no record is stranded in a pending state.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	p.cancel()
	p.logger.Info().Msg("Worker pool shutdown complete")
}

// worker processes jobs from the queue. Job outcomes land in the job
// store, not in the pool: a failed analysis is a terminal job state,
// not a pool error.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug().
		Int("worker_id", id).
		Msg("Worker started")

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				p.logger.Debug().
					Int("worker_id", id).
					Msg("Worker stopping - job queue closed")
				return
			}

			if err := job(p.ctx); err != nil {
				p.logger.Error().
					Err(err).
					Int("worker_id", id).
					Msg("Job failed")
			}

		case <-p.ctx.Done():
			p.logger.Debug().
				Int("worker_id", id).
				Msg("Worker stopping - context cancelled")
			return
		}
	}
}
