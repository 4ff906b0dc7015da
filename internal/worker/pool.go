package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution.
type Result interface {
	GetError() error
}

// Pool executes jobs with a bounded number of workers. The context given
// to Start flows into every job; cancelling it stops the pool from
// dispatching further jobs while in-flight jobs run to completion.
// Results are drained continuously, so workers never stall on result
// delivery and Submit stays unblocked for batches of any size.
type Pool struct {
	workers  int
	jobQueue chan Job
	results  chan Result
	wg       sync.WaitGroup

	mu        sync.Mutex
	collected []Result
	drained   chan struct{}
	closeOnce sync.Once
}

// NewPool creates a worker pool with the specified number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
		drained:  make(chan struct{}),
	}
}

// Start launches the workers and the result collector.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	go p.collect()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(ctx)
			select {
			case p.results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

// collect drains the results channel for the lifetime of the pool so
// that workers never block handing off a result.
func (p *Pool) collect() {
	for result := range p.results {
		p.mu.Lock()
		p.collected = append(p.collected, result)
		p.mu.Unlock()
	}
	close(p.drained)
}

// Submit queues a job for execution. Submissions after cancellation are
// dropped.
func (p *Pool) Submit(ctx context.Context, job Job) {
	select {
	case <-ctx.Done():
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it, and returns
// every collected result. Order follows completion, not submission.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.drained

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collected
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
