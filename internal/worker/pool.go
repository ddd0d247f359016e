// Package worker provides the bounded-concurrency primitives used for
// per-claim fact-check fan-out and batch input processing.
package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool manages a fixed set of workers that execute jobs concurrently.
// Workers append results to a collector rather than a channel, so result
// delivery never blocks job consumption and Submit cannot deadlock.
// Cancelling the context passed to NewPool cancels all in-flight and
// queued jobs.
type Pool struct {
	workers    int
	jobQueue   chan Job
	collector  *resultCollector
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewPool creates a worker pool whose lifetime is bound to ctx.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		collector:  newResultCollector(),
		ctx:        poolCtx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.collector.Add(job.Execute(p.ctx))
		}
	}
}

// Submit submits a job to the pool for execution. It blocks while the
// queue is full and gives up when the pool context is cancelled.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Wait waits for all submitted jobs to complete and returns their results
// in completion order. Callers that need input order should carry an index
// in the job and reassemble.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	return p.collector.Results()
}

// Shutdown cancels all work and waits for the workers to exit.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}

// resultCollector accumulates results from concurrent workers.
type resultCollector struct {
	results []Result
	mu      sync.Mutex
}

func newResultCollector() *resultCollector {
	return &resultCollector{results: make([]Result, 0)}
}

// Add appends a result (thread-safe).
func (c *resultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns all collected results.
func (c *resultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
