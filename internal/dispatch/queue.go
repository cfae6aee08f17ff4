// Package dispatch runs shell-triggered commands on a bounded worker,
// replacing the original's unbounded thread-per-click model. One worker
// with a one-slot buffer means at most one command runs while one more
// waits; further submissions are rejected with ErrBusy.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"imgvault/pkg/core"
	"imgvault/pkg/logger"
)

// ErrBusy is returned when a command is submitted while the queue is full.
var ErrBusy = errors.New("a command is already in flight")

// ErrClosed is returned when submitting to a stopped queue.
var ErrClosed = errors.New("command queue is shut down")

// Job is one command to execute.
type Job struct {
	Command string
	Payload string
}

// Result is the outcome of one executed job.
type Result struct {
	Job      Job
	Output   string
	Duration time.Duration
}

// Queue owns the worker goroutine and the job/result channels.
type Queue struct {
	core    *core.Core
	jobs    chan Job
	results chan Result
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewQueue creates a queue over the dispatcher core.
func NewQueue(c *core.Core, log logger.Logger) *Queue {
	if log == nil {
		log = logger.GetLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		core:    c,
		jobs:    make(chan Job, 1),
		results: make(chan Result, 1),
		ctx:     ctx,
		cancel:  cancel,
		logger:  log,
	}
}

// Start launches the worker.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.worker()
}

// Stop drains the queue and shuts the worker down.
func (q *Queue) Stop() {
	close(q.jobs)
	q.wg.Wait()
	close(q.results)
	q.cancel()
}

// TrySubmit enqueues a job without blocking. A full queue reports ErrBusy
// so the caller can surface a busy status instead of piling up runs.
func (q *Queue) TrySubmit(job Job) error {
	select {
	case <-q.ctx.Done():
		return ErrClosed
	default:
	}

	select {
	case q.jobs <- job:
		q.logger.WithFields(map[string]interface{}{
			"command": job.Command,
		}).Debug("job submitted")
		return nil
	default:
		return ErrBusy
	}
}

// Results returns the channel of completed jobs.
func (q *Queue) Results() <-chan Result {
	return q.results
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for job := range q.jobs {
		start := time.Now()
		output := q.core.Execute(q.ctx, job.Command, job.Payload)

		result := Result{
			Job:      job,
			Output:   output,
			Duration: time.Since(start),
		}

		select {
		case q.results <- result:
		case <-q.ctx.Done():
			return
		}
	}
}
