package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docreview/internal/extract"
)

var ErrQueueFull = errors.New("extraction queue is full")

// Extractor runs a document through the remote extraction service.
type Extractor interface {
	Extract(ctx context.Context, model, filename string, data []byte) (*extract.Result, error)
}

// Options configure the extraction worker pool.
type Options struct {
	Workers         int
	QueueSize       int
	CleanupInterval time.Duration
	Retry           RetryPolicy
}

// Orchestrator runs extraction jobs for sessions on a bounded worker pool.
type Orchestrator struct {
	sessions  *Store
	queue     chan Job
	extractor Extractor
	log       *slog.Logger
	opts      Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(opts Options, ex Extractor, sessions *Store, log *slog.Logger) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	return &Orchestrator{
		sessions:  sessions,
		queue:     make(chan Job, opts.QueueSize),
		extractor: ex,
		log:       log,
		opts:      opts,
	}
}

// Start launches worker goroutines and the session janitor.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.opts.Workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.extractor, o.sessions, o.log, o.opts.Retry)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.opts.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.sessions.Cleanup(); n > 0 {
					o.log.Info("expired sessions removed", "count", n)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pool. Submit must not be called after.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues an extraction job. A full queue fails the job's session.
func (o *Orchestrator) Submit(job Job) error {
	select {
	case o.queue <- job:
		return nil
	default:
		if sess := o.sessions.Get(job.SessionID); sess != nil {
			sess.Fail(job.Seq, ErrQueueFull.Error())
		}
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.opts.QueueSize)
	}
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Sessions returns the session registry served by this orchestrator.
func (o *Orchestrator) Sessions() *Store {
	return o.sessions
}
