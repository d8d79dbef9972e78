package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/docreview/internal/extract"
)

// Worker runs extraction jobs and applies their results to sessions.
type Worker struct {
	extractor Extractor
	sessions  *Store
	log       *slog.Logger
	retry     RetryPolicy
}

func NewWorker(ex Extractor, sessions *Store, log *slog.Logger, retry RetryPolicy) *Worker {
	return &Worker{
		extractor: ex,
		sessions:  sessions,
		log:       log,
		retry:     retry,
	}
}

// Process extracts one job. Results for a superseded document version are
// dropped.
func (w *Worker) Process(ctx context.Context, job Job) {
	log := w.log.With("session_id", job.SessionID, "seq", job.Seq, "model", job.Model)

	sess := w.sessions.Get(job.SessionID)
	if sess == nil {
		log.Debug("session gone, skipping extraction")
		return
	}
	if !sess.Begin(job.Seq) {
		log.Debug("document replaced before extraction started")
		return
	}

	start := time.Now()
	res, err := w.extract(ctx, log, job)
	if err != nil {
		log.Error("extraction failed", "error", err)
		if !sess.Fail(job.Seq, err.Error()) {
			log.Debug("discarding failure for replaced document")
		}
		return
	}

	if !sess.Complete(job.Seq, res) {
		log.Debug("discarding result for replaced document")
		return
	}
	log.Info("extraction complete",
		"elements", len(res.Elements),
		"dropped", res.Dropped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (w *Worker) extract(ctx context.Context, log *slog.Logger, job Job) (*extract.Result, error) {
	var res *extract.Result
	var lastErr error
	for attempt := range w.retry.MaxAttempts {
		res, lastErr = w.extractor.Extract(ctx, job.Model, job.Filename, job.Data)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		if attempt == w.retry.MaxAttempts-1 {
			break
		}
		log.Warn("retryable extraction error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.retry.Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res, lastErr
}
