package session

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/docreview/internal/extract"
)

// IsRetryable checks if an extraction error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *extract.RetryableError
	return errors.As(err, &retryErr)
}

// RetryPolicy bounds extraction retries for transient service failures.
type RetryPolicy struct {
	MaxAttempts int
	Base        time.Duration
	Cap         time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Base: time.Second, Cap: 30 * time.Second}
}

// Backoff returns a duration for attempt n (0-indexed) with up to 50%
// jitter on top of the exponential base.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	base := p.Base << uint(attempt)
	if base <= 0 || base > p.Cap {
		base = p.Cap
	}
	if base <= 1 {
		return base
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
