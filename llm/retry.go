package llm

import (
	"math/rand/v2"
	"time"
)

// RetryConfig controls how transient failures against one endpoint are
// retried before the client falls through to the next endpoint.
type RetryConfig struct {
	// MaxAttempts bounds attempts per endpoint.
	MaxAttempts int

	// BackoffBase is the delay before the second attempt.
	BackoffBase time.Duration

	// BackoffMultiplier grows the delay on each further attempt.
	BackoffMultiplier float64

	// MaxBackoff caps the grown delay.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns the retry settings used when the caller does
// not override them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       2 * time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        30 * time.Second,
	}
}

// Backoff returns the delay before retry attempt n, exponential with
// +/- 25% jitter so synchronized clients spread their retries apart.
func (rc RetryConfig) Backoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= rc.BackoffMultiplier
	}

	backoff := time.Duration(float64(rc.BackoffBase) * multiplier)
	if backoff > rc.MaxBackoff {
		backoff = rc.MaxBackoff
	}

	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}
