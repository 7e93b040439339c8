package connection

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy decides how long to wait before reconnection attempt n.
// attempt starts at 1 after each close of an open connection and keeps
// counting across failed dials.
type Policy interface {
	NextDelay(attempt int) time.Duration
}

// FixedDelay waits the same duration before every attempt, with no cap on
// the number of attempts.
type FixedDelay time.Duration

// NextDelay implements Policy.
func (d FixedDelay) NextDelay(int) time.Duration {
	return time.Duration(d)
}

// ExponentialDelay grows the delay geometrically up to a maximum.
// It is not safe for concurrent use; the manager only calls it from its loop.
type ExponentialDelay struct {
	b *backoff.ExponentialBackOff
}

// NewExponentialDelay creates an exponential policy starting at base and
// capped at max. jitter is the randomization factor (0 = deterministic).
func NewExponentialDelay(base, max time.Duration, jitter float64) *ExponentialDelay {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.MaxInterval = max
	b.Multiplier = 2
	b.RandomizationFactor = jitter
	b.Reset()
	return &ExponentialDelay{b: b}
}

// NextDelay implements Policy.
func (e *ExponentialDelay) NextDelay(attempt int) time.Duration {
	if attempt <= 1 {
		e.b.Reset()
	}
	return e.b.NextBackOff()
}
