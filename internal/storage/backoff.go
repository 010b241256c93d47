package storage

import (
	"math/rand/v2"
	"time"
)

// Backoff controls reconnection scheduling while the Facade is degraded.
// Attempt n waits min(MaxDelay, BaseDelay*2^n) plus up to Jitter of that
// delay at random.
type Backoff struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
	Jitter      float64
}

func DefaultBackoff() Backoff {
	return Backoff{
		BaseDelay:   time.Second,
		MaxDelay:    time.Minute,
		MaxAttempts: 10,
		Jitter:      0.3,
	}
}

func (b Backoff) withDefaults() Backoff {
	d := DefaultBackoff()
	if b.BaseDelay <= 0 {
		b.BaseDelay = d.BaseDelay
	}
	if b.MaxDelay <= 0 {
		b.MaxDelay = d.MaxDelay
	}
	if b.MaxDelay < b.BaseDelay {
		b.MaxDelay = b.BaseDelay
	}
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = d.MaxAttempts
	}
	if b.Jitter < 0 {
		b.Jitter = 0
	}
	return b
}

// Delay returns the wait before the given zero-based attempt. rnd must return
// a value in [0,1); nil disables jitter.
func (b Backoff) Delay(attempt int, rnd func() float64) time.Duration {
	d := b.BaseDelay
	for i := 0; i < attempt && d < b.MaxDelay; i++ {
		d *= 2
	}
	if d > b.MaxDelay {
		d = b.MaxDelay
	}
	if rnd != nil && b.Jitter > 0 {
		d += time.Duration(float64(d) * b.Jitter * rnd())
	}
	return d
}

func defaultJitterSource() float64 {
	return rand.Float64()
}
