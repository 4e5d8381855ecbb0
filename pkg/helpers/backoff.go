package helpers

import (
	"context"
	"time"
)

// Backoff doubles the delay on each consecutive failure, capped at Max.
// Reset returns it to Base after a success.
type Backoff struct {
	Base time.Duration
	Max  time.Duration

	next time.Duration
}

func NewBackoff(base, max time.Duration) *Backoff {
	return &Backoff{Base: base, Max: max}
}

// Next returns the delay for this failure and advances the sequence.
func (b *Backoff) Next() time.Duration {
	if b.next <= 0 {
		b.next = b.Base
	}
	d := b.next
	b.next *= 2
	if b.next > b.Max {
		b.next = b.Max
	}
	if d > b.Max {
		d = b.Max
	}
	return d
}

func (b *Backoff) Reset() { b.next = 0 }

// Wait sleeps for Next() or until ctx is done, returning ctx.Err() in that case.
func (b *Backoff) Wait(ctx context.Context) error {
	t := time.NewTimer(b.Next())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
