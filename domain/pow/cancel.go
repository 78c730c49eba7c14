package pow

import (
	"context"
	"sync/atomic"
)

// CancellationObserver is polled once per search iteration.
type CancellationObserver interface {
	IsCancelled() bool
}

// CancelFlag is a CancellationObserver backed by an atomic flag. The zero
// value is ready to use and not cancelled.
type CancelFlag struct {
	cancelled uint32
}

// Cancel asks every search observing the flag to stop.
func (flag *CancelFlag) Cancel() {
	atomic.StoreUint32(&flag.cancelled, 1)
}

// Reset clears the flag so it can be used for another search.
func (flag *CancelFlag) Reset() {
	atomic.StoreUint32(&flag.cancelled, 0)
}

// IsCancelled returns whether Cancel was called since the last Reset.
func (flag *CancelFlag) IsCancelled() bool {
	return atomic.LoadUint32(&flag.cancelled) != 0
}

type contextObserver struct {
	done <-chan struct{}
}

// ContextObserver reports cancellation once ctx is done.
func ContextObserver(ctx context.Context) CancellationObserver {
	return contextObserver{done: ctx.Done()}
}

func (observer contextObserver) IsCancelled() bool {
	select {
	case <-observer.done:
		return true
	default:
		return false
	}
}

type neverCancelled struct{}

func (neverCancelled) IsCancelled() bool { return false }
