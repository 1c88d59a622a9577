package booking

import (
	"context"
	"sync"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Snapshot is a point-in-time view of an Attempt.
type Snapshot struct {
	Token     string
	Status    Status
	Booking   *Booking
	Err       error
	StartedAt time.Time
}

// Attempt is one in-flight submission, keyed by its token. It runs in its own
// goroutine until the compose func returns or the attempt is cancelled.
type Attempt struct {
	token     string
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}

	mu              sync.Mutex
	status          Status
	booking         *Booking
	err             error
	cancelRequested bool
}

// Start runs compose under a context derived from parent. onSettle, if set,
// is called once after the attempt leaves the pending state.
func Start(parent context.Context, token string, compose func(ctx context.Context) (Booking, error), onSettle func(*Attempt)) *Attempt {
	ctx, cancel := context.WithCancel(parent)
	a := &Attempt{
		token:     token,
		startedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
		status:    StatusPending,
	}

	go func() {
		defer cancel()
		b, err := compose(ctx)
		a.settle(b, err)
		close(a.done)
		if onSettle != nil {
			onSettle(a)
		}
	}()

	return a
}

func (a *Attempt) Token() string { return a.token }

func (a *Attempt) Done() <-chan struct{} { return a.done }

// Cancel stops a pending attempt. A booking that races the cancellation is
// discarded.
func (a *Attempt) Cancel() {
	a.mu.Lock()
	if a.status == StatusPending {
		a.cancelRequested = true
	}
	a.mu.Unlock()
	a.cancel()
}

func (a *Attempt) settle(b Booking, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.cancelRequested:
		a.status = StatusCancelled
		a.err = &Error{Kind: KindCancelled, Message: "booking submission was cancelled"}
	case err == nil:
		a.status = StatusConfirmed
		a.booking = &b
	default:
		a.err = err
		a.status = StatusFailed
		if be, ok := AsError(err); ok && be.Kind == KindCancelled {
			a.status = StatusCancelled
		}
	}
}

func (a *Attempt) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Token:     a.token,
		Status:    a.status,
		Booking:   a.booking,
		Err:       a.err,
		StartedAt: a.startedAt,
	}
}

// Wait blocks until the attempt settles or ctx is done.
func (a *Attempt) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-a.done:
		return a.Snapshot(), nil
	case <-ctx.Done():
		return a.Snapshot(), ctx.Err()
	}
}
