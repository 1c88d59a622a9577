package booking

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	KindPaymentDeclined Kind = "payment_declined"
	KindSeatConflict    Kind = "seat_conflict"
	KindTimeout         Kind = "submission_timeout"
	KindCancelled       Kind = "submission_cancelled"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrPaymentDeclined = &Error{Kind: KindPaymentDeclined}
	ErrSeatConflict    = &Error{Kind: KindSeatConflict}
	ErrTimeout         = &Error{Kind: KindTimeout}
	ErrCancelled       = &Error{Kind: KindCancelled}
)

// Error is a failed submission. Every kind but cancellation can be retried
// from the same form.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Recoverable() bool {
	return e.Kind != KindCancelled
}

// AsError extracts the submission failure from err, if any.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func fromContext(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Message: "booking submission timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindCancelled, Message: "booking submission was cancelled", Err: err}
	default:
		return err
	}
}
