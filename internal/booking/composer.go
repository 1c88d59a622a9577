package booking

import (
	"context"
	"fmt"
	"time"

	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/seatgrid"
	"ticket-storefront/pkg/utils"
)

// Request is one booking submission: the open event, the current selection
// on its seat map and the filled-in form.
type Request struct {
	Event  catalog.Event
	Layout *seatgrid.Layout
	Seats  []seatgrid.SeatID
	Form   Form
}

// Composer turns a submission into a Booking after a simulated confirmation
// delay.
type Composer struct {
	delay   time.Duration
	timeout time.Duration
	gateway PaymentGateway
	ids     *IDGenerator
	now     func() time.Time
}

type Option func(*Composer)

func WithIDGenerator(ids *IDGenerator) Option {
	return func(c *Composer) { c.ids = ids }
}

func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// NewComposer builds a composer. A zero timeout disables the submission
// deadline; a nil gateway approves everything.
func NewComposer(delay, timeout time.Duration, gateway PaymentGateway, opts ...Option) *Composer {
	if gateway == nil {
		gateway = NewSimulatedGateway(nil)
	}
	c := &Composer{
		delay:   delay,
		timeout: timeout,
		gateway: gateway,
		ids:     processIDs,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Composer) Delay() time.Duration { return c.delay }

// Compose checks the selection and form, then runs the submission.
func (c *Composer) Compose(ctx context.Context, req Request) (Booking, error) {
	if !CanProceed(req.Seats) {
		return Booking{}, ErrNoSeatsSelected
	}
	if errs := req.Form.Validate(); errs != nil {
		return Booking{}, fmt.Errorf("%w: %s", ErrInvalidForm, utils.FormatValidationErrors(errs))
	}
	return c.Run(ctx, req)
}

// Run blocks for the confirmation delay and returns the booking. The caller
// has already rejected an empty selection and an incomplete form; seats are
// still checked against the layout. ctx cancellation yields a KindCancelled
// error, the submission deadline a KindTimeout one.
func (c *Composer) Run(ctx context.Context, req Request) (Booking, error) {
	seats, err := checkSeats(req.Layout, req.Seats)
	if err != nil {
		return Booking{}, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Booking{}, fromContext(ctx.Err())
	case <-timer.C:
	}

	total := Total(req.Event.Price, len(seats))
	id := c.ids.Next()

	if err := c.gateway.Authorize(ctx, Charge{
		Reference:  id,
		CardNumber: req.Form.CardNumber,
		Amount:     total,
	}); err != nil {
		if _, ok := AsError(err); ok {
			return Booking{}, err
		}
		return Booking{}, fmt.Errorf("authorize payment: %w", fromContext(err))
	}

	now := c.now()
	return Booking{
		ID:          id,
		Event:       req.Event,
		Seats:       seats,
		TotalPrice:  total,
		BookingDate: now.Format(DateLayout),
		CreatedAt:   now,
		HolderName:  req.Form.Name,
		HolderEmail: req.Form.Email,
	}, nil
}

// checkSeats copies the selection, rejecting seats that cannot be booked.
func checkSeats(layout *seatgrid.Layout, seats []seatgrid.SeatID) ([]seatgrid.SeatID, error) {
	if layout == nil {
		layout = seatgrid.DefaultLayout()
	}

	out := make([]seatgrid.SeatID, 0, len(seats))
	seen := make(map[seatgrid.SeatID]struct{}, len(seats))
	for _, id := range seats {
		if !layout.Contains(id) || layout.IsUnavailable(id) {
			return nil, &Error{Kind: KindSeatConflict, Message: fmt.Sprintf("seat %s is not available", id)}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
