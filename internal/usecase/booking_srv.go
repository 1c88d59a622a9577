package usecase

import (
	"context"
	"time"

	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/dto/request"
	"ticket-storefront/internal/dto/response"
	"ticket-storefront/internal/identity"
	"ticket-storefront/internal/notify"
	"ticket-storefront/pkg/utils"

	"go.uber.org/zap"
)

const notifyTimeout = 5 * time.Second

type BookingService interface {
	Submit(ctx context.Context, session *identity.Session, req *request.CheckoutRequest) (*response.AttemptResponse, error)
	GetAttempt(ctx context.Context, session *identity.Session, token string) (*response.AttemptResponse, error)
	CancelAttempt(ctx context.Context, session *identity.Session, token string) (*response.AttemptResponse, error)
	Ticket(ctx context.Context, session *identity.Session) (*response.TicketResponse, error)
	ClearTicket(ctx context.Context, session *identity.Session) error
}

type bookingService struct {
	base     context.Context
	composer *booking.Composer
	notifier notify.Notifier
	views    *viewStates
	log      *zap.Logger
}

// NewBookingService runs every attempt under base; cancelling base cancels
// all pending submissions.
func NewBookingService(base context.Context, composer *booking.Composer, notifier notify.Notifier, views *viewStates, log *zap.Logger) BookingService {
	return &bookingService{
		base:     base,
		composer: composer,
		notifier: notifier,
		views:    views,
		log:      log.With(zap.String("service", "booking")),
	}
}

// Submit starts a booking for the open seat map and returns at once with the
// attempt token. The attempt resolves after the confirmation delay.
func (s *bookingService) Submit(_ context.Context, session *identity.Session, req *request.CheckoutRequest) (*response.AttemptResponse, error) {
	if errs := req.Validate(); errs != nil {
		s.log.Warn("Checkout validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Message: "Please fill in all required fields", Fields: errs}
	}

	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.grid == nil {
		return nil, ErrNoSeatMap
	}
	if v.pending() {
		return nil, ErrSubmissionInProgress
	}

	selected := v.grid.Selected()
	if !booking.CanProceed(selected) {
		return nil, booking.ErrNoSeatsSelected
	}

	bookingReq := booking.Request{
		Event:  *v.event,
		Layout: v.grid.Layout(),
		Seats:  selected,
		Form:   req.Form,
	}
	token := utils.GenerateAttemptToken()

	// v.mu is held until current is set, so onSettle cannot observe the
	// attempt before it is registered.
	a := booking.Start(s.base, token, func(ctx context.Context) (booking.Booking, error) {
		return s.composer.Run(ctx, bookingReq)
	}, func(a *booking.Attempt) {
		s.settle(session, v, a)
	})

	v.current = a
	if v.attempts == nil {
		v.attempts = make(map[string]*booking.Attempt)
	}
	v.attempts[token] = a

	s.log.Info("Booking submitted",
		zap.String("session_id", session.ID.String()),
		zap.String("attempt", token),
		zap.String("event_id", bookingReq.Event.ID),
		zap.Int("seats", len(selected)),
	)

	resp := response.AttemptToResponse(a.Snapshot())
	return &resp, nil
}

// settle applies a resolved attempt to the view. Resolutions for attempts the
// view has moved on from are dropped.
func (s *bookingService) settle(session *identity.Session, v *viewState, a *booking.Attempt) {
	snap := a.Snapshot()

	v.mu.Lock()
	if v.current != a {
		v.mu.Unlock()
		s.log.Info("Dropping stale booking resolution",
			zap.String("attempt", snap.Token),
			zap.String("status", string(snap.Status)),
		)
		return
	}
	v.current = nil

	if snap.Status != booking.StatusConfirmed {
		v.mu.Unlock()
		fields := []zap.Field{
			zap.String("attempt", snap.Token),
			zap.String("status", string(snap.Status)),
			zap.Error(snap.Err),
		}
		if be, ok := booking.AsError(snap.Err); ok {
			fields = append(fields, zap.String("kind", string(be.Kind)), zap.Bool("recoverable", be.Recoverable()))
		}
		s.log.Warn("Booking failed", fields...)
		return
	}

	b := *snap.Booking
	v.ticket = &b
	v.event = nil
	v.grid = nil
	v.total = 0
	v.mu.Unlock()

	s.log.Info("Booking confirmed",
		zap.String("session_id", session.ID.String()),
		zap.String("booking_id", b.ID),
		zap.Float64("total_price", b.TotalPrice),
	)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.base), notifyTimeout)
	defer cancel()
	if err := s.notifier.BookingConfirmed(ctx, notify.NewBookingConfirmedEvent(b)); err != nil {
		s.log.Error("Failed to publish booking confirmation",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

func (s *bookingService) GetAttempt(_ context.Context, session *identity.Session, token string) (*response.AttemptResponse, error) {
	a, err := s.lookup(session, token)
	if err != nil {
		return nil, err
	}
	resp := response.AttemptToResponse(a.Snapshot())
	return &resp, nil
}

// CancelAttempt abandons a submission. A booking that resolves afterwards is
// never shown.
func (s *bookingService) CancelAttempt(ctx context.Context, session *identity.Session, token string) (*response.AttemptResponse, error) {
	v := s.views.get(session)

	v.mu.Lock()
	a, ok := v.attempts[token]
	if !ok {
		v.mu.Unlock()
		return nil, ErrAttemptNotFound
	}
	if v.current == a {
		v.cancelCurrent()
	}
	v.mu.Unlock()

	snap, err := a.Wait(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking attempt cancelled",
		zap.String("attempt", token),
		zap.String("status", string(snap.Status)),
	)

	resp := response.AttemptToResponse(snap)
	return &resp, nil
}

func (s *bookingService) Ticket(_ context.Context, session *identity.Session) (*response.TicketResponse, error) {
	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ticket == nil {
		return nil, ErrNoTicket
	}
	resp := response.TicketToResponse(*v.ticket)
	return &resp, nil
}

// ClearTicket returns the visitor to the catalog to book more tickets.
func (s *bookingService) ClearTicket(_ context.Context, session *identity.Session) error {
	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ticket == nil {
		return ErrNoTicket
	}
	v.ticket = nil
	return nil
}

func (s *bookingService) lookup(session *identity.Session, token string) (*booking.Attempt, error) {
	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	a, ok := v.attempts[token]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return a, nil
}
