package usecase

import (
	"context"

	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/dto/response"
	"ticket-storefront/internal/identity"
	"ticket-storefront/internal/seatgrid"

	"go.uber.org/zap"
)

type SeatMapService interface {
	Open(ctx context.Context, session *identity.Session, eventID string) (*response.SeatMapResponse, error)
	Current(ctx context.Context, session *identity.Session) (*response.SeatMapResponse, error)
	Toggle(ctx context.Context, session *identity.Session, seat string) (*response.SelectionResponse, error)
	Close(ctx context.Context, session *identity.Session) error
	Proceed(ctx context.Context, session *identity.Session) (*response.BookingSummaryResponse, error)
}

type seatMapService struct {
	catalog *catalog.Catalog
	layout  *seatgrid.Layout
	views   *viewStates
	log     *zap.Logger
}

func NewSeatMapService(cat *catalog.Catalog, layout *seatgrid.Layout, views *viewStates, log *zap.Logger) SeatMapService {
	return &seatMapService{
		catalog: cat,
		layout:  layout,
		views:   views,
		log:     log.With(zap.String("service", "seat_map")),
	}
}

// Open shows the seat map for an event with an empty selection. Whatever was
// open before, including a pending submission, is abandoned.
func (s *seatMapService) Open(_ context.Context, session *identity.Session, eventID string) (*response.SeatMapResponse, error) {
	event, ok := s.catalog.Find(eventID)
	if !ok {
		return nil, ErrEventNotFound
	}

	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closeSeatMap()
	v.event = &event
	// the listener runs inside Toggle, which callers invoke with v.mu held
	v.grid = seatgrid.New(s.layout, seatgrid.WithSelectionListener(func(sel []seatgrid.SeatID) {
		v.total = booking.Total(event.Price, len(sel))
		s.log.Debug("Selection changed",
			zap.String("session_id", session.ID.String()),
			zap.String("event_id", event.ID),
			zap.Int("selected", len(sel)),
			zap.Float64("total_price", v.total),
		)
	}))

	s.log.Info("Seat map opened",
		zap.String("session_id", session.ID.String()),
		zap.String("event_id", event.ID),
	)

	resp := response.SeatMapToResponse(event, v.grid, v.total)
	return &resp, nil
}

func (s *seatMapService) Current(_ context.Context, session *identity.Session) (*response.SeatMapResponse, error) {
	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.grid == nil {
		return nil, ErrNoSeatMap
	}
	resp := response.SeatMapToResponse(*v.event, v.grid, v.total)
	return &resp, nil
}

// Toggle flips one seat. Unavailable seats are accepted and left unchanged.
func (s *seatMapService) Toggle(_ context.Context, session *identity.Session, seat string) (*response.SelectionResponse, error) {
	id, err := seatgrid.ParseSeatID(s.layout, seat)
	if err != nil {
		return nil, err
	}

	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.grid == nil {
		return nil, ErrNoSeatMap
	}
	v.grid.Toggle(id)

	resp := response.SelectionToResponse(v.grid, id, v.total)
	return &resp, nil
}

func (s *seatMapService) Close(_ context.Context, session *identity.Session) error {
	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.grid == nil {
		return ErrNoSeatMap
	}
	v.closeSeatMap()

	s.log.Info("Seat map closed", zap.String("session_id", session.ID.String()))
	return nil
}

// Proceed moves on to the booking form. An empty selection is rejected before
// anything changes.
func (s *seatMapService) Proceed(_ context.Context, session *identity.Session) (*response.BookingSummaryResponse, error) {
	v := s.views.get(session)
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.grid == nil {
		return nil, ErrNoSeatMap
	}

	selected := v.grid.Selected()
	if !booking.CanProceed(selected) {
		return nil, booking.ErrNoSeatsSelected
	}

	resp := response.SummaryToResponse(*v.event, selected)
	return &resp, nil
}
