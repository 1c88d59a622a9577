package usecase

import (
	"context"

	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/identity"
	"ticket-storefront/internal/notify"
	"ticket-storefront/internal/seatgrid"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Catalog CatalogService
	SeatMap SeatMapService
	Booking BookingService

	views       *viewStates
	unsubscribe func()
}

type Deps struct {
	Catalog  *catalog.Catalog
	Layout   *seatgrid.Layout
	Gate     identity.Gate
	Composer *booking.Composer
	Notifier notify.Notifier
}

// NewService wires the storefront services. base bounds the lifetime of
// booking attempts.
func NewService(base context.Context, deps Deps, log *zap.Logger) *Service {
	if deps.Layout == nil {
		deps.Layout = seatgrid.DefaultLayout()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(log)
	}

	views := newViewStates(log)
	svc := &Service{
		Auth:    NewAuthService(deps.Gate, log),
		Catalog: NewCatalogService(deps.Catalog, log),
		SeatMap: NewSeatMapService(deps.Catalog, deps.Layout, views, log),
		Booking: NewBookingService(base, deps.Composer, deps.Notifier, views, log),
		views:   views,
	}

	// signing out takes the visitor's open seat map and pending attempt with it
	svc.unsubscribe = deps.Gate.Subscribe(func(c identity.SessionChange) {
		if c.Kind == identity.SignedOut {
			views.drop(c.Session.ID)
		}
	})

	return svc
}

// Close stops following session changes.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
