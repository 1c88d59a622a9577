package adaptor

import (
	"net/http"

	"ticket-storefront/internal/identity"
	"ticket-storefront/internal/usecase"
	"ticket-storefront/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Event   *EventHandler
	SeatMap *SeatMapHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Event:   NewEventHandler(service.Catalog, log),
		SeatMap: NewSeatMapHandler(service.SeatMap, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}

// sessionFrom returns the session the auth middleware resolved. Without one
// the visitor is sent to the sign-in view.
func sessionFrom(w http.ResponseWriter, r *http.Request) (*identity.Session, bool) {
	session, ok := identity.SessionFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return nil, false
	}
	return session, true
}
