package wire

import (
	"net/http"

	"ticket-storefront/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireEvent(
	r chi.Router,
	eventHandler *adaptor.EventHandler,
	seatMapHandler *adaptor.SeatMapHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/events", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", eventHandler.List)                 // GET /api/events?q=&category=&location=
		r.Get("/{id}", eventHandler.Get)              // GET /api/events/{id}
		r.Post("/{id}/seat-map", seatMapHandler.Open) // POST /api/events/{id}/seat-map
	})
}
