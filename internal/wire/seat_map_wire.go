package wire

import (
	"net/http"

	"ticket-storefront/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSeatMap(
	r chi.Router,
	seatMapHandler *adaptor.SeatMapHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/seat-map", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", seatMapHandler.Current)
		r.Delete("/", seatMapHandler.Close)
		r.Post("/seats/{seat}/toggle", seatMapHandler.Toggle)
		r.Post("/proceed", seatMapHandler.Proceed)
	})
}
