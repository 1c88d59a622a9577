package wire

import (
	"net/http"

	"ticket-storefront/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/checkout", func(r chi.Router) {
		r.Use(auth)

		r.Post("/", bookingHandler.Checkout)               // 202 with attempt token
		r.Get("/{token}", bookingHandler.GetAttempt)       // poll
		r.Delete("/{token}", bookingHandler.CancelAttempt) // abandon
	})

	r.Route("/api/ticket", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", bookingHandler.Ticket)
		r.Delete("/", bookingHandler.ClearTicket) // book more tickets
	})
}
