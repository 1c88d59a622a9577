package wire

import (
	"net/http"

	"ticket-storefront/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/auth", func(r chi.Router) {
		// public
		r.Post("/sign-up", authHandler.SignUp)
		r.Post("/sign-in", authHandler.SignIn)

		r.With(auth).Get("/session", authHandler.Session)
		r.With(auth).Post("/sign-out", authHandler.SignOut)
	})
}
