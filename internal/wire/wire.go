// internal/wire/wire.go
package wire

import (
	"context"
	"fmt"
	"net/http"

	"ticket-storefront/internal/adaptor"
	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/data/repository"
	"ticket-storefront/internal/identity"
	"ticket-storefront/internal/notify"
	"ticket-storefront/internal/seatgrid"
	"ticket-storefront/internal/usecase"
	"ticket-storefront/pkg/middleware"
	"ticket-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Gate    identity.Gate
}

// Wiring loads the catalog and assembles services, handlers and routes. ctx
// bounds every booking attempt started by the app.
func Wiring(ctx context.Context, repo *repository.Repository, notifier notify.Notifier, config *utils.Config, logger *zap.Logger) (*App, error) {
	rows, err := repo.Event.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog source: %w", err)
	}
	cat, err := catalog.Load(rows)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("Catalog loaded",
		zap.String("source", config.Catalog.Source),
		zap.Int("events", cat.Len()),
	)

	gate := identity.NewLocalProvider(repo.User, repo.Session, identity.LocalConfig{
		Secret:     config.Identity.JWTSecret,
		SessionTTL: config.Identity.SessionTTL,
		BcryptCost: config.Identity.BcryptCost,
	}, logger)

	composer := booking.NewComposer(
		config.Booking.ConfirmDelay,
		config.Booking.SubmitTimeout,
		booking.NewSimulatedGateway(config.Booking.DeclinedCards),
	)

	service := usecase.NewService(ctx, usecase.Deps{
		Catalog:  cat,
		Layout:   seatgrid.DefaultLayout(),
		Gate:     gate,
		Composer: composer,
		Notifier: notifier,
	}, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, gate, config, logger),
		Service: service,
		Gate:    gate,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	gate identity.Gate,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	auth := middleware.AuthSession(gate, logger)

	wireAuth(r, handler.Auth, auth)
	wireEvent(r, handler.Event, handler.SeatMap, auth)
	wireSeatMap(r, handler.SeatMap, auth)
	wireBooking(r, handler.Booking, auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{"app": config.App.Name})
	})

	return r
}
