package adaptor

import (
	"errors"
	"net/http"

	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/seatgrid"
	"ticket-storefront/internal/usecase"
	"ticket-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SeatMapHandler struct {
	service usecase.SeatMapService
	log     *zap.Logger
}

func NewSeatMapHandler(service usecase.SeatMapService, log *zap.Logger) *SeatMapHandler {
	return &SeatMapHandler{
		service: service,
		log:     log.With(zap.String("handler", "seat_map")),
	}
}

// Open handles POST /api/events/{id}/seat-map
func (h *SeatMapHandler) Open(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Open(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "open seat map")
		return
	}

	utils.ResponseSuccess(w, "Seat map opened", resp)
}

// Current handles GET /api/seat-map
func (h *SeatMapHandler) Current(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Current(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "Seat map retrieved", resp)
}

// Toggle handles POST /api/seat-map/seats/{seat}/toggle
func (h *SeatMapHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Toggle(r.Context(), session, chi.URLParam(r, "seat"))
	if err != nil {
		h.handleServiceError(w, err, "toggle seat")
		return
	}

	utils.ResponseSuccess(w, "Selection updated", resp)
}

// Close handles DELETE /api/seat-map
func (h *SeatMapHandler) Close(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.Close(r.Context(), session); err != nil {
		h.handleServiceError(w, err, "close seat map")
		return
	}

	utils.ResponseSuccess(w, "Seat map closed", nil)
}

// Proceed handles POST /api/seat-map/proceed
func (h *SeatMapHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Proceed(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err, "proceed to booking")
		return
	}

	utils.ResponseSuccess(w, "Booking summary", resp)
}

func (h *SeatMapHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrEventNotFound):
		h.log.Warn(operation+" failed - event not found", zap.Error(err))
		utils.ResponseNotFound(w, "Event not found")

	case errors.Is(err, usecase.ErrNoSeatMap):
		h.log.Warn(operation+" failed - no seat map", zap.Error(err))
		utils.ResponseNotFound(w, "No seat map is open")

	case errors.Is(err, seatgrid.ErrUnknownSeat):
		h.log.Warn(operation+" failed - unknown seat", zap.Error(err))
		utils.ResponseBadRequest(w, "Unknown seat", map[string]string{"seat": err.Error()})

	case errors.Is(err, booking.ErrNoSeatsSelected):
		h.log.Warn(operation + " failed - empty selection")
		utils.ResponseBadRequest(w, "Please select seats", map[string]string{"seats": "You need to select at least one seat to proceed."})

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
