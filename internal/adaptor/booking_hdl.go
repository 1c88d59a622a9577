package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/dto/request"
	"ticket-storefront/internal/dto/response"
	"ticket-storefront/internal/usecase"
	"ticket-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Checkout handles POST /api/checkout
func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Submit(r.Context(), session, &req)
	if err != nil {
		h.handleServiceError(w, err, "checkout")
		return
	}

	utils.ResponseAccepted(w, "Processing booking", resp)
}

// GetAttempt handles GET /api/checkout/{token}
func (h *BookingHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetAttempt(r.Context(), session, chi.URLParam(r, "token"))
	if err != nil {
		h.handleServiceError(w, err, "get booking attempt")
		return
	}

	h.respondAttempt(w, resp)
}

// CancelAttempt handles DELETE /api/checkout/{token}
func (h *BookingHandler) CancelAttempt(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.CancelAttempt(r.Context(), session, chi.URLParam(r, "token"))
	if err != nil {
		h.handleServiceError(w, err, "cancel booking attempt")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", resp)
}

// Ticket handles GET /api/ticket
func (h *BookingHandler) Ticket(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Ticket(r.Context(), session)
	if err != nil {
		h.handleServiceError(w, err, "get ticket")
		return
	}

	utils.ResponseSuccess(w, "Booking Confirmed! Your digital tickets are ready", resp)
}

// ClearTicket handles DELETE /api/ticket
func (h *BookingHandler) ClearTicket(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearTicket(r.Context(), session); err != nil {
		h.handleServiceError(w, err, "clear ticket")
		return
	}

	utils.ResponseSuccess(w, "Ready to book more tickets", nil)
}

// respondAttempt reports a failed attempt as 422 so the shell can show the
// failure without parsing the body first.
func (h *BookingHandler) respondAttempt(w http.ResponseWriter, resp *response.AttemptResponse) {
	switch booking.Status(resp.Status) {
	case booking.StatusFailed:
		utils.ResponseUnprocessable(w, resp.Error.Message, resp, resp.Error)
	case booking.StatusConfirmed:
		utils.ResponseSuccess(w, "Booking Confirmed! Your tickets have been booked successfully.", resp)
	case booking.StatusCancelled:
		utils.ResponseSuccess(w, "Booking cancelled", resp)
	default:
		utils.ResponseSuccess(w, "Processing booking", resp)
	}
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		h.log.Warn(operation+" validation failed", zap.Any("errors", verr.Fields))
		utils.ResponseBadRequest(w, verr.Message, verr.Fields)

	case errors.Is(err, booking.ErrNoSeatsSelected):
		h.log.Warn(operation + " failed - empty selection")
		utils.ResponseBadRequest(w, "Please select seats", map[string]string{"seats": "You need to select at least one seat to proceed."})

	case errors.Is(err, usecase.ErrSubmissionInProgress):
		h.log.Warn(operation + " failed - already submitting")
		utils.ResponseConflict(w, "A booking is already being processed", nil)

	case errors.Is(err, usecase.ErrNoSeatMap),
		errors.Is(err, usecase.ErrAttemptNotFound),
		errors.Is(err, usecase.ErrNoTicket):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.Warn(operation+" aborted by client", zap.Error(err))
		utils.ResponseJSON(w, http.StatusRequestTimeout, false, "Request cancelled", nil, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
