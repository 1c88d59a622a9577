package response

import (
	"strings"
	"time"

	"ticket-storefront/internal/booking"
)

type BookingResponse struct {
	ID          string        `json:"id"`
	Event       EventResponse `json:"event"`
	Seats       []string      `json:"seats"`
	TotalPrice  float64       `json:"total_price"`
	BookingDate string        `json:"booking_date"`
	HolderName  string        `json:"holder_name"`
	HolderEmail string        `json:"holder_email"`
	CreatedAt   time.Time     `json:"created_at"`
}

type BookingErrorResponse struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

type AttemptResponse struct {
	AttemptToken string                `json:"attempt_token"`
	Status       string                `json:"status"`
	StartedAt    time.Time             `json:"started_at"`
	Booking      *BookingResponse      `json:"booking,omitempty"`
	Error        *BookingErrorResponse `json:"error,omitempty"`
}

// TicketResponse is the digital ticket. QRPayload is what the venue scans.
type TicketResponse struct {
	BookingResponse
	QRPayload   string `json:"qr_payload"`
	Instruction string `json:"instruction"`
}

func BookingToResponse(b booking.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		Event:       EventToResponse(b.Event),
		Seats:       SeatIDs(b.Seats),
		TotalPrice:  b.TotalPrice,
		BookingDate: b.BookingDate,
		HolderName:  b.HolderName,
		HolderEmail: b.HolderEmail,
		CreatedAt:   b.CreatedAt,
	}
}

func BookingErrorToResponse(err error) *BookingErrorResponse {
	if err == nil {
		return nil
	}
	if be, ok := booking.AsError(err); ok {
		msg := be.Message
		if msg == "" {
			msg = be.Error()
		}
		return &BookingErrorResponse{
			Kind:        string(be.Kind),
			Message:     msg,
			Recoverable: be.Recoverable(),
		}
	}
	return &BookingErrorResponse{Kind: "unknown", Message: err.Error(), Recoverable: true}
}

func AttemptToResponse(snap booking.Snapshot) AttemptResponse {
	resp := AttemptResponse{
		AttemptToken: snap.Token,
		Status:       string(snap.Status),
		StartedAt:    snap.StartedAt,
		Error:        BookingErrorToResponse(snap.Err),
	}
	if snap.Booking != nil {
		b := BookingToResponse(*snap.Booking)
		resp.Booking = &b
	}
	return resp
}

func TicketToResponse(b booking.Booking) TicketResponse {
	return TicketResponse{
		BookingResponse: BookingToResponse(b),
		QRPayload:       strings.Join([]string{b.ID, b.Event.ID, strings.Join(SeatIDs(b.Seats), ",")}, "|"),
		Instruction:     "Show this QR code at the venue for entry",
	}
}
