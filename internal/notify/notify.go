package notify

import (
	"context"
	"time"

	"ticket-storefront/internal/booking"

	"go.uber.org/zap"
)

const TopicBookingConfirmed = "booking.confirmed"

// BookingConfirmedEvent is published once per created booking. It never
// carries payment data.
type BookingConfirmedEvent struct {
	BookingID   string    `json:"booking_id"`
	EventID     string    `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	Venue       string    `json:"venue"`
	Seats       []string  `json:"seats"`
	TotalPrice  float64   `json:"total_price"`
	HolderEmail string    `json:"holder_email"`
	BookedAt    time.Time `json:"booked_at"`
}

func NewBookingConfirmedEvent(b booking.Booking) BookingConfirmedEvent {
	seats := make([]string, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = string(s)
	}
	return BookingConfirmedEvent{
		BookingID:   b.ID,
		EventID:     b.Event.ID,
		EventTitle:  b.Event.Title,
		Venue:       b.Event.Venue,
		Seats:       seats,
		TotalPrice:  b.TotalPrice,
		HolderEmail: b.HolderEmail,
		BookedAt:    b.CreatedAt.UTC(),
	}
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
	Close() error
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier only writes the event to the log.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *logNotifier) BookingConfirmed(_ context.Context, event BookingConfirmedEvent) error {
	n.log.Info("Booking confirmed",
		zap.String("booking_id", event.BookingID),
		zap.String("event_id", event.EventID),
		zap.Strings("seats", event.Seats),
		zap.Float64("total_price", event.TotalPrice),
	)
	return nil
}

func (n *logNotifier) Close() error { return nil }
