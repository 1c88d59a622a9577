package booking

import (
	"errors"
	"time"

	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/seatgrid"
	"ticket-storefront/pkg/utils"
)

// DateLayout renders the booking date the way the storefront has always shown
// it, e.g. 3/7/2025.
const DateLayout = "1/2/2006"

var (
	ErrNoSeatsSelected = errors.New("select at least one seat")
	ErrInvalidForm     = errors.New("booking form is incomplete")
)

// Booking is the record of a confirmed submission. Values are produced only by
// Composer and must be treated as read-only; Seats is never shared with the
// caller's selection.
type Booking struct {
	ID          string
	Event       catalog.Event
	Seats       []seatgrid.SeatID
	TotalPrice  float64
	BookingDate string
	CreatedAt   time.Time
	HolderName  string
	HolderEmail string
}

// SeatCount is |Seats|.
func (b Booking) SeatCount() int { return len(b.Seats) }

// CanProceed reports whether a selection may move on to the booking form.
func CanProceed(seats []seatgrid.SeatID) bool {
	return len(seats) > 0
}

// Total is unitPrice × seats. No rounding, tax or fees are applied.
func Total(unitPrice float64, seats int) float64 {
	return unitPrice * float64(seats)
}

// Form is the contact and payment form. Fields are only checked for
// presence; card data never leaves the composer.
type Form struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	CardNumber string `json:"card_number" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

// Validate returns a field -> message map, nil when the form is complete.
func (f Form) Validate() map[string]string {
	errs := utils.ValidateStruct(f)
	if len(errs) == 0 {
		return nil
	}
	return errs
}
