package request

import "ticket-storefront/internal/booking"

// CheckoutRequest is the contact and payment form as posted by the shell. The
// fields and their rules belong to booking.Form.
type CheckoutRequest struct {
	booking.Form
}
