package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutRequest_DecodesIntoBookingForm(t *testing.T) {
	var req CheckoutRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Jane Visitor",
		"email": "jane@example.com",
		"phone": "555-0100",
		"card_number": "4242 4242 4242 4242",
		"expiry": "12/30"
	}`), &req))

	assert.Equal(t, "Jane Visitor", req.Form.Name)
	assert.Equal(t, "4242 4242 4242 4242", req.CardNumber)
	assert.Equal(t, map[string]string{"cvv": "This field is required"}, req.Validate())

	req.CVV = "123"
	assert.Nil(t, req.Validate())
}
