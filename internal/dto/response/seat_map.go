package response

import (
	"ticket-storefront/internal/booking"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/seatgrid"
)

type SeatResponse struct {
	ID     string `json:"id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
	Status string `json:"status"`
}

type SeatMapResponse struct {
	Event         EventResponse  `json:"event"`
	Rows          []string       `json:"rows"`
	SeatsPerRow   int            `json:"seats_per_row"`
	Seats         []SeatResponse `json:"seats"`
	Selected      []string       `json:"selected"`
	SelectedCount int            `json:"selected_count"`
	TotalPrice    float64        `json:"total_price"`
	CanProceed    bool           `json:"can_proceed"`
}

// SelectionResponse answers a toggle with the new selection only.
type SelectionResponse struct {
	Seat          string   `json:"seat"`
	Status        string   `json:"status"`
	Selected      []string `json:"selected"`
	SelectedCount int      `json:"selected_count"`
	TotalPrice    float64  `json:"total_price"`
}

// BookingSummaryResponse is shown when the visitor proceeds to the form.
type BookingSummaryResponse struct {
	Event      EventResponse `json:"event"`
	Seats      []string      `json:"seats"`
	UnitPrice  float64       `json:"unit_price"`
	TotalPrice float64       `json:"total_price"`
}

// total is the view's running total for the current selection.
func SeatMapToResponse(event catalog.Event, grid *seatgrid.Grid, total float64) SeatMapResponse {
	seats := grid.Seats()
	items := make([]SeatResponse, len(seats))
	for i, s := range seats {
		items[i] = SeatResponse{
			ID:     string(s.ID),
			Row:    s.Row,
			Number: s.Number,
			Status: string(s.Status),
		}
	}

	selected := grid.Selected()
	return SeatMapResponse{
		Event:         EventToResponse(event),
		Rows:          grid.Layout().Rows(),
		SeatsPerRow:   grid.Layout().SeatsPerRow(),
		Seats:         items,
		Selected:      SeatIDs(selected),
		SelectedCount: len(selected),
		TotalPrice:    total,
		CanProceed:    booking.CanProceed(selected),
	}
}

func SelectionToResponse(grid *seatgrid.Grid, seat seatgrid.SeatID, total float64) SelectionResponse {
	selected := grid.Selected()
	return SelectionResponse{
		Seat:          string(seat),
		Status:        string(grid.Status(seat)),
		Selected:      SeatIDs(selected),
		SelectedCount: len(selected),
		TotalPrice:    total,
	}
}

func SummaryToResponse(event catalog.Event, seats []seatgrid.SeatID) BookingSummaryResponse {
	return BookingSummaryResponse{
		Event:      EventToResponse(event),
		Seats:      SeatIDs(seats),
		UnitPrice:  event.Price,
		TotalPrice: booking.Total(event.Price, len(seats)),
	}
}

func SeatIDs(ids []seatgrid.SeatID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
