package request

// EventQuery is read from the query string of GET /api/events.
type EventQuery struct {
	Q        string `json:"q"`
	Category string `json:"category" validate:"omitempty,oneof=all concert movie sports theater comedy"`
	Location string `json:"location" validate:"omitempty,oneof=all new-york los-angeles chicago miami seattle"`
}
