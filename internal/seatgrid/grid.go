package seatgrid

import "sort"

type Status string

const (
	StatusAvailable   Status = "available"
	StatusSelected    Status = "selected"
	StatusUnavailable Status = "unavailable"
)

// Seat is one rendered cell of the seat map.
type Seat struct {
	ID     SeatID
	Row    string
	Number int
	Status Status
}

// Grid is one viewing session of a seat map: the shared layout plus the
// current user's selection. A Grid is not safe for concurrent use.
type Grid struct {
	layout   *Layout
	selected map[SeatID]struct{}
	onChange func([]SeatID)
}

type Option func(*Grid)

// WithSelectionListener registers fn to receive the selection after every
// effective toggle.
func WithSelectionListener(fn func([]SeatID)) Option {
	return func(g *Grid) { g.onChange = fn }
}

func New(layout *Layout, opts ...Option) *Grid {
	g := &Grid{
		layout:   layout,
		selected: make(map[SeatID]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Grid) Layout() *Layout { return g.layout }

// Toggle flips id in the selection and returns the new selection.
// Unavailable and off-grid seats are ignored.
func (g *Grid) Toggle(id SeatID) []SeatID {
	if !g.layout.Contains(id) || g.layout.IsUnavailable(id) {
		return g.Selected()
	}

	if _, ok := g.selected[id]; ok {
		delete(g.selected, id)
	} else {
		g.selected[id] = struct{}{}
	}

	sel := g.Selected()
	if g.onChange != nil {
		g.onChange(sel)
	}
	return sel
}

// Status derives a seat's state: unavailable wins over selected, which wins
// over available.
func (g *Grid) Status(id SeatID) Status {
	if !g.layout.Contains(id) || g.layout.IsUnavailable(id) {
		return StatusUnavailable
	}
	if _, ok := g.selected[id]; ok {
		return StatusSelected
	}
	return StatusAvailable
}

// Selected returns the selection in seat-map order.
func (g *Grid) Selected() []SeatID {
	out := make([]SeatID, 0, len(g.selected))
	for id := range g.selected {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return g.layout.position(out[i]) < g.layout.position(out[j])
	})
	return out
}

func (g *Grid) Count() int { return len(g.selected) }

// Reset drops the selection. Abandoned selections are not recoverable.
func (g *Grid) Reset() {
	clear(g.selected)
}

// Seats renders every seat row by row.
func (g *Grid) Seats() []Seat {
	seats := make([]Seat, 0, g.layout.Capacity())
	for _, row := range g.layout.rows {
		for n := 1; n <= g.layout.seatsPerRow; n++ {
			id := makeID(row, n)
			seats = append(seats, Seat{ID: id, Row: row, Number: n, Status: g.Status(id)})
		}
	}
	return seats
}
