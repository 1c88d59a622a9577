package seatgrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SeatID is the rendered identity of a seat: row label followed by the
// 1-based seat number, e.g. "A5".
type SeatID string

var (
	ErrUnknownSeat   = errors.New("seat is not on the seat map")
	ErrInvalidLayout = errors.New("invalid seat layout")
)

var (
	DefaultRows        = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	DefaultSeatsPerRow = 12
	DefaultUnavailable = []SeatID{"A5", "A6", "C3", "C8", "E7", "F2", "F9"}
)

// Layout is the fixed shape of a seat map plus its permanently unavailable
// seats. It never changes after construction and is safe to share.
type Layout struct {
	rows        []string
	rowIndex    map[string]int
	seatsPerRow int
	unavailable map[SeatID]struct{}
}

func NewLayout(rows []string, seatsPerRow int, unavailable []SeatID) (*Layout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	if seatsPerRow < 1 {
		return nil, fmt.Errorf("%w: seats per row must be positive, got %d", ErrInvalidLayout, seatsPerRow)
	}

	l := &Layout{
		rows:        make([]string, len(rows)),
		rowIndex:    make(map[string]int, len(rows)),
		seatsPerRow: seatsPerRow,
		unavailable: make(map[SeatID]struct{}, len(unavailable)),
	}
	copy(l.rows, rows)

	for i, row := range rows {
		if row == "" || strings.ContainsAny(row, "0123456789") {
			return nil, fmt.Errorf("%w: bad row label %q", ErrInvalidLayout, row)
		}
		if _, dup := l.rowIndex[row]; dup {
			return nil, fmt.Errorf("%w: duplicate row %q", ErrInvalidLayout, row)
		}
		l.rowIndex[row] = i
	}

	for _, id := range unavailable {
		if _, _, ok := l.split(id); !ok {
			return nil, fmt.Errorf("%w: unavailable seat %q is outside the grid", ErrInvalidLayout, id)
		}
		l.unavailable[id] = struct{}{}
	}

	return l, nil
}

// DefaultLayout is the 8x12 map used for every event.
func DefaultLayout() *Layout {
	l, err := NewLayout(DefaultRows, DefaultSeatsPerRow, DefaultUnavailable)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Layout) Rows() []string {
	out := make([]string, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *Layout) SeatsPerRow() int { return l.seatsPerRow }

func (l *Layout) Capacity() int { return len(l.rows) * l.seatsPerRow }

// Parse turns user input such as "b7" into a canonical SeatID.
func (l *Layout) Parse(raw string) (SeatID, error) {
	id := SeatID(strings.ToUpper(strings.TrimSpace(raw)))
	if _, _, ok := l.split(id); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeat, raw)
	}
	return id, nil
}

func (l *Layout) Contains(id SeatID) bool {
	_, _, ok := l.split(id)
	return ok
}

func (l *Layout) IsUnavailable(id SeatID) bool {
	_, ok := l.unavailable[id]
	return ok
}

// position orders seats row by row, then by number.
func (l *Layout) position(id SeatID) int {
	row, num, ok := l.split(id)
	if !ok {
		return -1
	}
	return l.rowIndex[row]*l.seatsPerRow + num - 1
}

func (l *Layout) split(id SeatID) (string, int, bool) {
	s := string(id)
	i := strings.IndexAny(s, "0123456789")
	if i <= 0 {
		return "", 0, false
	}

	row, digits := s[:i], s[i:]
	if _, ok := l.rowIndex[row]; !ok {
		return "", 0, false
	}
	// canonical numbers only: "A05" is not a seat
	if digits[0] == '0' {
		return "", 0, false
	}
	num, err := strconv.Atoi(digits)
	if err != nil || num < 1 || num > l.seatsPerRow {
		return "", 0, false
	}
	return row, num, true
}

func makeID(row string, num int) SeatID {
	return SeatID(row + strconv.Itoa(num))
}

// ParseSeatID validates "<row><number>" text against l.
func ParseSeatID(l *Layout, s string) (SeatID, error) { return l.Parse(s) }
