package catalog

import (
	"fmt"

	"ticket-storefront/internal/data/entity"
)

// Catalog is the read-only set of bookable events, in source order.
type Catalog struct {
	events []Event
	byID   map[string]int
}

// Load validates every row and builds the catalog. One malformed row or a
// duplicated id rejects the whole load.
func Load(rows []*entity.Event) (*Catalog, error) {
	c := &Catalog{
		events: make([]Event, 0, len(rows)),
		byID:   make(map[string]int, len(rows)),
	}

	for i, row := range rows {
		ev, err := NewEvent(row)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: %w", i, err)
		}
		if _, dup := c.byID[ev.ID]; dup {
			return nil, fmt.Errorf("catalog row %d: %w: duplicate id %q", i, ErrInvalidEvent, ev.ID)
		}
		c.byID[ev.ID] = len(c.events)
		c.events = append(c.events, ev)
	}

	return c, nil
}

// All returns a copy of every event in catalog order.
func (c *Catalog) All() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Catalog) Find(id string) (Event, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Event{}, false
	}
	return c.events[i], true
}

func (c *Catalog) Len() int {
	return len(c.events)
}
