package catalog

import "strings"

// All is the facet value that disables a filter.
const All = "all"

// Locations are the location facet values the storefront offers.
var Locations = []string{"new-york", "los-angeles", "chicago", "miami", "seattle"}

// Query holds the storefront's search facets. Location is accepted and
// echoed back but does not narrow results.
type Query struct {
	Text     string
	Category string
	Location string
}

// Matches reports whether ev passes the text and category facets.
func (q Query) Matches(ev Event) bool {
	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(ev.Title), needle) &&
			!strings.Contains(strings.ToLower(ev.Venue), needle) {
			return false
		}
	}

	if q.Category != "" && q.Category != All && Category(q.Category) != ev.Category {
		return false
	}

	return true
}

// Filter returns the events matching q, keeping their relative order.
func Filter(events []Event, q Query) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if q.Matches(ev) {
			out = append(out, ev)
		}
	}
	return out
}
