package response

import "ticket-storefront/internal/catalog"

type EventResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Venue        string  `json:"venue"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	Availability string  `json:"availability"`
	ImageURL     string  `json:"image_url,omitempty"`
}

type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	Count      int             `json:"count"`
	Categories []string        `json:"categories"`
	Locations  []string        `json:"locations"`
}

func EventToResponse(e catalog.Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Venue:        e.Venue,
		Date:         e.Date,
		Time:         e.Time,
		Price:        e.Price,
		Category:     string(e.Category),
		Availability: string(e.Availability),
		ImageURL:     e.ImageURL,
	}
}

func EventsToListResponse(events []catalog.Event) EventListResponse {
	items := make([]EventResponse, len(events))
	for i, e := range events {
		items[i] = EventToResponse(e)
	}

	categories := make([]string, 0, len(catalog.Categories)+1)
	categories = append(categories, catalog.All)
	for _, c := range catalog.Categories {
		categories = append(categories, string(c))
	}

	locations := make([]string, 0, len(catalog.Locations)+1)
	locations = append(locations, catalog.All)
	locations = append(locations, catalog.Locations...)

	return EventListResponse{
		Events:     items,
		Count:      len(items),
		Categories: categories,
		Locations:  locations,
	}
}
