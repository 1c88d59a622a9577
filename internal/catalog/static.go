package catalog

import "ticket-storefront/internal/data/entity"

func strPtr(s string) *string { return &s }

// DefaultRows is the compiled-in catalog.
func DefaultRows() []*entity.Event {
	return []*entity.Event{
		{
			ID:           "1",
			Title:        "Rock Legends Live",
			Venue:        "Madison Square Garden",
			Date:         "Dec 15, 2024",
			Time:         "8:00 PM",
			Price:        89,
			Category:     string(CategoryConcert),
			Availability: string(AvailabilityAvailable),
			ImageURL:     strPtr("/assets/concert-image.jpg"),
		},
		{
			ID:           "2",
			Title:        "Avengers: Secret Wars",
			Venue:        "AMC Empire 25",
			Date:         "Dec 20, 2024",
			Time:         "7:30 PM",
			Price:        15,
			Category:     string(CategoryMovie),
			Availability: string(AvailabilityAvailable),
			ImageURL:     strPtr("/assets/movie-image.jpg"),
		},
		{
			ID:           "3",
			Title:        "NBA Finals Game 7",
			Venue:        "Staples Center",
			Date:         "Jun 18, 2025",
			Time:         "9:00 PM",
			Price:        250,
			Category:     string(CategorySports),
			Availability: string(AvailabilityLimited),
			ImageURL:     strPtr("/assets/sports-image.jpg"),
		},
		{
			ID:           "4",
			Title:        "Hamilton - Broadway",
			Venue:        "Richard Rodgers Theatre",
			Date:         "Jan 5, 2025",
			Time:         "8:00 PM",
			Price:        125,
			Category:     string(CategoryTheater),
			Availability: string(AvailabilityAvailable),
			ImageURL:     strPtr("/assets/theater-image.jpg"),
		},
	}
}
