package catalog

import (
	"errors"
	"fmt"

	"ticket-storefront/internal/data/entity"
	"ticket-storefront/pkg/utils"
)

type Category string

const (
	CategoryConcert Category = "concert"
	CategoryMovie   Category = "movie"
	CategorySports  Category = "sports"
	CategoryTheater Category = "theater"
	CategoryComedy  Category = "comedy"
)

// Categories lists every bookable category in display order.
var Categories = []Category{CategoryConcert, CategoryMovie, CategorySports, CategoryTheater, CategoryComedy}

// Availability is a display label only; it is never checked against seats.
type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityLimited   Availability = "Limited"
	AvailabilitySoldOut   Availability = "Sold Out"
)

var ErrInvalidEvent = errors.New("invalid catalog entry")

// Event is an immutable, validated catalog record.
type Event struct {
	ID           string
	Title        string
	Venue        string
	Date         string
	Time         string
	Price        float64
	Category     Category
	Availability Availability
	ImageURL     string
}

// eventRecord carries the load-time rules for a catalog row.
type eventRecord struct {
	ID           string  `json:"id" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	Venue        string  `json:"venue" validate:"required"`
	Date         string  `json:"date" validate:"required"`
	Time         string  `json:"time" validate:"required"`
	Price        float64 `json:"price" validate:"gt=0"`
	Category     string  `json:"category" validate:"required,oneof=concert movie sports theater comedy"`
	Availability string  `json:"availability" validate:"required,oneof='Available' 'Limited' 'Sold Out'"`
	ImageURL     string  `json:"image_url" validate:"omitempty,uri"`
}

// NewEvent validates a raw catalog row and returns the closed record.
func NewEvent(row *entity.Event) (Event, error) {
	if row == nil {
		return Event{}, fmt.Errorf("%w: nil row", ErrInvalidEvent)
	}

	rec := eventRecord{
		ID:           row.ID,
		Title:        row.Title,
		Venue:        row.Venue,
		Date:         row.Date,
		Time:         row.Time,
		Price:        row.Price,
		Category:     row.Category,
		Availability: row.Availability,
	}
	if row.ImageURL != nil {
		rec.ImageURL = *row.ImageURL
	}

	if errs := utils.ValidateStruct(rec); len(errs) > 0 {
		return Event{}, fmt.Errorf("%w %q: %s", ErrInvalidEvent, row.ID, utils.FormatValidationErrors(errs))
	}

	return Event{
		ID:           rec.ID,
		Title:        rec.Title,
		Venue:        rec.Venue,
		Date:         rec.Date,
		Time:         rec.Time,
		Price:        rec.Price,
		Category:     Category(rec.Category),
		Availability: Availability(rec.Availability),
		ImageURL:     rec.ImageURL,
	}, nil
}
