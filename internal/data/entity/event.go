package entity

// Event is a catalog row as stored by a catalog source. Fields are loose
// strings here; catalog.Load turns them into validated records.
type Event struct {
	ID           string  `db:"id"`
	Title        string  `db:"title"`
	Venue        string  `db:"venue"`
	Date         string  `db:"event_date"` // display form, e.g. "Dec 15, 2024"
	Time         string  `db:"event_time"` // display form, e.g. "8:00 PM"
	Price        float64 `db:"price"`
	Category     string  `db:"category"`
	Availability string  `db:"availability"`
	ImageURL     *string `db:"image_url"`
}
