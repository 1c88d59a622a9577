package repository

import (
	"context"
	"fmt"

	"ticket-storefront/internal/data/entity"
	"ticket-storefront/pkg/database"

	"go.uber.org/zap"
)

// EventRepository is a catalog source. The catalog reads it once at startup.
type EventRepository interface {
	FindAll(ctx context.Context) ([]*entity.Event, error)
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

func (r *eventRepository) FindAll(ctx context.Context) ([]*entity.Event, error) {
	query := `
		SELECT id, title, venue, event_date, event_time, price,
		       category, availability, image_url
		FROM events
		ORDER BY position, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to query events", zap.Error(err))
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var e entity.Event
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Venue,
			&e.Date,
			&e.Time,
			&e.Price,
			&e.Category,
			&e.Availability,
			&e.ImageURL,
		); err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}

type staticEventRepository struct {
	rows []*entity.Event
}

// NewStaticEventRepository serves a compiled-in event list.
func NewStaticEventRepository(rows []*entity.Event) EventRepository {
	return &staticEventRepository{rows: rows}
}

func (r *staticEventRepository) FindAll(context.Context) ([]*entity.Event, error) {
	out := make([]*entity.Event, len(r.rows))
	for i, row := range r.rows {
		cp := *row
		out[i] = &cp
	}
	return out, nil
}
