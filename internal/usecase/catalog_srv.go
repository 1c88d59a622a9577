package usecase

import (
	"context"
	"strings"

	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/dto/request"
	"ticket-storefront/internal/dto/response"
	"ticket-storefront/pkg/utils"

	"go.uber.org/zap"
)

type CatalogService interface {
	ListEvents(ctx context.Context, q *request.EventQuery) (*response.EventListResponse, error)
	GetEvent(ctx context.Context, id string) (*response.EventResponse, error)
}

type catalogService struct {
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewCatalogService(cat *catalog.Catalog, log *zap.Logger) CatalogService {
	return &catalogService{
		catalog: cat,
		log:     log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListEvents(_ context.Context, q *request.EventQuery) (*response.EventListResponse, error) {
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	q.Location = strings.ToLower(strings.TrimSpace(q.Location))

	if errs := utils.ValidateStruct(q); len(errs) > 0 {
		s.log.Warn("Event query validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Message: "Invalid filter", Fields: errs}
	}

	// location is accepted but never narrows the list
	events := catalog.Filter(s.catalog.All(), catalog.Query{
		Text:     q.Q,
		Category: q.Category,
		Location: q.Location,
	})

	s.log.Debug("Events filtered",
		zap.String("q", q.Q),
		zap.String("category", q.Category),
		zap.String("location", q.Location),
		zap.Int("count", len(events)),
	)

	resp := response.EventsToListResponse(events)
	return &resp, nil
}

func (s *catalogService) GetEvent(_ context.Context, id string) (*response.EventResponse, error) {
	event, ok := s.catalog.Find(id)
	if !ok {
		return nil, ErrEventNotFound
	}
	resp := response.EventToResponse(event)
	return &resp, nil
}
