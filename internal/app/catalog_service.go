package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmarts/boxoffice/internal/clock"
	"github.com/tmarts/boxoffice/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// EventCatalog is the read-and-create side of the event repository.
type EventCatalog interface {
	ListEvents(ctx context.Context, filter domain.EventFilter, limit, offset int) ([]domain.Event, error)
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, id string) (domain.Event, error)
}

// CatalogService answers filtered event listings and creates events.
type CatalogService struct {
	repo  EventCatalog
	clock clock.Clock
}

func NewCatalogService(repo EventCatalog, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

// ListEvents applies defaults and bounds to pagination and delegates the
// filtered query to the index-backed repository.
func (s *CatalogService) ListEvents(ctx context.Context, filter domain.EventFilter, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListEvents(ctx, filter, limit, offset)
}

func (s *CatalogService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return s.repo.GetEvent(ctx, id)
}

type CreateEventInput struct {
	Name         string
	Description  string
	Date         time.Time
	Venue        string
	City         string
	Category     string
	TotalTickets int
	Price        float64
}

func (in CreateEventInput) validate() error {
	var messages []string
	if strings.TrimSpace(in.Name) == "" {
		messages = append(messages, "name is required")
	}
	if in.Date.IsZero() {
		messages = append(messages, "date is required")
	}
	if strings.TrimSpace(in.Venue) == "" {
		messages = append(messages, "venue is required")
	}
	if strings.TrimSpace(in.City) == "" {
		messages = append(messages, "city is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		messages = append(messages, "category is required")
	}
	if in.TotalTickets <= 0 {
		messages = append(messages, "total tickets must be a positive integer")
	}
	if in.Price <= 0 {
		messages = append(messages, "price must be greater than zero")
	}
	if len(messages) > 0 {
		return &domain.ValidationError{Messages: messages}
	}
	return nil
}

// CreateEvent inserts a new event with its full inventory available. This is
// the only event write outside the atomic reservation update.
func (s *CatalogService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	now := s.clock.Now()
	event := domain.Event{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		Date:             in.Date,
		Venue:            strings.TrimSpace(in.Venue),
		City:             strings.TrimSpace(in.City),
		Category:         strings.TrimSpace(in.Category),
		TotalTickets:     in.TotalTickets,
		AvailableTickets: in.TotalTickets,
		Price:            in.Price,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}
