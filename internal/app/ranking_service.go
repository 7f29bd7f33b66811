package app

import (
	"context"
	"time"

	"github.com/tmarts/boxoffice/internal/clock"
	"github.com/tmarts/boxoffice/internal/domain"
	"github.com/tmarts/boxoffice/internal/metrics"
)

const (
	defaultRankLimit = 10
	defaultRankDays  = 7
	maxRankLimit     = 100
)

// PurchaseAggregator is the ranking side of the purchase repository.
type PurchaseAggregator interface {
	RankEvents(ctx context.Context, since time.Time, limit int) ([]domain.EventScore, error)
}

// EventFetcher resolves ranked identifiers back into full event records.
type EventFetcher interface {
	GetEventsByIDs(ctx context.Context, ids []string) ([]domain.Event, error)
}

// RankingService orders events by ticket quantity purchased inside a
// trailing window. The score for an event is the SUM of quantities, not the
// number of purchases, and events with no in-window purchases are absent.
type RankingService struct {
	purchases PurchaseAggregator
	events    EventFetcher
	clock     clock.Clock
}

func NewRankingService(purchases PurchaseAggregator, events EventFetcher, clk clock.Clock) *RankingService {
	return &RankingService{
		purchases: purchases,
		events:    events,
		clock:     clk,
	}
}

// PopularEvents returns the top events by in-window purchase volume, most
// popular first. The set fetch does not preserve rank order, so results are
// reordered against the rank list before returning.
func (s *RankingService) PopularEvents(ctx context.Context, limit, days int) ([]domain.Event, error) {
	metrics.PopularEventsRequestsTotal.Inc()

	if limit <= 0 {
		limit = defaultRankLimit
	}
	if limit > maxRankLimit {
		limit = maxRankLimit
	}
	if days <= 0 {
		days = defaultRankDays
	}

	since := s.clock.Now().AddDate(0, 0, -days)
	scores, err := s.purchases.RankEvents(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	ids := make([]string, len(scores))
	for i, score := range scores {
		ids[i] = score.EventID
	}

	events, err := s.events.GetEventsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Event, len(events))
	for _, event := range events {
		byID[event.ID] = event
	}

	ranked := make([]domain.Event, 0, len(scores))
	for _, score := range scores {
		if event, ok := byID[score.EventID]; ok {
			ranked = append(ranked, event)
		}
	}
	return ranked, nil
}
