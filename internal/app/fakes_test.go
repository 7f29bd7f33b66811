package app

import (
	"context"
	"sync"
	"time"

	"github.com/tmarts/boxoffice/internal/domain"
)

// fakeEventStore backs the inventory, catalog, and fetcher interfaces with a
// map guarded by a mutex, so concurrency tests exercise the same
// check-and-decrement contract the SQL update provides.
type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]*domain.Event

	listFilter domain.EventFilter
	listLimit  int
	listOffset int

	reserveCalls int
	reserveErr   error
	createErr    error
}

func newFakeEventStore(events ...domain.Event) *fakeEventStore {
	store := &fakeEventStore{events: make(map[string]*domain.Event, len(events))}
	for i := range events {
		e := events[i]
		store.events[e.ID] = &e
	}
	return store
}

func (f *fakeEventStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeEventStore) Reserve(ctx context.Context, eventID string, quantity int) (domain.Event, error) {
	if quantity <= 0 {
		return domain.Event{}, domain.ErrInvalidQuantity
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserveCalls++
	if f.reserveErr != nil {
		return domain.Event{}, f.reserveErr
	}

	event, ok := f.events[eventID]
	if !ok || event.AvailableTickets < quantity {
		return domain.Event{}, domain.ErrEventUnavailable
	}
	event.AvailableTickets -= quantity
	return *event, nil
}

func (f *fakeEventStore) ListEvents(ctx context.Context, filter domain.EventFilter, limit, offset int) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listFilter = filter
	f.listLimit = limit
	f.listOffset = offset

	var events []domain.Event
	for _, e := range f.events {
		events = append(events, *e)
	}
	return events, nil
}

func (f *fakeEventStore) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event, ok := f.events[id]; ok {
		return *event, nil
	}
	return domain.Event{}, domain.ErrEventNotFound
}

func (f *fakeEventStore) GetEventsByIDs(ctx context.Context, ids []string) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Deliberately ignores the order of ids, like a set fetch would.
	var events []domain.Event
	for _, e := range f.events {
		for _, id := range ids {
			if e.ID == id {
				events = append(events, *e)
				break
			}
		}
	}
	return events, nil
}

func (f *fakeEventStore) CreateEvent(ctx context.Context, event domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	e := event
	f.events[e.ID] = &e
	return nil
}

func (f *fakeEventStore) setPrice(eventID string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[eventID].Price = price
}

func (f *fakeEventStore) available(eventID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[eventID].AvailableTickets
}

type fakeLedger struct {
	mu        sync.Mutex
	purchases []domain.Purchase
	createErr error
}

func (f *fakeLedger) CreatePurchase(ctx context.Context, purchase domain.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.purchases = append(f.purchases, purchase)
	return nil
}

func (f *fakeLedger) all() []domain.Purchase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Purchase(nil), f.purchases...)
}

type fakeAggregator struct {
	scores []domain.EventScore
	err    error

	gotSince time.Time
	gotLimit int
}

func (f *fakeAggregator) RankEvents(ctx context.Context, since time.Time, limit int) ([]domain.EventScore, error) {
	f.gotSince = since
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}
