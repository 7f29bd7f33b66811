package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmarts/boxoffice/internal/clock"
	"github.com/tmarts/boxoffice/internal/domain"
)

func TestPurchaseService_PurchaseTickets(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	validInput := func() PurchaseTicketsInput {
		return PurchaseTicketsInput{
			EventID:       "event-1",
			CustomerEmail: "ada@example.com",
			CustomerName:  "Ada Lovelace",
			Quantity:      2,
		}
	}

	t.Run("reserves then records with price captured at purchase time", func(t *testing.T) {
		store := newFakeEventStore(domain.Event{ID: "event-1", Price: 30.0, TotalTickets: 10, AvailableTickets: 10})
		ledger := &fakeLedger{}
		svc := NewPurchaseService(store, ledger, clock.NewFixed(now), nil)

		purchase, err := svc.PurchaseTickets(context.Background(), validInput())
		require.NoError(t, err)

		assert.NotEmpty(t, purchase.ID)
		assert.Equal(t, "event-1", purchase.EventID)
		assert.Equal(t, 2, purchase.Quantity)
		assert.Equal(t, 60.0, purchase.TotalPrice)
		assert.Equal(t, now, purchase.CreatedAt)

		require.Len(t, ledger.all(), 1)
		assert.Equal(t, 8, store.available("event-1"))
	})

	t.Run("price edits after purchase do not alter recorded total", func(t *testing.T) {
		store := newFakeEventStore(domain.Event{ID: "event-1", Price: 30.0, TotalTickets: 10, AvailableTickets: 10})
		ledger := &fakeLedger{}
		svc := NewPurchaseService(store, ledger, clock.NewFixed(now), nil)

		purchase, err := svc.PurchaseTickets(context.Background(), validInput())
		require.NoError(t, err)

		store.setPrice("event-1", 99.0)

		assert.Equal(t, 60.0, purchase.TotalPrice)
		assert.Equal(t, 60.0, ledger.all()[0].TotalPrice)
	})

	t.Run("collects every validation failure before touching storage", func(t *testing.T) {
		store := newFakeEventStore()
		ledger := &fakeLedger{}
		svc := NewPurchaseService(store, ledger, clock.NewFixed(now), nil)

		_, err := svc.PurchaseTickets(context.Background(), PurchaseTicketsInput{
			EventID:       "",
			CustomerEmail: "not-an-email",
			CustomerName:  "  ",
			Quantity:      0,
		})

		ve, ok := domain.AsValidation(err)
		require.True(t, ok, "expected a validation error, got %v", err)
		assert.Len(t, ve.Messages, 4)
		assert.Zero(t, store.reserveCalls, "no storage call on invalid input")
		assert.Empty(t, ledger.all())
	})

	t.Run("reservation miss surfaces as a single unavailable outcome", func(t *testing.T) {
		store := newFakeEventStore(domain.Event{ID: "event-1", Price: 30.0, TotalTickets: 10, AvailableTickets: 1})
		ledger := &fakeLedger{}
		svc := NewPurchaseService(store, ledger, clock.NewFixed(now), nil)

		_, err := svc.PurchaseTickets(context.Background(), validInput())
		require.ErrorIs(t, err, domain.ErrEventUnavailable)
		assert.Empty(t, ledger.all(), "ledger must not record a failed reservation")

		in := validInput()
		in.EventID = "no-such-event"
		_, err = svc.PurchaseTickets(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrEventUnavailable, "missing event reports the same miss")
	})

	t.Run("exact remaining quantity is a success, not an error", func(t *testing.T) {
		store := newFakeEventStore(domain.Event{ID: "event-1", Price: 30.0, TotalTickets: 10, AvailableTickets: 2})
		ledger := &fakeLedger{}
		svc := NewPurchaseService(store, ledger, clock.NewFixed(now), nil)

		purchase, err := svc.PurchaseTickets(context.Background(), validInput())
		require.NoError(t, err)
		assert.Equal(t, 2, purchase.Quantity)
		assert.Equal(t, 0, store.available("event-1"))
	})

	t.Run("ledger failure propagates as a fault", func(t *testing.T) {
		store := newFakeEventStore(domain.Event{ID: "event-1", Price: 30.0, TotalTickets: 10, AvailableTickets: 10})
		ledger := &fakeLedger{createErr: errors.New("disk on fire")}
		svc := NewPurchaseService(store, ledger, clock.NewFixed(now), nil)

		_, err := svc.PurchaseTickets(context.Background(), validInput())
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrEventUnavailable)
		_, isValidation := domain.AsValidation(err)
		assert.False(t, isValidation)
	})

	t.Run("concurrent buyers never oversell", func(t *testing.T) {
		const tickets = 15
		const attempts = 40

		store := newFakeEventStore(domain.Event{ID: "event-1", Price: 10.0, TotalTickets: tickets, AvailableTickets: tickets})
		ledger := &fakeLedger{}
		svc := NewPurchaseService(store, ledger, clock.NewFixed(now), nil)

		var wg sync.WaitGroup
		errs := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				in := validInput()
				in.Quantity = 1
				_, err := svc.PurchaseTickets(context.Background(), in)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var succeeded, rejected int
		for err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrEventUnavailable):
				rejected++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		assert.Equal(t, tickets, succeeded)
		assert.Equal(t, attempts-tickets, rejected)
		assert.Equal(t, 0, store.available("event-1"))

		// Conservation: tickets sold equals the sum of ledger quantities.
		sum := 0
		for _, p := range ledger.all() {
			sum += p.Quantity
		}
		assert.Equal(t, tickets, sum)
	})
}
