package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tmarts/boxoffice/internal/clock"
	"github.com/tmarts/boxoffice/internal/domain"
	"github.com/tmarts/boxoffice/internal/metrics"
	"go.uber.org/zap"
)

// InventoryStore is the reservation side of the event repository. Reserve is
// the only way any code decrements an event's remaining tickets.
type InventoryStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Reserve(ctx context.Context, eventID string, quantity int) (domain.Event, error)
}

// PurchaseLedger appends completed purchases.
type PurchaseLedger interface {
	CreatePurchase(ctx context.Context, purchase domain.Purchase) error
}

// PurchaseService coordinates a ticket purchase: validate the request shape,
// reserve inventory, then record the ledger entry. The reservation and the
// ledger write run in one transaction, so a ledger failure rolls the
// decrement back and tickets sold always equals tickets recorded.
type PurchaseService struct {
	inventory InventoryStore
	ledger    PurchaseLedger
	clock     clock.Clock
	logger    *zap.Logger
}

func NewPurchaseService(inventory InventoryStore, ledger PurchaseLedger, clk clock.Clock, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		inventory: inventory,
		ledger:    ledger,
		clock:     clk,
		logger:    logger,
	}
}

type PurchaseTicketsInput struct {
	EventID       string
	CustomerEmail string
	CustomerName  string
	Quantity      int
}

func (in PurchaseTicketsInput) validate() error {
	var messages []string
	if strings.TrimSpace(in.EventID) == "" {
		messages = append(messages, "event id is required")
	}
	if !domain.ValidEmail(in.CustomerEmail) {
		messages = append(messages, "customer email is invalid")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		messages = append(messages, "customer name is required")
	}
	if in.Quantity <= 0 {
		messages = append(messages, domain.ErrInvalidQuantity.Error())
	}
	if len(messages) > 0 {
		return &domain.ValidationError{Messages: messages}
	}
	return nil
}

// PurchaseTickets performs one atomic, final purchase. There is no hold or
// cart stage and a reservation miss is never retried here.
func (s *PurchaseService) PurchaseTickets(ctx context.Context, in PurchaseTicketsInput) (domain.Purchase, error) {
	metrics.PurchaseAttemptsTotal.Inc()
	timer := prometheus.NewTimer(metrics.PurchaseDuration)
	defer timer.ObserveDuration()

	if err := in.validate(); err != nil {
		return domain.Purchase{}, err
	}

	now := s.clock.Now()
	var result domain.Purchase

	err := s.inventory.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.inventory.Reserve(txCtx, in.EventID, in.Quantity)
		if err != nil {
			return err
		}

		purchase := domain.Purchase{
			ID:            uuid.NewString(),
			EventID:       event.ID,
			CustomerEmail: strings.TrimSpace(in.CustomerEmail),
			CustomerName:  strings.TrimSpace(in.CustomerName),
			Quantity:      in.Quantity,
			// Price captured at purchase time; later event price edits
			// never change this row.
			TotalPrice: float64(in.Quantity) * event.Price,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := s.ledger.CreatePurchase(txCtx, purchase); err != nil {
			return err
		}

		result = purchase
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrEventUnavailable) {
			metrics.ReservationsRejectedTotal.Inc()
			return domain.Purchase{}, err
		}
		if errors.Is(err, domain.ErrInvalidQuantity) {
			return domain.Purchase{}, err
		}
		s.logger.Error("purchase failed",
			zap.String("event_id", in.EventID),
			zap.Int("quantity", in.Quantity),
			zap.Error(err),
		)
		return domain.Purchase{}, err
	}

	metrics.PurchasesCompletedTotal.Inc()
	return result, nil
}
