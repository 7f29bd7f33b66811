package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tmarts/boxoffice/internal/domain"
)

type PurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

func (r *PurchaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// CreatePurchase appends one ledger row. Rows are never updated or deleted.
func (r *PurchaseRepository) CreatePurchase(ctx context.Context, purchase domain.Purchase) error {
	const stmt = `
INSERT INTO purchases (id, event_id, customer_email, customer_name, quantity, total_price, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		purchase.ID,
		purchase.EventID,
		purchase.CustomerEmail,
		purchase.CustomerName,
		purchase.Quantity,
		purchase.TotalPrice,
		purchase.CreatedAt,
		purchase.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) || isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// RankEvents scores events by total ticket quantity purchased since the
// given instant. One aggregation pass over the ledger, never a count query
// per event. Ties break on ascending event id so the ordering is stable.
func (r *PurchaseRepository) RankEvents(ctx context.Context, since time.Time, limit int) ([]domain.EventScore, error) {
	const query = `
SELECT event_id, SUM(quantity) AS score
FROM purchases
WHERE created_at >= $1
GROUP BY event_id
ORDER BY score DESC, event_id ASC
LIMIT $2`

	rows, err := r.query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("rank events: %w", err)
	}
	defer rows.Close()

	var scores []domain.EventScore
	for rows.Next() {
		var s domain.EventScore
		if err := rows.Scan(&s.EventID, &s.Score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate scores: %w", rows.Err())
	}
	return scores, nil
}

// ListByEvent returns an event's ledger entries, newest first.
func (r *PurchaseRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Purchase, error) {
	const query = `
SELECT id, event_id, customer_email, customer_name, quantity, total_price, created_at, updated_at
FROM purchases
WHERE event_id = $1
ORDER BY created_at DESC, id ASC`

	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.EventID, &p.CustomerEmail, &p.CustomerName, &p.Quantity, &p.TotalPrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate purchases: %w", rows.Err())
	}
	return purchases, nil
}

func (r *PurchaseRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PurchaseRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
