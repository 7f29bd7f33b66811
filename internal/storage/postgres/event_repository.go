package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tmarts/boxoffice/internal/domain"
)

// eventColumns is the scan list shared by every event query. purchases_count
// is computed on read; it is display data, not part of the inventory state.
const eventColumns = `
e.id, e.name, COALESCE(e.description, ''), e.date, e.venue, e.city, e.category,
e.total_tickets, e.available_tickets, e.price,
(SELECT COUNT(*) FROM purchases p WHERE p.event_id = e.id) AS purchases_count,
e.created_at, e.updated_at`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// Reserve atomically decrements available_tickets by quantity, guarded by
// available_tickets >= quantity in the same statement. The check and the
// write are one indivisible operation; there is no separate read of the
// counter anywhere. No matching row means the event does not exist or has
// too few tickets left, and the two are deliberately indistinguishable.
func (r *EventRepository) Reserve(ctx context.Context, eventID string, quantity int) (domain.Event, error) {
	if quantity <= 0 {
		return domain.Event{}, domain.ErrInvalidQuantity
	}

	const stmt = `
UPDATE events e
SET available_tickets = available_tickets - $2, updated_at = NOW()
WHERE e.id = $1 AND e.available_tickets >= $2
RETURNING` + eventColumns

	event, err := scanEvent(r.queryRow(ctx, stmt, eventID, quantity))
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventUnavailable
		}
		return domain.Event{}, fmt.Errorf("reserve tickets: %w", err)
	}
	return event, nil
}

// ListEvents answers filtered, paginated catalog queries. The WHERE clause is
// assembled from the filter so each predicate lands on one of the
// (category, city, date) indexes; both date bounds present become a single
// combined range predicate.
func (r *EventRepository) ListEvents(ctx context.Context, filter domain.EventFilter, limit, offset int) ([]domain.Event, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Category != "" {
		conds = append(conds, "e.category = "+arg(filter.Category))
	}
	if filter.City != "" {
		conds = append(conds, "e.city = "+arg(filter.City))
	}
	if !filter.DateFrom.IsZero() {
		conds = append(conds, "e.date >= "+arg(filter.DateFrom))
	}
	if !filter.DateTo.IsZero() {
		conds = append(conds, "e.date <= "+arg(filter.DateTo))
	}

	query := `SELECT` + eventColumns + `
FROM events e`
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY e.date ASC, e.id ASC"
	query += "\nLIMIT " + arg(limit) + " OFFSET " + arg(offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// GetEventsByIDs fetches full event rows for a set of identifiers. Order of
// the result is unspecified; ranking callers reorder by their rank list.
func (r *EventRepository) GetEventsByIDs(ctx context.Context, ids []string) ([]domain.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `SELECT` + eventColumns + `
FROM events e
WHERE e.id = ANY($1)`

	rows, err := r.query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get events by ids: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	const query = `SELECT` + eventColumns + `
FROM events e
WHERE e.id = $1`

	event, err := scanEvent(r.queryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// CreateEvent inserts a new event. New events always start with the full
// inventory available; the counter is never written directly after this.
func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, description, date, venue, city, category,
	total_tickets, available_tickets, price, created_at, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $8, $9, $10, $10)`

	_, err := r.exec(ctx, stmt,
		event.ID,
		event.Name,
		event.Description,
		event.Date,
		event.Venue,
		event.City,
		event.Category,
		event.TotalTickets,
		event.Price,
		event.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Date, &e.Venue, &e.City, &e.Category,
		&e.TotalTickets, &e.AvailableTickets, &e.Price,
		&e.PurchasesCount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func collectEvents(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *EventRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *EventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
