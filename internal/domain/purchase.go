package domain

import "time"

// Purchase is one ledger entry: a quantity of tickets bought for an event.
// Rows are created only after the matching reservation has decremented the
// event, and are never updated or deleted afterwards. TotalPrice captures
// the event price at purchase time; later price edits do not touch it.
type Purchase struct {
	ID            string
	EventID       string
	CustomerEmail string
	CustomerName  string
	Quantity      int
	TotalPrice    float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
