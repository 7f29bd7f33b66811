package domain

import "time"

// Event is a ticketed event with a fixed total inventory.
//
// AvailableTickets is the only shared mutable field in the system. It is
// written exclusively through the conditional reservation update in the
// storage layer; nothing else may read-then-write it.
type Event struct {
	ID               string
	Name             string
	Description      string
	Date             time.Time
	Venue            string
	City             string
	Category         string
	TotalTickets     int
	AvailableTickets int
	Price            float64
	// PurchasesCount is derived on read (count of ledger rows); it is not
	// stored and plays no part in the inventory invariant.
	PurchasesCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EventFilter narrows catalog listings. Zero values mean "no constraint".
// When both date bounds are set they act as a single inclusive range.
type EventFilter struct {
	Category string
	City     string
	DateFrom time.Time
	DateTo   time.Time
}

// EventScore is one row of the popularity ranking: an event and the sum of
// ticket quantities purchased for it inside the ranking window.
type EventScore struct {
	EventID string
	Score   int
}
