package http

import (
	"time"

	"github.com/tmarts/boxoffice/internal/domain"
)

type eventResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Date             time.Time `json:"date"`
	Venue            string    `json:"venue"`
	City             string    `json:"city"`
	Category         string    `json:"category"`
	TotalTickets     int       `json:"total_tickets"`
	AvailableTickets int       `json:"available_tickets"`
	Price            float64   `json:"price"`
	PurchasesCount   int       `json:"purchases_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:               event.ID,
		Name:             event.Name,
		Description:      event.Description,
		Date:             event.Date,
		Venue:            event.Venue,
		City:             event.City,
		Category:         event.Category,
		TotalTickets:     event.TotalTickets,
		AvailableTickets: event.AvailableTickets,
		Price:            event.Price,
		PurchasesCount:   event.PurchasesCount,
		CreatedAt:        event.CreatedAt,
		UpdatedAt:        event.UpdatedAt,
	}
}

func toEventResponses(events []domain.Event) []eventResponse {
	resp := make([]eventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, toEventResponse(event))
	}
	return resp
}

type purchaseResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	Quantity      int       `json:"quantity"`
	TotalPrice    float64   `json:"total_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toPurchaseResponse(purchase domain.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:            purchase.ID,
		EventID:       purchase.EventID,
		CustomerEmail: purchase.CustomerEmail,
		CustomerName:  purchase.CustomerName,
		Quantity:      purchase.Quantity,
		TotalPrice:    purchase.TotalPrice,
		CreatedAt:     purchase.CreatedAt,
		UpdatedAt:     purchase.UpdatedAt,
	}
}
