package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tmarts/boxoffice/internal/app"
	"github.com/tmarts/boxoffice/internal/domain"
)

// TicketPurchaser is the minimal interface needed to buy tickets.
type TicketPurchaser interface {
	PurchaseTickets(ctx context.Context, in app.PurchaseTicketsInput) (domain.Purchase, error)
}

// HandlePurchaseTickets returns the HTTP handler for ticket purchases. The
// response body always carries the {purchase, errors} pair: a fully-formed
// purchase with no errors, or a null purchase with a non-empty error list.
func HandlePurchaseTickets(svc TicketPurchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req purchaseTicketsRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writePurchaseErrors(w, http.StatusBadRequest, "invalid request body")
			return
		}

		purchase, err := svc.PurchaseTickets(r.Context(), app.PurchaseTicketsInput{
			EventID:       req.EventID,
			CustomerEmail: req.CustomerEmail,
			CustomerName:  req.CustomerName,
			Quantity:      req.Quantity,
		})
		if err != nil {
			if ve, ok := domain.AsValidation(err); ok {
				writePurchaseErrors(w, http.StatusUnprocessableEntity, ve.Messages...)
				return
			}
			switch {
			case errors.Is(err, domain.ErrInvalidQuantity):
				writePurchaseErrors(w, http.StatusUnprocessableEntity, err.Error())
			case errors.Is(err, domain.ErrEventUnavailable):
				writePurchaseErrors(w, http.StatusConflict, err.Error())
			default:
				writePurchaseErrors(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		resp := toPurchaseResponse(purchase)
		writeJSON(w, http.StatusCreated, purchaseTicketsResponse{
			Purchase: &resp,
			Errors:   []string{},
		})
	}
}

type purchaseTicketsRequest struct {
	EventID       string `json:"event_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	Quantity      int    `json:"quantity"`
}

type purchaseTicketsResponse struct {
	Purchase *purchaseResponse `json:"purchase"`
	Errors   []string          `json:"errors"`
}

func writePurchaseErrors(w http.ResponseWriter, status int, messages ...string) {
	writeJSON(w, status, purchaseTicketsResponse{
		Purchase: nil,
		Errors:   messages,
	})
}
