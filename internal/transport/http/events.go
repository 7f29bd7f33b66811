package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tmarts/boxoffice/internal/app"
	"github.com/tmarts/boxoffice/internal/domain"
)

// EventLister is the minimal interface needed for catalog listings.
type EventLister interface {
	ListEvents(ctx context.Context, filter domain.EventFilter, limit, offset int) ([]domain.Event, error)
}

// EventCreator is the minimal interface needed for admin event creation.
type EventCreator interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
}

// HandleListEvents returns the HTTP handler for filtered, paginated event
// listings.
func HandleListEvents(svc EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		filter := domain.EventFilter{
			Category: q.Get("category"),
			City:     q.Get("city"),
		}

		var err error
		if filter.DateFrom, err = parseDateBound(q.Get("date_from"), false); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidQuery, "invalid date_from")
			return
		}
		if filter.DateTo, err = parseDateBound(q.Get("date_to"), true); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidQuery, "invalid date_to")
			return
		}

		limit, err := parseIntParam(q.Get("limit"), 20)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidQuery, "invalid limit")
			return
		}
		offset, err := parseIntParam(q.Get("offset"), 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidQuery, "invalid offset")
			return
		}

		events, err := svc.ListEvents(r.Context(), filter, limit, offset)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, toEventResponses(events))
	}
}

// HandleCreateEvent returns the HTTP handler for admin event creation.
func HandleCreateEvent(svc EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		var date time.Time
		if req.Date != "" {
			parsed, err := time.Parse(time.RFC3339, req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid date format")
				return
			}
			date = parsed
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			Name:         req.Name,
			Description:  req.Description,
			Date:         date,
			Venue:        req.Venue,
			City:         req.City,
			Category:     req.Category,
			TotalTickets: req.TotalTickets,
			Price:        req.Price,
		})
		if err != nil {
			if ve, ok := domain.AsValidation(err); ok {
				writeError(w, http.StatusUnprocessableEntity, codeValidationFailed, ve.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

type createEventRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Date         string  `json:"date"`
	Venue        string  `json:"venue"`
	City         string  `json:"city"`
	Category     string  `json:"category"`
	TotalTickets int     `json:"total_tickets"`
	Price        float64 `json:"price"`
}

// parseDateBound accepts an RFC 3339 timestamp or a bare date. Bare dates
// widen to the start or end of that day so a date-only range stays inclusive
// on both sides.
func parseDateBound(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return t, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return n, nil
}
