package http

import (
	"context"
	"net/http"

	"github.com/tmarts/boxoffice/internal/domain"
)

// EventRanker is the minimal interface needed for popularity listings.
type EventRanker interface {
	PopularEvents(ctx context.Context, limit, days int) ([]domain.Event, error)
}

// HandlePopularEvents returns the HTTP handler for the popularity ranking.
// Results arrive already ordered most popular first.
func HandlePopularEvents(svc EventRanker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		limit, err := parseIntParam(q.Get("limit"), 10)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidQuery, "invalid limit")
			return
		}
		days, err := parseIntParam(q.Get("days"), 7)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidQuery, "invalid days")
			return
		}

		events, err := svc.PopularEvents(r.Context(), limit, days)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, toEventResponses(events))
	}
}
