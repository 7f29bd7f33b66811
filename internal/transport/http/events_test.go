package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tmarts/boxoffice/internal/app"
	"github.com/tmarts/boxoffice/internal/domain"
)

type stubLister struct {
	events []domain.Event
	err    error

	gotFilter domain.EventFilter
	gotLimit  int
	gotOffset int
}

func (s *stubLister) ListEvents(_ context.Context, filter domain.EventFilter, limit, offset int) ([]domain.Event, error) {
	s.gotFilter = filter
	s.gotLimit = limit
	s.gotOffset = offset
	return s.events, s.err
}

func TestHandleListEvents(t *testing.T) {
	t.Parallel()

	t.Run("forwards filters and pagination", func(t *testing.T) {
		svc := &stubLister{}
		req := httptest.NewRequest(http.MethodGet,
			"/events?category=concert&city=Boston&date_from=2025-03-01T00:00:00Z&date_to=2025-03-31T23:00:00Z&limit=5&offset=10", nil)
		rec := httptest.NewRecorder()

		HandleListEvents(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.gotFilter.Category != "concert" || svc.gotFilter.City != "Boston" {
			t.Fatalf("unexpected filter: %+v", svc.gotFilter)
		}
		if svc.gotFilter.DateFrom.IsZero() || svc.gotFilter.DateTo.IsZero() {
			t.Fatalf("expected both date bounds set: %+v", svc.gotFilter)
		}
		if svc.gotLimit != 5 || svc.gotOffset != 10 {
			t.Fatalf("expected limit 5 offset 10, got %d %d", svc.gotLimit, svc.gotOffset)
		}
	})

	t.Run("widens bare dates to day bounds", func(t *testing.T) {
		svc := &stubLister{}
		req := httptest.NewRequest(http.MethodGet, "/events?date_from=2025-03-01&date_to=2025-03-02", nil)
		rec := httptest.NewRecorder()

		HandleListEvents(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		wantFrom := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		if !svc.gotFilter.DateFrom.Equal(wantFrom) {
			t.Fatalf("expected date_from at start of day, got %v", svc.gotFilter.DateFrom)
		}
		// End of day: the whole of 2025-03-02 stays inside the range.
		if !svc.gotFilter.DateTo.After(time.Date(2025, 3, 2, 23, 59, 59, 0, time.UTC)) {
			t.Fatalf("expected date_to at end of day, got %v", svc.gotFilter.DateTo)
		}
	})

	t.Run("defaults limit and offset", func(t *testing.T) {
		svc := &stubLister{}
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()

		HandleListEvents(svc).ServeHTTP(rec, req)

		if svc.gotLimit != 20 || svc.gotOffset != 0 {
			t.Fatalf("expected defaults 20/0, got %d/%d", svc.gotLimit, svc.gotOffset)
		}
	})

	t.Run("rejects malformed dates and numbers", func(t *testing.T) {
		for _, query := range []string{"?date_from=soon", "?limit=many", "?offset=x"} {
			req := httptest.NewRequest(http.MethodGet, "/events"+query, nil)
			rec := httptest.NewRecorder()

			HandleListEvents(&stubLister{}).ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("query %q: expected status 400, got %d", query, rec.Code)
			}
		}
	})

	t.Run("renders the full event shape", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		svc := &stubLister{events: []domain.Event{{
			ID: "event-1", Name: "Jazz Night", Date: now, Venue: "Blue Room", City: "Chicago",
			Category: "concert", TotalTickets: 120, AvailableTickets: 80, Price: 42.0,
			PurchasesCount: 7, CreatedAt: now, UpdatedAt: now,
		}}}
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()

		HandleListEvents(svc).ServeHTTP(rec, req)

		var resp []eventResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp) != 1 {
			t.Fatalf("expected 1 event, got %d", len(resp))
		}
		if resp[0].AvailableTickets != 80 || resp[0].PurchasesCount != 7 {
			t.Fatalf("unexpected event payload: %+v", resp[0])
		}
	})
}

type stubCreator struct {
	event domain.Event
	err   error
	got   app.CreateEventInput
}

func (s *stubCreator) CreateEvent(_ context.Context, in app.CreateEventInput) (domain.Event, error) {
	s.got = in
	if s.err != nil {
		return domain.Event{}, s.err
	}
	return s.event, nil
}

func TestHandleCreateEvent(t *testing.T) {
	t.Parallel()

	t.Run("creates and returns the event", func(t *testing.T) {
		svc := &stubCreator{event: domain.Event{ID: "event-1", Name: "Jazz Night", TotalTickets: 120, AvailableTickets: 120}}
		body := `{"name":"Jazz Night","date":"2025-07-01T20:00:00Z","venue":"Blue Room","city":"Chicago","category":"concert","total_tickets":120,"price":42}`
		req := httptest.NewRequest(http.MethodPost, "/admin/events", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		HandleCreateEvent(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		if svc.got.TotalTickets != 120 || svc.got.Price != 42.0 {
			t.Fatalf("unexpected input forwarded: %+v", svc.got)
		}
	})

	t.Run("maps validation errors to 422", func(t *testing.T) {
		svc := &stubCreator{err: &domain.ValidationError{Messages: []string{"name is required"}}}
		req := httptest.NewRequest(http.MethodPost, "/admin/events", bytes.NewBufferString(`{"total_tickets":1,"price":1}`))
		rec := httptest.NewRecorder()

		HandleCreateEvent(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", rec.Code)
		}
	})

	t.Run("rejects bad date format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/events", bytes.NewBufferString(`{"name":"x","date":"tomorrow"}`))
		rec := httptest.NewRecorder()

		HandleCreateEvent(&stubCreator{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}
