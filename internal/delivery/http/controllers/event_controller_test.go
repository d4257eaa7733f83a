package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"happeningvibe/internal/delivery/http/middleware"
	"happeningvibe/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEventID = "7f3c2b1a-9d4e-4f6a-8b2c-1e0d9a8b7c6d"

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		noUserContext  bool
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"title":"Launch","start_date":"2024-03-15T10:00:00Z","end_date":"2024-03-15T12:00:00Z"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "no user in context",
			body:           `{"title":"Launch","start_date":"2024-03-15T10:00:00Z","end_date":"2024-03-15T12:00:00Z"}`,
			noUserContext:  true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "bad request invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing fields",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "title is required; start_date is required; end_date is required",
		},
		{
			name:           "bad timestamp",
			body:           `{"title":"Launch","start_date":"tomorrow","end_date":"2024-03-15T12:00:00Z"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "cannot parse",
		},
		{
			name:           "inverted interval",
			body:           `{"title":"Launch","start_date":"2024-03-15T12:00:00Z","end_date":"2024-03-15T10:00:00Z"}`,
			fakeErr:        domain.ErrInvalidInterval,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "start must not be after end",
		},
		{
			name:           "quota exceeded",
			body:           `{"title":"Launch","start_date":"2024-03-15T10:00:00Z","end_date":"2024-03-15T12:00:00Z"}`,
			fakeErr:        domain.ErrQuotaExceeded,
			wantStatus:     http.StatusTooManyRequests,
			wantBodySubstr: "daily event limit reached",
		},
		{
			name:           "service error",
			body:           `{"title":"Launch","start_date":"2024-03-15T10:00:00Z","end_date":"2024-03-15T12:00:00Z"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{err: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()
			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus == http.StatusCreated {
				var event domain.EventView
				decodeEnvelope(t, rr, &event)
				assert.Equal(t, "ev-created", event.ID)
				assert.Equal(t, "user-123", event.CreatedBy)
				assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), fake.lastInput.StartDate.UTC())
				return
			}
			env := decodeEnvelope(t, rr, nil)
			require.NotNil(t, env.Error)
			assert.Contains(t, env.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestEventController_ListEvents(t *testing.T) {
	t.Run("success with pagination", func(t *testing.T) {
		fake := &fakeEventService{
			events: []*domain.EventView{{Event: domain.Event{ID: "ev-1"}}, {Event: domain.Event{ID: "ev-2"}}},
			total:  45,
		}
		ctrl := NewEventController(testLogger, fake)

		req := httptest.NewRequest(http.MethodGet, "/events?from=2024-03-01T00:00:00Z&to=2024-03-31T23:59:59Z&page=2&page_size=10", nil)
		rr := httptest.NewRecorder()
		ctrl.ListEvents(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp ListEventsResponse
		decodeEnvelope(t, rr, &resp)
		assert.Len(t, resp.Events, 2)
		assert.Equal(t, 2, resp.Pagination.Page)
		assert.Equal(t, 10, resp.Pagination.PageSize)
		assert.Equal(t, 45, resp.Pagination.Total)
		assert.Equal(t, 5, resp.Pagination.TotalPages)
		assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 10}, fake.lastPage)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), fake.lastFrom.UTC())
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		req := httptest.NewRequest(http.MethodGet, "/events?from=2024-03-01T00:00:00Z&to=2024-03-31T00:00:00Z", nil)
		rr := httptest.NewRecorder()
		ctrl.ListEvents(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"events":[]`)
	})

	for _, query := range []string{"", "?from=2024-03-01T00:00:00Z", "?from=yesterday&to=2024-03-31T00:00:00Z"} {
		t.Run("bad range "+query, func(t *testing.T) {
			ctrl := NewEventController(testLogger, &fakeEventService{})
			rr := httptest.NewRecorder()
			ctrl.ListEvents(rr, httptest.NewRequest(http.MethodGet, "/events"+query, nil))
			require.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestEventController_GetEvent(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		fakeErr    error
		wantStatus int
	}{
		{"success", testEventID, nil, http.StatusOK},
		{"invalid uuid", "not-a-uuid", nil, http.StatusBadRequest},
		{"not found", testEventID, domain.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{err: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)

			req := httptest.NewRequest(http.MethodGet, "/events/"+tt.eventID, nil)
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()
			ctrl.GetEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var event domain.EventView
				decodeEnvelope(t, rr, &event)
				assert.Equal(t, testEventID, event.ID)
			}
		})
	}
}

func TestEventController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name          string
		eventID       string
		fakeErr       error
		noUserContext bool
		wantStatus    int
	}{
		{"success", testEventID, nil, false, http.StatusNoContent},
		{"invalid uuid", "123", nil, false, http.StatusBadRequest},
		{"no user in context", testEventID, nil, true, http.StatusUnauthorized},
		{"not owner", testEventID, domain.ErrForbidden, false, http.StatusForbidden},
		{"not found", testEventID, domain.ErrNotFound, false, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{err: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)

			req := httptest.NewRequest(http.MethodDelete, "/events/"+tt.eventID, nil)
			req.SetPathValue("eventID", tt.eventID)
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()
			ctrl.DeleteEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, testEventID, fake.lastID)
				assert.Equal(t, "user-123", fake.lastCallerID)
				assert.Empty(t, rr.Body.String())
			}
		})
	}
}
