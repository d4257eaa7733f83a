package controllers

import (
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

func newTestCalendarController(fake *fakeCalendarService) *CalendarController {
	ctrl := NewCalendarController(testLogger, fake, "text/calendar; charset=utf-8", time.UTC)
	ctrl.now = func() time.Time { return time.Date(2024, 3, 15, 22, 30, 0, 0, time.UTC) }
	return ctrl
}

func TestCalendarController_Day(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	santiago, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantDay    time.Time
	}{
		{"explicit date", "?date=2024-03-17", http.StatusOK, time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC)},
		{"explicit date and zone", "?date=2024-03-17&tz=Asia/Tokyo", http.StatusOK, time.Date(2024, 3, 17, 12, 0, 0, 0, tokyo)},
		{"date with skipped midnight", "?date=2024-09-08&tz=America/Santiago", http.StatusOK, time.Date(2024, 9, 8, 12, 0, 0, 0, santiago)},
		{"defaults to today", "", http.StatusOK, time.Date(2024, 3, 15, 22, 30, 0, 0, time.UTC)},
		{"today in viewer zone", "?tz=Asia/Tokyo", http.StatusOK, time.Date(2024, 3, 16, 7, 30, 0, 0, tokyo)},
		{"bad date", "?date=15-03-2024", http.StatusBadRequest, time.Time{}},
		{"bad zone", "?tz=Mars/Olympus", http.StatusBadRequest, time.Time{}},
		{"server zone rejected", "?tz=Local", http.StatusBadRequest, time.Time{}},
		{"server zone rejected any case", "?tz=local", http.StatusBadRequest, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCalendarService{}
			rr := httptest.NewRecorder()
			newTestCalendarController(fake).Day(rr, httptest.NewRequest(http.MethodGet, "/calendar/day"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, tt.wantDay.Equal(fake.lastDay), "got %v", fake.lastDay)
				assert.Equal(t, tt.wantDay.Location().String(), fake.lastDay.Location().String())
				assert.Equal(t, tt.wantDay.Format(dateLayout), fake.lastDay.Format(dateLayout))
			}
		})
	}
}

func TestCalendarController_Month(t *testing.T) {
	fake := &fakeCalendarService{}
	ctrl := newTestCalendarController(fake)

	rr := httptest.NewRecorder()
	ctrl.Month(rr, httptest.NewRequest(http.MethodGet, "/calendar/month?month=2024-02", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var view domain.MonthView
	decodeEnvelope(t, rr, &view)
	assert.Equal(t, "2024-02", view.Month)
	assert.Equal(t, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), fake.lastMonth)

	rr = httptest.NewRecorder()
	ctrl.Month(rr, httptest.NewRequest(http.MethodGet, "/calendar/month?month=2024-13", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "YYYY-MM")

	fake.err = errors.New("db down")
	rr = httptest.NewRecorder()
	ctrl.Month(rr, httptest.NewRequest(http.MethodGet, "/calendar/month", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCalendarController_Feed(t *testing.T) {
	const rangeQuery = "from=2024-03-01T00:00:00Z&to=2024-03-31T00:00:00Z"

	tests := []struct {
		name          string
		query         string
		noUserContext bool
		fakeErr       error
		wantStatus    int
		wantCreatedBy string
	}{
		{"all events", rangeQuery, false, nil, http.StatusOK, ""},
		{"mine", rangeQuery + "&mine=true", false, nil, http.StatusOK, "user-123"},
		{"mine false", rangeQuery + "&mine=false", false, nil, http.StatusOK, ""},
		{"mine without user", rangeQuery + "&mine=true", true, nil, http.StatusUnauthorized, ""},
		{"mine not a bool", rangeQuery + "&mine=yes", false, nil, http.StatusBadRequest, ""},
		{"missing range", "", false, nil, http.StatusBadRequest, ""},
		{"range too wide", rangeQuery, false, domain.ErrValidation, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCalendarService{err: tt.fakeErr}
			req := httptest.NewRequest(http.MethodGet, "/calendar/feed.ics?"+tt.query, nil)
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()
			newTestCalendarController(fake).Feed(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, "text/calendar; charset=utf-8", rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Header().Get("Content-Disposition"), "happeningvibe.ics")
			assert.Contains(t, rr.Body.String(), "BEGIN:VCALENDAR")
			assert.Equal(t, tt.wantCreatedBy, fake.lastCreatedBy)
		})
	}
}
