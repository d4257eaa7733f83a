package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"happeningvibe/internal/calendar"
	"happeningvibe/internal/delivery/http/helpers"
	"happeningvibe/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// decodeEnvelope decodes the response envelope and, when data is non-nil,
// the envelope's data into it.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) helpers.APIResponse {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw), "response must be valid JSON envelope")
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return helpers.APIResponse{Data: raw.Data, Error: raw.Error}
}

type fakeAuthService struct {
	err          error
	signInResult *domain.SignInResult
	lastEmail    string
	lastPassword string
	lastCode     string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, password string) (*domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: "user-123", Email: email, PasswordHash: "secret-hash"}, nil
}

func (f *fakeAuthService) VerifyEmail(_ context.Context, email, code string) error {
	f.lastEmail, f.lastCode = email, code
	return f.err
}

func (f *fakeAuthService) ResendVerification(_ context.Context, email string) error {
	f.lastEmail = email
	return f.err
}

func (f *fakeAuthService) SignIn(_ context.Context, email, password string) (*domain.SignInResult, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.err != nil {
		return nil, f.err
	}
	return f.signInResult, nil
}

func (f *fakeAuthService) RequestPasswordReset(_ context.Context, email string) error {
	f.lastEmail = email
	return f.err
}

func (f *fakeAuthService) ResetPassword(_ context.Context, email, code, newPassword string) error {
	f.lastEmail, f.lastCode, f.lastPassword = email, code, newPassword
	return f.err
}

type fakeProfileService struct {
	err        error
	account    *domain.Account
	quota      calendar.Quota
	lastUserID string
	lastUpdate domain.ProfileUpdate
}

func (f *fakeProfileService) GetAccount(_ context.Context, userID string) (*domain.Account, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func (f *fakeProfileService) UpdateProfile(_ context.Context, userID string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	f.lastUserID, f.lastUpdate = userID, upd
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Profile{ID: userID, Username: upd.Username, PhoneNumber: upd.PhoneNumber, Birthday: upd.Birthday}, nil
}

func (f *fakeProfileService) GetQuota(_ context.Context, userID string) (calendar.Quota, error) {
	f.lastUserID = userID
	return f.quota, f.err
}

type fakeEventService struct {
	err          error
	events       []*domain.EventView
	total        int
	lastUserID   string
	lastInput    domain.NewEventInput
	lastID       string
	lastFrom     time.Time
	lastTo       time.Time
	lastPage     domain.PaginationParams
	lastCallerID string
}

func (f *fakeEventService) CreateEvent(_ context.Context, userID string, in domain.NewEventInput) (*domain.EventView, error) {
	f.lastUserID, f.lastInput = userID, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EventView{Event: domain.Event{
		ID:          "ev-created",
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedBy:   userID,
	}}, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, id string) (*domain.EventView, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EventView{Event: domain.Event{ID: id, Title: "Launch"}}, nil
}

func (f *fakeEventService) ListEvents(_ context.Context, from, to time.Time, page domain.PaginationParams) ([]*domain.EventView, int, error) {
	f.lastFrom, f.lastTo, f.lastPage = from, to, page
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.events, f.total, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id, callerID string) error {
	f.lastID, f.lastCallerID = id, callerID
	return f.err
}

type fakeCalendarService struct {
	err           error
	lastDay       time.Time
	lastMonth     time.Time
	lastCreatedBy string
	lastFrom      time.Time
	lastTo        time.Time
}

func (f *fakeCalendarService) Day(_ context.Context, day time.Time) (*domain.DayView, error) {
	f.lastDay = day
	if f.err != nil {
		return nil, f.err
	}
	return &domain.DayView{Date: day.Format(dateLayout), Timezone: day.Location().String(), Events: []*domain.EventView{}}, nil
}

func (f *fakeCalendarService) Month(_ context.Context, month time.Time) (*domain.MonthView, error) {
	f.lastMonth = month
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MonthView{Month: month.Format(monthLayout), Timezone: month.Location().String()}, nil
}

func (f *fakeCalendarService) Feed(_ context.Context, createdBy string, from, to time.Time) ([]byte, error) {
	f.lastCreatedBy, f.lastFrom, f.lastTo = createdBy, from, to
	if f.err != nil {
		return nil, f.err
	}
	return []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), nil
}
