package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "happeningvibe/internal/delivery/http/helpers"
	"happeningvibe/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, h.ErrCodeBadRequest},
	{domain.ErrInvalidInterval, http.StatusBadRequest, h.ErrCodeBadRequest},
	{domain.ErrInvalidCode, http.StatusBadRequest, h.ErrCodeBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, h.ErrCodeUnauthorized},
	{domain.ErrEmailNotVerified, http.StatusForbidden, h.ErrCodeForbidden},
	{domain.ErrForbidden, http.StatusForbidden, h.ErrCodeForbidden},
	{domain.ErrNotFound, http.StatusNotFound, h.ErrCodeNotFound},
	{domain.ErrDuplicateEmail, http.StatusConflict, h.ErrCodeConflict},
	{domain.ErrUsernameTaken, http.StatusConflict, h.ErrCodeConflict},
	{domain.ErrUsernameImmutable, http.StatusConflict, h.ErrCodeConflict},
	{domain.ErrQuotaExceeded, http.StatusTooManyRequests, h.ErrCodeTooManyRequests},
}

// writeServiceError maps a service error to its status code. Unmapped errors
// are logged and reported as a generic 500 so internals do not leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			h.WriteJSONError(w, m.status, m.code, publicMessage(err, m.err))
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
}

// publicMessage strips the "validation failed: " prefix added by
// fmt.Errorf("%w: ...") so clients see only the detail.
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	if sentinel == domain.ErrValidation {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}

func writeUnauthorized(w http.ResponseWriter) {
	h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
}

// loadLocation resolves the tz query parameter, falling back to def.
func loadLocation(r *http.Request, def *time.Location) (*time.Location, bool) {
	name := strings.TrimSpace(r.URL.Query().Get("tz"))
	if name == "" {
		return def, true
	}
	// "Local" would expose the server's own zone.
	if strings.EqualFold(name, "Local") {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// parseRange reads the RFC 3339 from and to query parameters. Both are required.
func parseRange(r *http.Request) (from, to time.Time, problem string) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		return time.Time{}, time.Time{}, "from and to are required"
	}
	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, "from must be an RFC 3339 timestamp"
	}
	to, err = time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, "to must be an RFC 3339 timestamp"
	}
	return from, to, ""
}
