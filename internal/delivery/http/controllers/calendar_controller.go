package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	h "happeningvibe/internal/delivery/http/helpers"
	"happeningvibe/internal/delivery/http/middleware"
	"happeningvibe/internal/domain"
)

const monthLayout = "2006-01"

type CalendarController struct {
	Logger          *slog.Logger
	Service         domain.CalendarService
	FeedContentType string
	DefaultLocation *time.Location
	now             func() time.Time
}

func NewCalendarController(logger *slog.Logger, svc domain.CalendarService, feedContentType string, defaultLoc *time.Location) *CalendarController {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &CalendarController{
		Logger:          logger,
		Service:         svc,
		FeedContentType: feedContentType,
		DefaultLocation: defaultLoc,
		now:             time.Now,
	}
}

// parseLocal reads param in layout as a date in the tz location, anchored at
// local noon. Missing values default to now.
func (c *CalendarController) parseLocal(w http.ResponseWriter, r *http.Request, param, layout string) (time.Time, bool) {
	loc, ok := loadLocation(r, c.DefaultLocation)
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "tz must be an IANA time zone name")
		return time.Time{}, false
	}
	v := r.URL.Query().Get(param)
	if v == "" {
		return c.now().In(loc), true
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, param+" must be "+layoutHint(layout))
		return time.Time{}, false
	}
	// Local midnight may not exist; noon always does and stays on the date.
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, loc), true
}

func layoutHint(layout string) string {
	if layout == monthLayout {
		return "YYYY-MM"
	}
	return "YYYY-MM-DD"
}

// Day godoc
// @Summary Events on one day
// @Description Events on the local day, VIP creators first.
// @Tags calendar
// @Produce json
// @Param date query string false "Day as YYYY-MM-DD (default today)"
// @Param tz query string false "IANA time zone (default DEFAULT_TIMEZONE); Local is rejected"
// @Success 200 {object} helpers.APIResponse "data contains date, timezone and events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/day [get]
func (c *CalendarController) Day(w http.ResponseWriter, r *http.Request) {
	day, ok := c.parseLocal(w, r, "date", dateLayout)
	if !ok {
		return
	}
	view, err := c.Service.Day(r.Context(), day)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, view)
}

// Month godoc
// @Summary Month grid
// @Description One cell per local day with up to three events and a count of the rest.
// @Tags calendar
// @Produce json
// @Param month query string false "Month as YYYY-MM (default this month)"
// @Param tz query string false "IANA time zone (default DEFAULT_TIMEZONE); Local is rejected"
// @Success 200 {object} helpers.APIResponse "data contains month, timezone and days"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/month [get]
func (c *CalendarController) Month(w http.ResponseWriter, r *http.Request) {
	month, ok := c.parseLocal(w, r, "month", monthLayout)
	if !ok {
		return
	}
	view, err := c.Service.Month(r.Context(), month)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, view)
}

// Feed godoc
// @Summary iCalendar feed
// @Description Events overlapping [from, to] as an ICS document. mine=true restricts to the caller's events.
// @Tags calendar
// @Produce text/calendar
// @Security BearerAuth
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Param mine query bool false "Only the caller's events"
// @Success 200 {string} string "ICS document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/feed.ics [get]
func (c *CalendarController) Feed(w http.ResponseWriter, r *http.Request) {
	from, to, problem := parseRange(r)
	if problem != "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, problem)
		return
	}
	var createdBy string
	if v := r.URL.Query().Get("mine"); v != "" {
		mine, err := strconv.ParseBool(v)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "mine must be a boolean")
			return
		}
		if mine {
			userID, ok := middleware.UserIDFromContext(r.Context())
			if !ok {
				writeUnauthorized(w)
				return
			}
			createdBy = userID
		}
	}
	doc, err := c.Service.Feed(r.Context(), createdBy, from, to)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", c.FeedContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="happeningvibe.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
