// Package ical renders events as RFC 5545 iCalendar feeds.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"happeningvibe/internal/domain"
)

const (
	productID   = "-//HappeningVibe//Calendar//EN"
	uidDomain   = "happeningvibe"
	contentType = "text/calendar; charset=utf-8"
	vipCategory = "VIP"
)

type encoder struct {
	now func() time.Time
}

// NewEncoder returns a CalendarEncoder producing PUBLISH-method iCalendar documents.
func NewEncoder() domain.CalendarEncoder {
	return &encoder{now: time.Now}
}

func (e *encoder) ContentType() string { return contentType }

// Encode writes one VEVENT per event. Times are emitted in UTC.
func (e *encoder) Encode(name string, events []*domain.EventView) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := e.now().UTC()
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if ev.StartDate.After(ev.EndDate) {
			return nil, fmt.Errorf("event %s: %w", ev.ID, domain.ErrInvalidInterval)
		}
		vevent := cal.AddEvent(fmt.Sprintf("%s@%s", ev.ID, uidDomain))
		vevent.SetDtStampTime(stamp)
		vevent.SetCreatedTime(ev.CreatedAt.UTC())
		vevent.SetStartAt(ev.StartDate.UTC())
		vevent.SetEndAt(ev.EndDate.UTC())
		vevent.SetSummary(ev.Title)
		if ev.Description != nil && *ev.Description != "" {
			vevent.SetDescription(*ev.Description)
		}
		if ev.CreatorUsername != nil {
			vevent.AddProperty(ics.ComponentPropertyContact, *ev.CreatorUsername)
		}
		if ev.Prioritized() {
			vevent.AddProperty(ics.ComponentPropertyCategories, vipCategory)
		}
	}
	return []byte(cal.Serialize()), nil
}
