package services

import (
	"time"

	"happeningvibe/internal/calendar"
	"happeningvibe/internal/domain"
)

// QuotaPolicy is the daily event-creation limit and the timezone whose
// calendar day the limit is counted over.
type QuotaPolicy struct {
	DailyLimit int
	Location   *time.Location
}

// window returns the quota window containing now.
func (p QuotaPolicy) window(now time.Time) domain.QuotaWindow {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return domain.QuotaWindow{
		DailyLimit: p.DailyLimit,
		DayStart:   calendar.StartOfDay(local),
		DayEnd:     calendar.EndOfDay(local),
	}
}
