package domain

import (
	"context"
	"time"
)

// DayView lists the events on one local day, VIP events first.
// swagger:model DayView
type DayView struct {
	Date     string       `json:"date"`
	Timezone string       `json:"timezone"`
	Events   []*EventView `json:"events"`
}

// DayCell is one square of the month grid. Events holds at most the preview
// limit; HiddenCount is the number of further events on that day.
// swagger:model DayCell
type DayCell struct {
	Date        string       `json:"date"`
	Events      []*EventView `json:"events"`
	HiddenCount int          `json:"hidden_count"`
}

// MonthView is the month grid for one local calendar month.
// swagger:model MonthView
type MonthView struct {
	Month    string    `json:"month"`
	Timezone string    `json:"timezone"`
	Days     []DayCell `json:"days"`
}

// CalendarEncoder renders events as a calendar document (e.g. iCalendar).
type CalendarEncoder interface {
	Encode(name string, events []*EventView) ([]byte, error)
	ContentType() string
}

// CalendarService builds the day, month and feed surfaces.
type CalendarService interface {
	Day(ctx context.Context, day time.Time) (*DayView, error)
	Month(ctx context.Context, month time.Time) (*MonthView, error)
	Feed(ctx context.Context, createdBy string, from, to time.Time) ([]byte, error)
}
