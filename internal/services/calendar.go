package services

import (
	"context"
	"fmt"
	"time"

	"happeningvibe/internal/calendar"
	"happeningvibe/internal/domain"
)

const (
	// MonthPreviewLimit is how many events a month-grid cell lists before "+N more".
	MonthPreviewLimit = 3
	// MaxFeedRange bounds the span of one calendar feed request.
	MaxFeedRange = 366 * 24 * time.Hour

	feedName    = "HappeningVibe"
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

type calendarService struct {
	eventRepo      domain.EventRepository
	encoder        domain.CalendarEncoder
	contextTimeout time.Duration
}

// NewCalendarService returns the day, month and feed views over eventRepo.
func NewCalendarService(eventRepo domain.EventRepository, encoder domain.CalendarEncoder, timeout time.Duration) domain.CalendarService {
	return &calendarService{
		eventRepo:      eventRepo,
		encoder:        encoder,
		contextTimeout: timeout,
	}
}

// Day lists the events on the local day containing day, VIP events first.
// The location of day selects the viewer's calendar.
func (s *calendarService) Day(ctx context.Context, day time.Time) (*domain.DayView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx, domain.EventFilter{
		From: calendar.StartOfDay(day),
		To:   calendar.EndOfDay(day),
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &domain.DayView{
		Date:     day.Format(dateLayout),
		Timezone: day.Location().String(),
		Events:   calendar.EventsOnDay(events, day, (*domain.EventView).Span, (*domain.EventView).Prioritized),
	}, nil
}

// Month builds the grid for the local month containing month with one query
// for the whole range.
func (s *calendarService) Month(ctx context.Context, month time.Time) (*domain.MonthView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	days := calendar.MonthDays(month)
	events, err := s.eventRepo.List(ctx, domain.EventFilter{
		From: days[0],
		To:   calendar.EndOfDay(days[len(days)-1]),
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	cells := make([]domain.DayCell, 0, len(days))
	for _, day := range days {
		onDay := calendar.EventsOnDay(events, day, (*domain.EventView).Span, (*domain.EventView).Prioritized)
		cell := domain.DayCell{Date: day.Format(dateLayout), Events: onDay}
		if len(onDay) > MonthPreviewLimit {
			cell.Events = onDay[:MonthPreviewLimit]
			cell.HiddenCount = len(onDay) - MonthPreviewLimit
		}
		cells = append(cells, cell)
	}
	return &domain.MonthView{
		Month:    month.Format(monthLayout),
		Timezone: month.Location().String(),
		Days:     cells,
	}, nil
}

// Feed encodes the events overlapping [from, to], optionally only those
// created by createdBy.
func (s *calendarService) Feed(ctx context.Context, createdBy string, from, to time.Time) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if from.After(to) {
		return nil, domain.ErrInvalidInterval
	}
	if to.Sub(from) > MaxFeedRange {
		return nil, fmt.Errorf("%w: feed range must not exceed 366 days", domain.ErrValidation)
	}
	events, err := s.eventRepo.List(ctx, domain.EventFilter{From: from, To: to, CreatedBy: createdBy})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	doc, err := s.encoder.Encode(feedName, events)
	if err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	return doc, nil
}
