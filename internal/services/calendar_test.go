package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"happeningvibe/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEncoder struct {
	name   string
	events []*domain.EventView
	err    error
}

func (f *fakeEncoder) Encode(name string, events []*domain.EventView) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.name = name
	f.events = events
	return []byte("BEGIN:VCALENDAR"), nil
}

func (f *fakeEncoder) ContentType() string { return "text/calendar" }

func newCalendarFixture() (*calendarService, *fakeProfileRepo, *fakeEventRepo, *fakeEncoder) {
	profiles := newFakeProfileRepo()
	events := newFakeEventRepo(profiles)
	enc := &fakeEncoder{}
	svc := NewCalendarService(events, enc, 5*time.Second).(*calendarService)

	vip := domain.NewProfile("vip", time.Time{}, time.Time{})
	vip.IsVIP = true
	profiles.byID["vip"] = vip
	profiles.byID["regular"] = domain.NewProfile("regular", time.Time{}, time.Time{})
	return svc, profiles, events, enc
}

func titles(events []*domain.EventView) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func TestCalendarService_Day(t *testing.T) {
	svc, _, events, _ := newCalendarFixture()
	events.add(&domain.Event{
		Title:     "Regular Event",
		StartDate: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC),
		CreatedBy: "regular",
	})
	events.add(&domain.Event{
		Title:     "VIP Event",
		StartDate: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 16, 18, 0, 0, 0, time.UTC),
		CreatedBy: "vip",
	})

	tests := []struct {
		name string
		day  time.Time
		want []string
	}{
		{"both on the 15th VIP first", time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), []string{"VIP Event", "Regular Event"}},
		{"multi-day event on the 16th", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), []string{"VIP Event"}},
		{"nothing on the 17th", time.Date(2024, 3, 17, 8, 0, 0, 0, time.UTC), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.Day(context.Background(), tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.day.Format("2006-01-02"), view.Date)
			assert.Equal(t, "UTC", view.Timezone)
			assert.Equal(t, tt.want, titles(view.Events))
		})
	}
}

func TestCalendarService_Day_ViewerTimezone(t *testing.T) {
	svc, _, events, _ := newCalendarFixture()
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	// 2024-03-16 03:00 UTC is the evening of the 15th in Los Angeles.
	events.add(&domain.Event{
		Title:     "Late show",
		StartDate: time.Date(2024, 3, 16, 3, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 16, 4, 0, 0, 0, time.UTC),
		CreatedBy: "regular",
	})

	view, err := svc.Day(context.Background(), time.Date(2024, 3, 15, 0, 0, 0, 0, la))
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", view.Timezone)
	assert.Equal(t, []string{"Late show"}, titles(view.Events))

	view, err = svc.Day(context.Background(), time.Date(2024, 3, 16, 0, 0, 0, 0, la))
	require.NoError(t, err)
	assert.Empty(t, view.Events)
}

func TestCalendarService_Month(t *testing.T) {
	svc, _, events, _ := newCalendarFixture()
	day := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	for _, title := range []string{"R1", "R2", "R3"} {
		events.add(&domain.Event{Title: title, StartDate: day, EndDate: day.Add(time.Hour), CreatedBy: "regular"})
	}
	events.add(&domain.Event{Title: "V1", StartDate: day.Add(2 * time.Hour), EndDate: day.Add(3 * time.Hour), CreatedBy: "vip"})
	events.add(&domain.Event{
		Title:     "Span",
		StartDate: time.Date(2024, 2, 28, 20, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC),
		CreatedBy: "regular",
	})

	view, err := svc.Month(context.Background(), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-02", view.Month)
	require.Len(t, view.Days, 29, "leap February")

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), events.lastList.From)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), events.lastList.To)

	tenth := view.Days[9]
	assert.Equal(t, "2024-02-10", tenth.Date)
	assert.Equal(t, []string{"V1", "R1", "R2"}, titles(tenth.Events))
	assert.Equal(t, 1, tenth.HiddenCount)

	assert.Equal(t, []string{"Span"}, titles(view.Days[27].Events))
	assert.Equal(t, []string{"Span"}, titles(view.Days[28].Events))
	assert.Empty(t, view.Days[0].Events)
	assert.Zero(t, view.Days[0].HiddenCount)
}

func TestCalendarService_Month_SkippedMidnight(t *testing.T) {
	svc, _, events, _ := newCalendarFixture()
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	// Santiago skips 2024-09-08 00:00; this event is still on the 7th.
	events.add(&domain.Event{
		Title:     "Late",
		StartDate: time.Date(2024, 9, 7, 23, 15, 0, 0, loc),
		EndDate:   time.Date(2024, 9, 7, 23, 30, 0, 0, loc),
		CreatedBy: "regular",
	})

	view, err := svc.Month(context.Background(), time.Date(2024, 9, 1, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	require.Len(t, view.Days, 30)

	dates := make(map[string]bool, len(view.Days))
	for _, cell := range view.Days {
		assert.False(t, dates[cell.Date], "duplicate cell %s", cell.Date)
		dates[cell.Date] = true
	}
	assert.Equal(t, "2024-09-07", view.Days[6].Date)
	assert.Equal(t, []string{"Late"}, titles(view.Days[6].Events))
	assert.Equal(t, "2024-09-08", view.Days[7].Date)
	assert.Empty(t, view.Days[7].Events)
}

func TestCalendarService_Feed(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("filters by creator", func(t *testing.T) {
		svc, _, events, enc := newCalendarFixture()
		events.add(&domain.Event{Title: "Mine", StartDate: from, EndDate: from, CreatedBy: "vip"})
		events.add(&domain.Event{Title: "Theirs", StartDate: from, EndDate: from, CreatedBy: "regular"})

		doc, err := svc.Feed(context.Background(), "vip", from, to)
		require.NoError(t, err)
		assert.Equal(t, "BEGIN:VCALENDAR", string(doc))
		assert.Equal(t, feedName, enc.name)
		assert.Equal(t, []string{"Mine"}, titles(enc.events))
	})

	t.Run("inverted range", func(t *testing.T) {
		svc, _, _, _ := newCalendarFixture()
		_, err := svc.Feed(context.Background(), "", to, from)
		require.ErrorIs(t, err, domain.ErrInvalidInterval)
	})

	t.Run("range too wide", func(t *testing.T) {
		svc, _, _, _ := newCalendarFixture()
		_, err := svc.Feed(context.Background(), "", from, from.AddDate(2, 0, 0))
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("encoder error", func(t *testing.T) {
		svc, _, _, enc := newCalendarFixture()
		enc.err = errors.New("boom")
		_, err := svc.Feed(context.Background(), "", from, to)
		require.Error(t, err)
	})
}
