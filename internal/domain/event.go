package domain

import (
	"context"
	"time"
)

// Event is a dated calendar entry owned by the user who created it.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title string, description *string, start, end time.Time, createdBy string, createdAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		CreatedBy:   createdBy,
		CreatedAt:   createdAt,
	}
}

// EventView is an event joined with its creator's display fields.
// IsVIP is looked up from the creator's profile at read time.
// swagger:model EventView
type EventView struct {
	Event
	CreatorUsername *string `json:"creator_username"`
	IsVIP           bool    `json:"is_vip"`
}

// Span returns the event's start and end instants.
func (v *EventView) Span() (time.Time, time.Time) {
	return v.StartDate, v.EndDate
}

// Prioritized reports whether the event is shown ahead of regular events.
func (v *EventView) Prioritized() bool {
	return v.IsVIP
}

// EventFilter selects events overlapping [From, To], ordered by start.
// CreatedBy is optional. A nil Page returns every match.
type EventFilter struct {
	From      time.Time
	To        time.Time
	CreatedBy string
	Page      *PaginationParams
}

// QuotaWindow is the day over which the creation limit is counted.
// A DailyLimit of zero or less disables the check.
type QuotaWindow struct {
	DailyLimit int
	DayStart   time.Time
	DayEnd     time.Time
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// CreateWithinQuota inserts e unless its creator already created
	// DailyLimit events inside the window. Admins are never limited.
	// Returns ErrQuotaExceeded when the limit is hit and ErrNotFound when
	// the creator has no profile.
	CreateWithinQuota(ctx context.Context, e *Event, window QuotaWindow) error
	GetByID(ctx context.Context, id string) (*EventView, error)
	List(ctx context.Context, filter EventFilter) ([]*EventView, error)
	Count(ctx context.Context, filter EventFilter) (int, error)
	Delete(ctx context.Context, id string) error
	CountCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int, error)
}

// NewEventInput carries the user-supplied fields for event creation.
type NewEventInput struct {
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
}

// EventService defines the business logic for events.
type EventService interface {
	CreateEvent(ctx context.Context, userID string, in NewEventInput) (*EventView, error)
	GetEvent(ctx context.Context, id string) (*EventView, error)
	ListEvents(ctx context.Context, from, to time.Time, page PaginationParams) ([]*EventView, int, error)
	DeleteEvent(ctx context.Context, id, callerID string) error
}
