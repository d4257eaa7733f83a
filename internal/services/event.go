package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"happeningvibe/internal/domain"
)

const (
	maxTitleLen       = 50
	maxDescriptionLen = 200
)

type eventService struct {
	eventRepo      domain.EventRepository
	profileRepo    domain.ProfileRepository
	quota          QuotaPolicy
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService returns the EventService enforcing the given quota policy.
func NewEventService(
	eventRepo domain.EventRepository,
	profileRepo domain.ProfileRepository,
	quota QuotaPolicy,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		profileRepo:    profileRepo,
		quota:          quota,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func validateEventInput(in *domain.NewEventInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLen)
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(d) > maxDescriptionLen {
			return fmt.Errorf("%w: description must be at most %d characters", domain.ErrValidation, maxDescriptionLen)
		}
		if d == "" {
			in.Description = nil
		} else {
			in.Description = &d
		}
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if in.StartDate.After(in.EndDate) {
		return domain.ErrInvalidInterval
	}
	return nil
}

// CreateEvent validates in and inserts it. The daily limit is checked by the
// repository inside the insert transaction.
func (s *eventService) CreateEvent(ctx context.Context, userID string, in domain.NewEventInput) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("event creator is required")
	}
	if err := validateEventInput(&in); err != nil {
		return nil, err
	}

	now := s.now()
	event := domain.NewEvent(in.Title, in.Description, in.StartDate, in.EndDate, userID, now)
	if err := s.eventRepo.CreateWithinQuota(ctx, event, s.quota.window(now)); err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create event: %w", err)
	}

	view, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("get created event: %w", err)
	}
	return view, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents returns one page of events overlapping [from, to] and the total match count.
func (s *eventService) ListEvents(ctx context.Context, from, to time.Time, page domain.PaginationParams) ([]*domain.EventView, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if from.After(to) {
		return nil, 0, domain.ErrInvalidInterval
	}
	filter := domain.EventFilter{From: from, To: to, Page: &page}
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	total, err := s.eventRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

// DeleteEvent removes an event. Only its creator or an admin may delete it.
func (s *eventService) DeleteEvent(ctx context.Context, id, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != callerID {
		caller, err := s.profileRepo.GetByID(ctx, callerID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get caller profile: %w", err)
		}
		if caller == nil || !caller.IsAdmin {
			return domain.ErrForbidden
		}
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
