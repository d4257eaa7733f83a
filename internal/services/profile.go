package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"happeningvibe/internal/calendar"
	"happeningvibe/internal/domain"
)

var (
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
	phoneRegexp    = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
)

type profileService struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	eventRepo      domain.EventRepository
	quota          QuotaPolicy
	contextTimeout time.Duration
	now            func() time.Time
}

// NewProfileService returns the ProfileService backed by the given repositories.
func NewProfileService(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	eventRepo domain.EventRepository,
	quota QuotaPolicy,
	timeout time.Duration,
) domain.ProfileService {
	return &profileService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		eventRepo:      eventRepo,
		quota:          quota,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *profileService) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &domain.Account{Email: user.Email, Profile: profile}, nil
}

// UpdateProfile applies upd. A username can be set once; resubmitting the
// current value is accepted. An empty phone number clears it.
func (s *profileService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if !usernameRegexp.MatchString(username) {
			return nil, fmt.Errorf("%w: username must be 3-30 letters, digits, '_' or '.'", domain.ErrValidation)
		}
		if profile.Username != nil && *profile.Username != username {
			return nil, domain.ErrUsernameImmutable
		}
		profile.Username = &username
	}
	if upd.PhoneNumber != nil {
		phone := strings.TrimSpace(*upd.PhoneNumber)
		switch {
		case phone == "":
			profile.PhoneNumber = nil
		case !phoneRegexp.MatchString(phone):
			return nil, fmt.Errorf("%w: invalid phone number", domain.ErrValidation)
		default:
			profile.PhoneNumber = &phone
		}
	}
	if upd.Birthday != nil {
		if upd.Birthday.After(s.now()) {
			return nil, fmt.Errorf("%w: birthday cannot be in the future", domain.ErrValidation)
		}
		b := calendar.StartOfDay(*upd.Birthday)
		profile.Birthday = &b
	}

	profile.UpdatedAt = s.now()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) GetQuota(ctx context.Context, userID string) (calendar.Quota, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return calendar.Quota{}, fmt.Errorf("get profile: %w", err)
	}
	if profile.IsAdmin || s.quota.DailyLimit <= 0 {
		return calendar.NewQuota(true, s.quota.DailyLimit, 0), nil
	}
	w := s.quota.window(s.now())
	count, err := s.eventRepo.CountCreatedBetween(ctx, userID, w.DayStart, w.DayEnd)
	if err != nil {
		return calendar.Quota{}, fmt.Errorf("count today's events: %w", err)
	}
	return calendar.NewQuota(false, s.quota.DailyLimit, count), nil
}
