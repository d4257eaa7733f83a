package domain

import (
	"context"
	"time"

	"happeningvibe/internal/calendar"
)

// Role codes carried in issued tokens.
const (
	RoleAdmin = "admin"
	RoleVIP   = "vip"
)

// Profile is the public-facing side of a user: display name and flags that
// gate event prioritization (IsVIP) and quota bypass (IsAdmin).
// swagger:model Profile
type Profile struct {
	ID          string     `json:"id"`
	Username    *string    `json:"username"`
	PhoneNumber *string    `json:"phone_number"`
	Birthday    *time.Time `json:"birthday"`
	IsVIP       bool       `json:"is_vip"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewProfile returns an empty profile for a freshly created user.
func NewProfile(userID string, createdAt, updatedAt time.Time) *Profile {
	return &Profile{ID: userID, CreatedAt: createdAt, UpdatedAt: updatedAt}
}

// Roles returns the role codes for the profile's flags.
func (p *Profile) Roles() []string {
	roles := []string{}
	if p.IsAdmin {
		roles = append(roles, RoleAdmin)
	}
	if p.IsVIP {
		roles = append(roles, RoleVIP)
	}
	return roles
}

// ProfileUpdate holds the user-editable fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Username    *string
	PhoneNumber *string
	Birthday    *time.Time
}

// ProfileRepository defines the interface for profile storage.
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
}

// Account bundles a profile with the identity's email for the settings page.
type Account struct {
	Email   string   `json:"email"`
	Profile *Profile `json:"profile"`
}

// ProfileService defines profile reads, edits, and quota lookups.
type ProfileService interface {
	GetAccount(ctx context.Context, userID string) (*Account, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error)
	GetQuota(ctx context.Context, userID string) (calendar.Quota, error)
}
