package domain

import (
	"context"
	"time"
)

// User is a sign-in identity. Its ID is shared with the user's Profile.
// swagger:model User
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Salt            string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewUser returns a new unverified User. ID is set by the repository on create.
func NewUser(email, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Verified reports whether the user confirmed their email address.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for identity storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash, salt string) error
}

// AuthCodePurpose scopes a one-time code to the flow that issued it.
type AuthCodePurpose string

const (
	PurposeVerifyEmail   AuthCodePurpose = "verify_email"
	PurposeResetPassword AuthCodePurpose = "reset_password"
)

// AuthCodeRepository stores hashed one-time codes for email verification and password reset.
// At most one code is live per email and purpose; Create replaces the previous one.
type AuthCodeRepository interface {
	Create(ctx context.Context, email string, purpose AuthCodePurpose, codeHash string, expiresAt time.Time) error
	Consume(ctx context.Context, email string, purpose AuthCodePurpose, codeHash string) (consumed bool, err error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SignInResult is returned on a successful sign-in.
type SignInResult struct {
	Token   string   `json:"token"`
	User    *User    `json:"user"`
	Profile *Profile `json:"profile"`
}

// AuthService defines sign-up, sign-in and the email-code flows.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
