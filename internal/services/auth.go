package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"happeningvibe/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	codeRepo       domain.AuthCodeRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAuthService wires sign-up, sign-in and the emailed-code flows.
func NewAuthService(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	codeRepo domain.AuthCodeRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		codeRepo:       codeRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := domain.NewUser(email, hash, salt, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.profileRepo.Create(ctx, domain.NewProfile(user.ID, now, now)); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	// The account exists at this point; a failed email is recoverable via resend.
	if err := s.sendCode(ctx, email, domain.PurposeVerifyEmail); err != nil {
		s.logger.ErrorContext(ctx, "verification email failed", "user_id", user.ID, "err", err)
	}
	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if err := s.consumeCode(ctx, email, domain.PurposeVerifyEmail, code); err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		return fmt.Errorf("get user: %w", err)
	}
	if err := s.userRepo.MarkEmailVerified(ctx, user.ID, s.now()); err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return nil
}

// ResendVerification is silent for unknown or already verified addresses.
func (s *authService) ResendVerification(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.Verified() {
		return nil
	}
	return s.sendCode(ctx, email, domain.PurposeVerifyEmail)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*domain.SignInResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Verified() {
		return nil, domain.ErrEmailNotVerified
	}

	profile, err := s.ensureProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, profile.Roles(), s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.SignInResult{Token: token, User: user, Profile: profile}, nil
}

// RequestPasswordReset is silent for unknown addresses.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}
	return s.sendCode(ctx, email, domain.PurposeResetPassword)
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if err := s.consumeCode(ctx, email, domain.PurposeResetPassword, code); err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		return fmt.Errorf("get user: %w", err)
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(salt, newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	// Redeeming a reset code proves control of the inbox.
	if !user.Verified() {
		if err := s.userRepo.MarkEmailVerified(ctx, user.ID, s.now()); err != nil {
			return fmt.Errorf("mark email verified: %w", err)
		}
	}
	return nil
}

func (s *authService) sendCode(ctx context.Context, email string, purpose domain.AuthCodePurpose) error {
	code, err := generateCode(codeDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	expiresAt := s.now().Add(codeExpiryMinutes * time.Minute)
	if err := s.codeRepo.Create(ctx, email, purpose, hashCode(code), expiresAt); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	data := &domain.CodeEmailData{Email: email, Code: code, ExpiresInMinutes: codeExpiryMinutes}
	switch purpose {
	case domain.PurposeResetPassword:
		err = s.emailService.SendPasswordResetCode(ctx, data)
	default:
		err = s.emailService.SendVerificationCode(ctx, data)
	}
	if err != nil {
		return fmt.Errorf("send %s code: %w", purpose, err)
	}
	return nil
}

func (s *authService) consumeCode(ctx context.Context, email string, purpose domain.AuthCodePurpose, code string) error {
	code = strings.TrimSpace(code)
	if !codeRegexp.MatchString(code) {
		return domain.ErrInvalidCode
	}
	consumed, err := s.codeRepo.Consume(ctx, email, purpose, hashCode(code))
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if !consumed {
		return domain.ErrInvalidCode
	}
	return nil
}

// ensureProfile returns the user's profile, creating an empty one for
// accounts whose sign-up stopped before the profile was written.
func (s *authService) ensureProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	now := s.now()
	profile = domain.NewProfile(userID, now, now)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}
