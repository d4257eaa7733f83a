package postgres

import (
	"context"
	"database/sql"
	"errors"

	"happeningvibe/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, created_at, updated_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, p.ID, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
		SELECT id, username, phone_number, birthday, is_vip, is_admin, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	p := &domain.Profile{}
	var username, phone sql.NullString
	var birthday sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &username, &phone, &birthday, &p.IsVIP, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Username = stringPtr(username)
	p.PhoneNumber = stringPtr(phone)
	p.Birthday = timePtr(birthday)
	return p, nil
}

// Update writes the user-editable fields. Flags are managed out of band.
func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET username = $1, phone_number = $2, birthday = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.DB.ExecContext(ctx, query,
		nullString(p.Username), nullString(p.PhoneNumber), nullTime(p.Birthday), p.UpdatedAt, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "profiles_username_key") {
			return domain.ErrUsernameTaken
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
