package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"happeningvibe/internal/domain"
)

type authCodeRepository struct {
	DB *sql.DB
}

// NewAuthCodeRepository returns a domain.AuthCodeRepository implemented with Postgres.
func NewAuthCodeRepository(db *sql.DB) domain.AuthCodeRepository {
	return &authCodeRepository{DB: db}
}

// Create stores a code, replacing any earlier code for the same email and
// purpose in the same statement.
func (r *authCodeRepository) Create(ctx context.Context, email string, purpose domain.AuthCodePurpose, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO auth_codes (email, purpose, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email, purpose) DO UPDATE
		SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, email, string(purpose), codeHash, expiresAt)
	return err
}

// Consume deletes one matching unexpired code in a single statement, so a
// code can be redeemed at most once.
func (r *authCodeRepository) Consume(ctx context.Context, email string, purpose domain.AuthCodePurpose, codeHash string) (bool, error) {
	query := `
		DELETE FROM auth_codes
		WHERE id = (
			SELECT id FROM auth_codes
			WHERE email = $1 AND purpose = $2 AND code_hash = $3 AND expires_at > NOW()
			LIMIT 1
		)
		RETURNING id
	`
	var id string
	err := r.DB.QueryRowContext(ctx, query, email, string(purpose), codeHash).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *authCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM auth_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
