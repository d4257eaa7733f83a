package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"happeningvibe/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventViewColumns = `e.id, e.title, e.description, e.start_date, e.end_date, e.created_by, e.created_at,
		p.username, COALESCE(p.is_vip, FALSE)`

// CreateWithinQuota locks the creator's profile row for the duration of the
// transaction, so concurrent creations by the same account are serialized
// and the count-then-insert cannot be raced.
func (r *eventRepository) CreateWithinQuota(ctx context.Context, e *domain.Event, window domain.QuotaWindow) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var isAdmin bool
	err = tx.QueryRowContext(ctx, `SELECT is_admin FROM profiles WHERE id = $1 FOR UPDATE`, e.CreatedBy).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if !isAdmin && window.DailyLimit > 0 {
		var count int
		countQuery := `
			SELECT COUNT(*) FROM events
			WHERE created_by = $1 AND created_at BETWEEN $2 AND $3
		`
		if err = tx.QueryRowContext(ctx, countQuery, e.CreatedBy, window.DayStart, window.DayEnd).Scan(&count); err != nil {
			return err
		}
		if count >= window.DailyLimit {
			return domain.ErrQuotaExceeded
		}
	}

	insert := `
		INSERT INTO events (title, description, start_date, end_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insert,
		e.Title, nullString(e.Description), e.StartDate, e.EndDate, e.CreatedBy, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.EventView, error) {
	query := `
		SELECT ` + eventViewColumns + `
		FROM events e
		LEFT JOIN profiles p ON p.id = e.created_by
		WHERE e.id = $1
	`
	v, err := scanEventView(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// whereClause builds the overlap filter shared by List and Count.
func whereClause(f domain.EventFilter) (string, []any) {
	where := `WHERE e.start_date <= $1 AND e.end_date >= $2`
	args := []any{f.To, f.From}
	if f.CreatedBy != "" {
		args = append(args, f.CreatedBy)
		where += fmt.Sprintf(" AND e.created_by = $%d", len(args))
	}
	return where, args
}

func (r *eventRepository) List(ctx context.Context, f domain.EventFilter) ([]*domain.EventView, error) {
	where, args := whereClause(f)
	query := `
		SELECT ` + eventViewColumns + `
		FROM events e
		LEFT JOIN profiles p ON p.id = e.created_by
		` + where + `
		ORDER BY e.start_date, e.id`
	if f.Page != nil {
		args = append(args, f.Page.PageSize, f.Page.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.EventView, 0)
	for rows.Next() {
		v, err := scanEventView(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, v)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, f domain.EventFilter) (int, error) {
	where, args := whereClause(f)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e `+where, args...).Scan(&n)
	return n, err
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) CountCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM events
		WHERE created_by = $1 AND created_at BETWEEN $2 AND $3
	`
	var n int
	err := r.DB.QueryRowContext(ctx, query, userID, from, to).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEventView(row rowScanner) (*domain.EventView, error) {
	v := &domain.EventView{}
	var desc, username sql.NullString
	err := row.Scan(
		&v.ID, &v.Title, &desc, &v.StartDate, &v.EndDate, &v.CreatedBy, &v.CreatedAt,
		&username, &v.IsVIP,
	)
	if err != nil {
		return nil, err
	}
	v.Description = stringPtr(desc)
	v.CreatorUsername = stringPtr(username)
	return v, nil
}
