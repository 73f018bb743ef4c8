package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/dbx"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	query := `
		INSERT INTO sessions (user_id, login_time, expiry_time, is_active, last_activity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		s.UserID, s.LoginTime, s.ExpiryTime, s.IsActive, s.LastActivity, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) FindActive(ctx context.Context, userID string, now time.Time) (*models.Session, error) {
	query := `
		SELECT id, user_id, login_time, expiry_time, is_active, last_activity, created_at
		FROM sessions
		WHERE user_id = $1 AND is_active AND expiry_time > $2
		ORDER BY created_at DESC
		LIMIT 1`

	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, userID, now).
		Scan(&s.ID, &s.UserID, &s.LoginTime, &s.ExpiryTime, &s.IsActive, &s.LastActivity, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Refresh(ctx context.Context, id string, expiry, lastActivity time.Time) error {
	query := `
		UPDATE sessions SET expiry_time = $2, last_activity = $3
		WHERE id = $1`

	return r.execOne(ctx, query, id, expiry, lastActivity)
}

func (r *PostgresRepository) Touch(ctx context.Context, id string, lastActivity time.Time) error {
	query := `
		UPDATE sessions SET last_activity = $2
		WHERE id = $1`

	return r.execOne(ctx, query, id, lastActivity)
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expiry_time <= $1`

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
