package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/dbx"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
)

const entryColumns = `id, user_id, website, username, encrypted_password, category, notes, url, tags, is_favorite, last_modified, created_at`

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
// Tags are kept in a JSONB array to preserve their order.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.PasswordEntry) (*models.PasswordEntry, error) {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO password_entries (user_id, website, username, encrypted_password, category, notes, url, tags, is_favorite, last_modified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11)
		RETURNING id`

	err = r.db.QueryRowContext(ctx, query,
		e.UserID, e.Website, e.Username, e.EncryptedPassword, string(e.Category), e.Notes, e.URL,
		tags, e.IsFavorite, e.LastModified, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.PasswordEntry, error) {
	// a malformed id cannot exist; answer without a round-trip that would fail the uuid cast
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + entryColumns + ` FROM password_entries WHERE id = $1`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.PasswordEntry, error) {
	query, args := buildListQuery(userID, filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.PasswordEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func buildListQuery(userID string, filter models.EntryFilter) (string, []any) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString(`SELECT ` + entryColumns + ` FROM password_entries WHERE user_id = $1`)

	if filter.ByCategory() {
		args = append(args, string(filter.Category))
		fmt.Fprintf(&sb, ` AND category = $%d`, len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		fmt.Fprintf(&sb, ` AND (website ILIKE $%[1]d OR username ILIKE $%[1]d OR notes ILIKE $%[1]d`+
			` OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS tag WHERE tag ILIKE $%[1]d))`, n)
	}

	sb.WriteString(` ORDER BY created_at DESC`)
	return sb.String(), args
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.PasswordEntry) error {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE password_entries SET
			website = $2, username = $3, encrypted_password = $4, category = $5,
			notes = $6, url = $7, tags = $8::jsonb, is_favorite = $9, last_modified = $10
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Website, e.Username, e.EncryptedPassword, string(e.Category),
		e.Notes, e.URL, tags, e.IsFavorite, e.LastModified)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM password_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.PasswordEntry, error) {
	var (
		e        models.PasswordEntry
		category string
		tags     []byte
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Website, &e.Username, &e.EncryptedPassword, &category,
		&e.Notes, &e.URL, &tags, &e.IsFavorite, &e.LastModified, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Category = models.Category(category)
	e.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &e.Tags); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

