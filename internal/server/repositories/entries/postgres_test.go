package entries

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entryID = "6f1c1c1e-8d8b-4b8e-9f57-0c1d2e3f4a5b"

var (
	t0   = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	cols = []string{"id", "user_id", "website", "username", "encrypted_password", "category", "notes", "url", "tags", "is_favorite", "last_modified", "created_at"}
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+password_entries\s*\(.*\)\s*VALUES\s*\(.*\$8::jsonb.*\)\s*RETURNING\s+id`).
		WithArgs("u1", "github.com", "a", "ct", "work", "", "", `["dev","git"]`, true, t0, t0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(entryID))

	e := &models.PasswordEntry{
		UserID: "u1", Website: "github.com", Username: "a", EncryptedPassword: "ct",
		Category: models.CategoryWork, Tags: []string{"dev", "git"}, IsFavorite: true,
		LastModified: t0, CreatedAt: t0,
	}
	got, err := repo.Create(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, entryID, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilTagsStoredAsEmptyArray(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+password_entries`).
		WithArgs("u1", "w", "u", "ct", "other", "", "", `[]`, false, t0, t0).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.PasswordEntry{
		UserID: "u1", Website: "w", Username: "u", EncryptedPassword: "ct", Category: models.CategoryOther,
		LastModified: t0, CreatedAt: t0,
	})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*user_id,.*FROM\s+password_entries\s+WHERE\s+id\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs(entryID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(entryID, "u1", "github.com", "a", "ct", "work", "n", "https://github.com", []byte(`["x","y"]`), false, t0, t0))

	e, err := repo.GetByID(context.Background(), entryID)
	require.NoError(t, err)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, models.CategoryWork, e.Category)
	assert.Equal(t, []string{"x", "y"}, e.Tags)

	mock.ExpectQuery(q).WithArgs(entryID).WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), entryID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// malformed ids never reach the database
	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildListQuery(t *testing.T) {
	q, args := buildListQuery("u1", models.EntryFilter{})
	assert.Equal(t, []any{"u1"}, args)
	assert.NotContains(t, q, "category =")
	assert.NotContains(t, q, "ILIKE")
	assert.Contains(t, q, "ORDER BY created_at DESC")

	q, args = buildListQuery("u1", models.EntryFilter{Category: models.CategoryAll})
	assert.Equal(t, []any{"u1"}, args)
	assert.NotContains(t, q, "category =")

	q, args = buildListQuery("u1", models.EntryFilter{Category: models.CategoryFinance, Search: "50%_off"})
	assert.Equal(t, []any{"u1", "finance", `%50\%\_off%`}, args)
	assert.Contains(t, q, "AND category = $2")
	assert.Contains(t, q, "website ILIKE $3 OR username ILIKE $3 OR notes ILIKE $3")
	assert.Contains(t, q, "jsonb_array_elements_text(tags) AS tag WHERE tag ILIKE $3")

	_, args = buildListQuery("u1", models.EntryFilter{Search: "git"})
	assert.Equal(t, []any{"u1", "%git%"}, args)
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(cols).
		AddRow("e2", "u1", "Gitlab", "b", "ct2", "work", "", "", []byte(`[]`), false, t0, t0.Add(time.Minute)).
		AddRow("e1", "u1", "GitHub", "a", "ct1", "work", "", "", []byte(`["code"]`), true, t0, t0)
	mock.ExpectQuery(`(?s)FROM\s+password_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+\(website\s+ILIKE\s+\$2.*ORDER\s+BY\s+created_at\s+DESC`).
		WithArgs("u1", "%git%").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), "u1", models.EntryFilter{Search: "git"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, []string{}, got[0].Tags)
	assert.Equal(t, []string{"code"}, got[1].Tags)

	mock.ExpectQuery(`FROM\s+password_entries`).WithArgs("u1").WillReturnError(errors.New("boom"))
	_, err = repo.List(context.Background(), "u1", models.EntryFilter{})
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+password_entries`).WithArgs("u1").WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.List(context.Background(), "u1", models.EntryFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)UPDATE\s+password_entries\s+SET.*tags\s*=\s*\$8::jsonb.*WHERE\s+id\s*=\s*\$1`
	e := &models.PasswordEntry{ID: entryID, Website: "w", Username: "u", EncryptedPassword: "ct", Category: models.CategorySocial, Tags: []string{"a"}, LastModified: t0}

	mock.ExpectExec(q).WithArgs(entryID, "w", "u", "ct", "social", "", "", `["a"]`, false, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WillReturnError(errors.New("boom"))

	require.NoError(t, repo.Update(context.Background(), e))
	assert.ErrorIs(t, repo.Update(context.Background(), e), common.ErrorNotFound)
	assert.Error(t, repo.Update(context.Background(), e))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `DELETE\s+FROM\s+password_entries\s+WHERE\s+id\s*=\s*\$1`
	mock.ExpectExec(q).WithArgs(entryID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(entryID).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), entryID))
	assert.ErrorIs(t, repo.Delete(context.Background(), entryID), common.ErrorNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "bogus"), common.ErrorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
