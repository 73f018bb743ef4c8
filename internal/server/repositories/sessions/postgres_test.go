package sessions

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

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var (
	now    = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	cols   = []string{"id", "user_id", "login_time", "expiry_time", "is_active", "last_activity", "created_at"}
	wrapRe = regexp.MustCompile(`db error: .*boom`)
)

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := &models.Session{UserID: "u1", LoginTime: now, ExpiryTime: now.Add(10 * time.Minute), IsActive: true, LastActivity: now, CreatedAt: now}

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+sessions\s*\(user_id,\s*login_time,\s*expiry_time,\s*is_active,\s*last_activity,\s*created_at\).*RETURNING\s+id`).
		WithArgs("u1", now, now.Add(10*time.Minute), true, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s1"))

	got, err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)

	mock.ExpectQuery(`INSERT\s+INTO\s+sessions`).WillReturnError(errors.New("boom"))
	_, err = repo.Create(context.Background(), &models.Session{})
	assert.Regexp(t, wrapRe, err.Error())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,.*FROM\s+sessions\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+is_active\s+AND\s+expiry_time\s*>\s*\$2\s+ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+1`

	mock.ExpectQuery(q).WithArgs("u1", now).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("s1", "u1", now, now.Add(time.Minute), true, now, now))
	mock.ExpectQuery(q).WithArgs("u2", now).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs("u3", now).WillReturnError(errors.New("boom"))

	s, err := repo.FindActive(context.Background(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.True(t, s.IsActive)

	_, err = repo.FindActive(context.Background(), "u2", now)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.FindActive(context.Background(), "u3", now)
	assert.Regexp(t, wrapRe, err.Error())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshAndTouch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := now.Add(10 * time.Minute)
	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+expiry_time\s*=\s*\$2,\s*last_activity\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("s1", exp, now).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+last_activity\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("s1", now).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+last_activity`).
		WithArgs("gone", now).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE\s+sessions\s+SET\s+last_activity`).
		WithArgs("s1", now).WillReturnError(errors.New("boom"))

	require.NoError(t, repo.Refresh(context.Background(), "s1", exp, now))
	require.NoError(t, repo.Touch(context.Background(), "s1", now))
	assert.ErrorIs(t, repo.Touch(context.Background(), "gone", now), common.ErrorNotFound)
	assert.Regexp(t, wrapRe, repo.Touch(context.Background(), "s1", now).Error())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `DELETE\s+FROM\s+sessions\s+WHERE\s+expiry_time\s*<=\s*\$1`
	mock.ExpectExec(q).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q).WithArgs(now).WillReturnError(errors.New("boom"))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = repo.DeleteExpired(context.Background(), now)
	assert.Regexp(t, wrapRe, err.Error())

	require.NoError(t, mock.ExpectationsWereMet())
}
