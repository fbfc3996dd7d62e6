package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

var columns = []string{"id", "title", "content", "dept", "usename", "created_at", "is_deleted", "sort_order"}

// Helper to set up a mock DB and repository
func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PromptRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := CreatePromptRepository(db, zap.NewNop())
	return db, mock, repo
}

func TestCreate(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	record := storage.PromptRecord{ID: "p1", Title: "t", Content: "c", Dept: "sales", Usename: "alice", CreatedAt: created, SortOrder: 3}

	mock.ExpectExec(`INSERT INTO prompts`).
		WithArgs("p1", "t", "c", "sales", "alice", created, false, 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), record)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_LargeSortOrder(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	assert.Contains(t, createTable, "sort_order BIGINT")

	record := storage.PromptRecord{ID: "p1", SortOrder: 1 << 40}
	mock.ExpectExec(`INSERT INTO prompts`).
		WithArgs("p1", "", "", "", "", time.Time{}, false, 1<<40, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateID(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	mock.ExpectExec(`INSERT INTO prompts`).WillReturnError(pgErr)

	err := repo.Create(context.Background(), storage.PromptRecord{ID: "p1"})

	assert.ErrorIs(t, err, storage.ErrConflict)
	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_BackendError(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	boom := errors.New("connection reset")
	mock.ExpectExec(`INSERT INTO prompts`).WillReturnError(boom)

	err := repo.Create(context.Background(), storage.PromptRecord{ID: "p1"})

	assert.Equal(t, boom, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("by user", func(t *testing.T) {
		_, mock, repo := setupMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM prompts WHERE dept = $1 AND usename = $2 AND is_deleted = $3 ORDER BY sort_order ASC, id ASC;`)).
			WithArgs("sales", "alice", false).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("a", "t1", "c1", "sales", "alice", created, false, 0).
				AddRow("b", "t2", "c2", "sales", "alice", created, false, 1))

		res, err := repo.Query(context.Background(), storage.Filter{Dept: "sales", Usename: "alice", ByUser: true})

		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "a", res[0].ID)
		assert.Equal(t, 1, res[1].SortOrder)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("department wide, empty", func(t *testing.T) {
		_, mock, repo := setupMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM prompts WHERE dept = $1 AND is_deleted = $2 ORDER BY sort_order ASC, id ASC;`)).
			WithArgs("sales", false).
			WillReturnRows(sqlmock.NewRows(columns))

		res, err := repo.Query(context.Background(), storage.Filter{Dept: "sales"})

		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Len(t, res, 0)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRead(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		_, mock, repo := setupMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM prompts WHERE id = $1;`)).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows(append(columns, "etag")).
				AddRow("p1", "t", "c", "sales", "alice", created, true, 4, "etag-1"))

		doc, err := repo.Read(context.Background(), "p1")

		require.NoError(t, err)
		assert.Equal(t, "etag-1", doc.ETag)
		assert.True(t, doc.Record.IsDeleted)
		assert.Equal(t, 4, doc.Record.SortOrder)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		_, mock, repo := setupMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM prompts WHERE id = $1;`)).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(append(columns, "etag")))

		_, err := repo.Read(context.Background(), "missing")

		assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReplace(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	record := storage.PromptRecord{ID: "p1", Title: "t2", Content: "c2", Dept: "sales", Usename: "alice", CreatedAt: created, SortOrder: 1}

	t.Run("unconditional", func(t *testing.T) {
		_, mock, repo := setupMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE prompts SET`)).
			WithArgs("t2", "c2", "sales", "alice", created, false, 1, sqlmock.AnyArg(), "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		doc, err := repo.Replace(context.Background(), storage.Document{Record: record, ETag: "old"}, storage.ReplaceOptions{})

		require.NoError(t, err)
		assert.Equal(t, record, doc.Record)
		assert.NotEqual(t, "old", doc.ETag)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unconditional, missing", func(t *testing.T) {
		_, mock, repo := setupMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE prompts SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.Replace(context.Background(), storage.Document{Record: record}, storage.ReplaceOptions{})

		assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("etag mismatch", func(t *testing.T) {
		_, mock, repo := setupMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $9 AND etag = $10;`)).
			WithArgs("t2", "c2", "sales", "alice", created, false, 1, sqlmock.AnyArg(), "p1", "stale").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM prompts WHERE id = $1;`)).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows(append(columns, "etag")).
				AddRow("p1", "t", "c", "sales", "alice", created, false, 1, "fresh"))

		_, err := repo.Replace(context.Background(), storage.Document{Record: record}, storage.ReplaceOptions{IfMatch: "stale"})

		assert.ErrorIs(t, err, storage.ErrPreconditionFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPingContext(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	repo := CreatePromptRepository(db, zap.NewNop())
	mock.ExpectPing().WillReturnError(errors.New("db down"))

	assert.EqualError(t, repo.PingContext(context.Background()), "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}
