// Package repository implements the prompt container on top of PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		dept TEXT NOT NULL,
		usename TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		sort_order BIGINT NOT NULL DEFAULT 0,
		etag TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS prompts_scope_idx ON prompts (dept, usename, sort_order);`

const selectColumns = "id, title, content, dept, usename, created_at, is_deleted, sort_order"

func InitDB(ctx context.Context, ps string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", ps)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database connected and table ready")
	return db, nil
}

type PromptRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreatePromptRepository(db *sql.DB, logger *zap.Logger) *PromptRepository {
	return &PromptRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PromptRepository) Create(ctx context.Context, p storage.PromptRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO prompts (id, title, content, dept, usename, created_at, is_deleted, sort_order, etag) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);",
		p.ID, p.Title, p.Content, p.Dept, p.Usename, p.CreatedAt, p.IsDeleted, p.SortOrder, uuid.NewString(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %w", storage.ErrConflict, err)
		}
		r.logger.Error("insert prompt", zap.String("id", p.ID), zap.Error(err))
		return err
	}

	return nil
}

func (r *PromptRepository) Query(ctx context.Context, f storage.Filter) ([]storage.PromptRecord, error) {
	query := "SELECT " + selectColumns + " FROM prompts WHERE dept = $1 AND is_deleted = $2 ORDER BY sort_order ASC, id ASC;"
	args := []any{f.Dept, false}
	if f.ByUser {
		query = "SELECT " + selectColumns + " FROM prompts WHERE dept = $1 AND usename = $2 AND is_deleted = $3 ORDER BY sort_order ASC, id ASC;"
		args = []any{f.Dept, f.Usename, false}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]storage.PromptRecord, 0)
	for rows.Next() {
		var p storage.PromptRecord
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Dept, &p.Usename, &p.CreatedAt, &p.IsDeleted, &p.SortOrder); err != nil {
			return nil, err
		}
		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *PromptRepository) Read(ctx context.Context, id string) (*storage.Document, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+selectColumns+", etag FROM prompts WHERE id = $1;", id)

	var d storage.Document
	p := &d.Record
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Dept, &p.Usename, &p.CreatedAt, &p.IsDeleted, &p.SortOrder, &d.ETag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *PromptRepository) Replace(ctx context.Context, d storage.Document, opts storage.ReplaceOptions) (*storage.Document, error) {
	p := d.Record
	etag := uuid.NewString()

	query := "UPDATE prompts SET title = $1, content = $2, dept = $3, usename = $4, created_at = $5, is_deleted = $6, sort_order = $7, etag = $8 WHERE id = $9;"
	args := []any{p.Title, p.Content, p.Dept, p.Usename, p.CreatedAt, p.IsDeleted, p.SortOrder, etag, p.ID}
	if opts.IfMatch != "" {
		query = "UPDATE prompts SET title = $1, content = $2, dept = $3, usename = $4, created_at = $5, is_deleted = $6, sort_order = $7, etag = $8 WHERE id = $9 AND etag = $10;"
		args = append(args, opts.IfMatch)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if n == 0 {
		if opts.IfMatch == "" {
			return nil, storage.ErrDocumentNotFound
		}
		// Either the row is gone or another writer moved the etag.
		if _, err := r.Read(ctx, p.ID); err != nil {
			return nil, err
		}
		return nil, storage.ErrPreconditionFailed
	}

	return &storage.Document{Record: p, ETag: etag}, nil
}

func (r *PromptRepository) PingContext(c context.Context) error {
	return r.db.PingContext(c)
}
