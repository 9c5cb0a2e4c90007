package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the part of pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const schema = `
CREATE TABLE IF NOT EXISTS category_rows (
	id                BIGINT PRIMARY KEY,
	parent_id         BIGINT,
	level             INT NOT NULL,
	path              TEXT NOT NULL,
	title             TEXT NOT NULL,
	url               TEXT NOT NULL DEFAULT '',
	position          INT NOT NULL DEFAULT 0,
	is_hidden         BOOLEAN NOT NULL DEFAULT FALSE,
	products_count    INT NOT NULL DEFAULT 0,
	in_stock_count    INT NOT NULL DEFAULT 0,
	sort_order        INT NOT NULL,
	data              JSONB NOT NULL,
	synced_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS position_checks (
	id          BIGSERIAL PRIMARY KEY,
	checked_at  TIMESTAMPTZ NOT NULL,
	category_id BIGINT NOT NULL,
	title       TEXT NOT NULL,
	query       TEXT NOT NULL,
	yandex      INT NOT NULL DEFAULT 0,
	google      INT NOT NULL DEFAULT 0,
	url         TEXT NOT NULL DEFAULT '',
	change      TEXT NOT NULL DEFAULT '',
	comment     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS position_checks_category_idx ON position_checks (category_id, checked_at DESC);

CREATE TABLE IF NOT EXISTS page_changes (
	id          BIGSERIAL PRIMARY KEY,
	changed_at  TIMESTAMPTZ NOT NULL,
	category_id BIGINT NOT NULL,
	fields      TEXT[] NOT NULL,
	comment     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS page_changes_category_idx ON page_changes (category_id, changed_at DESC);
`

// EnsureSchema creates the tables if they are missing.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
