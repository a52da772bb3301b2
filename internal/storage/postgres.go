// Package storage persists articles, feed sources and key/value records.
// Postgres is used when a DSN is configured; otherwise the file-backed KV and
// the configured source list stand in.
package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var ErrNotFound = errors.New("not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const schema = `
CREATE TABLE IF NOT EXISTS sources (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	feed_url   TEXT NOT NULL UNIQUE,
	insecure   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS articles (
	id            TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	title         TEXT NOT NULL,
	summary       TEXT NOT NULL DEFAULT '',
	link          TEXT NOT NULL,
	pub_date      TIMESTAMPTZ NOT NULL,
	domains       TEXT[] NOT NULL DEFAULT '{}',
	services      TEXT[] NOT NULL DEFAULT '{}',
	relevance     TEXT NOT NULL DEFAULT 'Low',
	exam_note     TEXT NOT NULL DEFAULT '',
	is_bookmarked BOOLEAN NOT NULL DEFAULT FALSE,
	posted_at     TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_articles_pub_date ON articles (pub_date DESC);

CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Connect opens the database and makes sure the schema exists.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}
