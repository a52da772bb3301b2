package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/0x0BSoD/saaHub/internal/model"
)

type SourcePostgresStorage struct {
	db *sqlx.DB
}

func NewSourceStorage(db *sqlx.DB) *SourcePostgresStorage {
	return &SourcePostgresStorage{db: db}
}

var sourceColumns = []string{"id", "name", "feed_url", "insecure", "created_at"}

func (s *SourcePostgresStorage) Sources(ctx context.Context) ([]model.Source, error) {
	query, args, err := psql.Select(sourceColumns...).From("sources").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var sources []model.Source
	if err := s.db.SelectContext(ctx, &sources, query, args...); err != nil {
		return nil, fmt.Errorf("select sources: %w", err)
	}
	return sources, nil
}

func (s *SourcePostgresStorage) SourceByID(ctx context.Context, id int64) (*model.Source, error) {
	query, args, err := psql.Select(sourceColumns...).From("sources").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var source model.Source
	if err := s.db.GetContext(ctx, &source, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("source %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("select source %d: %w", id, err)
	}
	return &source, nil
}

func (s *SourcePostgresStorage) Add(ctx context.Context, source model.Source) (int64, error) {
	query, args, err := psql.Insert("sources").
		Columns("name", "feed_url", "insecure").
		Values(source.Name, source.FeedURL, source.Insecure).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert source: %w", err)
	}
	return id, nil
}

func (s *SourcePostgresStorage) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("sources").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete source %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("source %d: %w", id, ErrNotFound)
	}
	return nil
}

// ConfigSources serves a fixed source list when no database is configured.
type ConfigSources struct {
	sources []model.Source
}

func NewConfigSources(sources []model.Source) *ConfigSources {
	return &ConfigSources{sources: sources}
}

func (c *ConfigSources) Sources(context.Context) ([]model.Source, error) {
	out := make([]model.Source, len(c.sources))
	copy(out, c.sources)
	return out, nil
}

func (c *ConfigSources) SourceByID(_ context.Context, id int64) (*model.Source, error) {
	for _, s := range c.sources {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("source %d: %w", id, ErrNotFound)
}
