package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type KVPostgresStorage struct {
	db *sqlx.DB
}

func NewKVStorage(db *sqlx.DB) *KVPostgresStorage {
	return &KVPostgresStorage{db: db}
}

func (s *KVPostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psql.Select("value").From("kv").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value string
	if err := s.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("select key %q: %w", key, err)
	}
	return []byte(value), nil
}

func setKVQuery(key string, value []byte) (string, []any, error) {
	return psql.Insert("kv").
		Columns("key", "value").
		Values(key, string(value)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
}

func (s *KVPostgresStorage) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := setKVQuery(key, value)
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert key %q: %w", key, err)
	}
	return nil
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// FileKV keeps one file per key under a directory.
type FileKV struct {
	dir string
	mu  sync.Mutex
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("read key %q: %w", key, err)
	}
	return data, nil
}

// Set replaces the value atomically via a temp file and rename.
func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".kv-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("store key %q: %w", key, err)
	}
	return nil
}
