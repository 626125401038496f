package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"statekeeper/internal/providers"
	"strings"

	_ "modernc.org/sqlite"
)

const createSavesTable = `CREATE TABLE IF NOT EXISTS saves (
	save_key   TEXT PRIMARY KEY,
	blob       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteBackend stores blobs as rows of a single table.
type SQLiteBackend struct {
	sqlDB *sql.DB
	clock providers.TimeSource
}

func OpenSQLiteBackend(path string, clock providers.TimeSource) (*SQLiteBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(createSavesTable); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &SQLiteBackend{sqlDB: sqlDB, clock: clock}, nil
}

func (s *SQLiteBackend) Save(ctx context.Context, key string, blob []byte) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO saves (save_key, blob, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(save_key) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at
	`, key, blob, s.clock.Now().UnixMilli())
	return err
}

func (s *SQLiteBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT blob FROM saves WHERE save_key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *SQLiteBackend) Exists(ctx context.Context, key string) bool {
	var one int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM saves WHERE save_key = ?`, key).Scan(&one)
	return err == nil
}

func (s *SQLiteBackend) Delete(ctx context.Context, key string) error {
	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE save_key = ?`, key)
	return err
}

func (s *SQLiteBackend) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
