package catalogstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	domainerrors "winfeatures/internal/core/errors"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// SQLiteStore keeps catalog bodies in a single sqlite database with a
// checksum per row.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("catalog database path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("catalog database path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog database directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite catalog store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite catalog store %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}
	return &SQLiteStore{path: cleanPath, db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		body []byte
		sum  string
	)
	err := s.withRetry("get catalog", func() error {
		return s.db.QueryRowContext(ctx, `SELECT body, sha256 FROM catalogs WHERE key = ?`, key).Scan(&body, &sum)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if checksum(body) != sum {
		return nil, false, domainerrors.AddContext(
			domainerrors.New(domainerrors.CodeCorrupt, "cached catalog checksum mismatch"),
			domainerrors.CtxPath, s.path,
		)
	}
	return body, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, body []byte) error {
	query := `
INSERT INTO catalogs (key, body, sha256, size_bytes, fetched_at_utc)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  body=excluded.body,
  sha256=excluded.sha256,
  size_bytes=excluded.size_bytes,
  fetched_at_utc=excluded.fetched_at_utc
`
	return s.withRetry("put catalog", func() error {
		_, err := s.db.ExecContext(ctx, query, key, body, checksum(body), len(body), time.Now().UTC().Format(time.RFC3339Nano))
		return err
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.withRetry("delete catalog", func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM catalogs WHERE key = ?`, key)
		return err
	})
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *SQLiteStore) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
