package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"gggkit/internal/config"
)

// Store is the spectrum catalog, backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode    = 5
	busyAttempts      = 5
	busyFirstBackoff  = 10 * time.Millisecond
	busyBackoffCeil   = 200 * time.Millisecond
	busyTimeoutMillis = 5000
)

// connectionPragmas are applied by the driver to every pooled connection,
// so foreign keys hold no matter which connection runs a statement.
var connectionPragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	fmt.Sprintf("busy_timeout(%d)", busyTimeoutMillis),
}

func dataSourceName(dbPath string) string {
	params := make([]string, len(connectionPragmas))
	for i, p := range connectionPragmas {
		params[i] = "_pragma=" + p
	}
	return "file:" + dbPath + "?" + strings.Join(params, "&")
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs op until it succeeds, fails with something other than
// SQLITE_BUSY, or the attempts run out. Backoff doubles up to a ceiling.
func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyFirstBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = op(); err == nil || !isBusy(err) || attempt == busyAttempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
		delay = min(delay*2, busyBackoffCeil)
	}
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// withTx runs fn in a transaction, retrying the whole transaction while the
// database is busy. fn must be safe to repeat.
func (s *Store) withTx(ctx context.Context, what string, fn func(*sql.Tx) error) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin %s: %w", what, err)
		}
		defer func() { _ = tx.Rollback() }()
		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", what, err)
		}
		return nil
	})
}

// Open opens the catalog at cfg.Paths.CatalogPath, creating its directory
// and schema as needed.
func Open(cfg *config.Config) (*Store, error) {
	if strings.TrimSpace(cfg.Paths.CatalogPath) == "" {
		return nil, errors.New("catalog path not configured")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.Paths.CatalogPath)
}

// OpenPath opens the catalog database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open catalog %s: %w", dbPath, err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
