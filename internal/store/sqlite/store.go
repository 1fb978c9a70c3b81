// Package sqlite implements the catalog store on an embedded SQLite database.
package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current on-disk schema version. Open refuses files
// written by a newer build and upgrades files written by an older one.
const schemaVersion = 1

// Store provides SQLite-backed persistence for the PixelVault catalog.
//
// Mutations serialize behind writeMu so read-modify-write merges never lose
// concurrent updates; reads run lock-free against WAL snapshots.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	writeMu sync.Mutex
}

// Open creates (or reopens) the SQLite store at the given path.
// It configures WAL mode, runs schema migrations, and seeds the built-in
// categories. Failures are reported as store.ErrStorageInit; the store is
// unusable until a later Open succeeds. Open is idempotent.
func Open(path string, logger *slog.Logger) (*Store, error) {
	// Pragmas ride on the DSN so every pooled connection gets them; a
	// PRAGMA statement run through Exec only reaches the one connection
	// that happened to execute it.
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, store.ErrStorageInit.WithCause(fmt.Errorf("open sqlite: %w", err))
	}

	// SQLite allows a single writer; a small pool covers concurrent readers.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, store.ErrStorageInit.WithCause(fmt.Errorf("open sqlite: %w", err))
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.seedBuiltinCategories(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate brings the on-disk schema to the current version. The schema
// script only creates missing objects, so rerunning it is safe.
func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return store.ErrStorageInit.WithCause(fmt.Errorf("read schema version: %w", err))
	}

	if version > schemaVersion {
		return store.ErrStorageInit.WithCause(
			fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion))
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return store.ErrStorageInit.WithCause(fmt.Errorf("exec schema: %w", err))
	}

	if version < schemaVersion {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version=%d", schemaVersion)); err != nil {
			return store.ErrStorageInit.WithCause(fmt.Errorf("set schema version: %w", err))
		}
		if s.logger != nil {
			s.logger.Info("schema migrated", "from", version, "to", schemaVersion)
		}
	}

	return nil
}

// seedBuiltinCategories inserts the protected categories if absent. Existing
// rows are left untouched so user edits to their names survive restarts.
func (s *Store) seedBuiltinCategories() error {
	for _, c := range domain.BuiltinCategories() {
		_, err := s.db.Exec(`
			INSERT OR IGNORE INTO categories (id, name, description, color, parent_id, position, icon, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID,
			c.Name,
			nullString(c.Description),
			nullString(c.Color),
			nullString(c.ParentID),
			c.Position,
			nullString(c.Icon),
			formatTime(c.CreatedAt),
			formatTime(c.UpdatedAt),
		)
		if err != nil {
			return store.ErrStorageInit.WithCause(fmt.Errorf("seed category %q: %w", c.ID, err))
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ioErr wraps a post-initialization database error as store.ErrStorageIO,
// passing through errors that already carry a store kind.
func ioErr(op string, err error) error {
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return err
	}
	return store.ErrStorageIO.WithCause(fmt.Errorf("%s: %w", op, err))
}

// timeLayout is RFC3339 with fixed-width nanoseconds. Unlike RFC3339Nano it
// never trims trailing zeros, so stored UTC timestamps order correctly under
// SQLite's string comparison.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime formats a time.Time for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp back to time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// nullString returns a sql.NullString from a string, empty meaning NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
