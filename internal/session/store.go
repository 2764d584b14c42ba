// Package session persists the backend JWT pair across process restarts. The
// refresh token is long-lived and optionally encrypted at rest; the access
// token is short-lived and stored as-is.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned when no token pair has been stored yet.
var ErrNoSession = errors.New("no session stored")

// SQLiteStore keeps a single token pair in a SQLite file. Safe for concurrent
// use through database/sql's connection pool.
type SQLiteStore struct {
	db         *sql.DB
	passphrase string
}

// NewSQLiteStore opens (creating if needed) the session database at dbPath and
// runs migrations. When passphrase is non-empty the refresh token is sealed
// with age before hitting disk.
func NewSQLiteStore(dbPath, passphrase string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session database: %w", err)
	}

	return &SQLiteStore{db: db, passphrase: passphrase}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Tokens returns the stored pair, or ErrNoSession when none exists.
func (s *SQLiteStore) Tokens(ctx context.Context) (string, string, error) {
	var access string
	var sealed []byte
	row := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token FROM session WHERE id = 1`)
	if err := row.Scan(&access, &sealed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrNoSession
		}
		return "", "", fmt.Errorf("read session: %w", err)
	}

	refresh := string(sealed)
	if s.passphrase != "" && len(sealed) > 0 {
		var err error
		refresh, err = openToken(sealed, s.passphrase)
		if err != nil {
			return "", "", fmt.Errorf("unseal refresh token: %w", err)
		}
	}
	return access, refresh, nil
}

// SetTokens replaces the stored pair.
func (s *SQLiteStore) SetTokens(ctx context.Context, access, refresh string) error {
	sealed := []byte(refresh)
	if s.passphrase != "" {
		var err error
		sealed, err = sealToken(refresh, s.passphrase)
		if err != nil {
			return fmt.Errorf("seal refresh token: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, access_token, refresh_token, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = CURRENT_TIMESTAMP`,
		access, sealed)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// SetAccess updates only the access token, keeping the refresh token sealed
// in place.
func (s *SQLiteStore) SetAccess(ctx context.Context, access string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE session SET access_token = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`, access)
	if err != nil {
		return fmt.Errorf("update access token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoSession
	}
	return nil
}

// Clear removes the stored pair. Used on logout.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
