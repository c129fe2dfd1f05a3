package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id    TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	version    INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// profileRow mirrors one row of the profiles table.
type profileRow struct {
	UserID    string    `db:"user_id"`
	Document  string    `db:"document"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQLiteStore persists profiles as JSON documents in SQLite, one row per
// user, with a version column enforcing optimistic concurrency.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening profile database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating profiles table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get loads the profile document and its version.
func (s *SQLiteStore) Get(ctx context.Context, userID string) (Profile, int64, error) {
	if userID == "" {
		return Profile{}, 0, ErrEmptyUserID
	}

	var row profileRow
	err := s.db.GetContext(ctx, &row,
		`SELECT user_id, document, version, updated_at FROM profiles WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, 0, ErrNotFound
	}
	if err != nil {
		return Profile{}, 0, fmt.Errorf("loading profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal([]byte(row.Document), &p); err != nil {
		return Profile{}, 0, fmt.Errorf("decoding profile document: %w", err)
	}
	return p, row.Version, nil
}

// Save writes the profile when the stored version matches expectedVersion.
// A first save (expectedVersion 0) inserts; any other mismatch returns
// ErrVersionConflict.
func (s *SQLiteStore) Save(ctx context.Context, userID string, p Profile, expectedVersion int64) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile document: %w", err)
	}

	if expectedVersion == 0 {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO profiles (user_id, document, version, updated_at) VALUES (?, ?, 1, ?)`,
			userID, string(doc), time.Now().UTC())
		if err != nil {
			// A concurrent first save already inserted the row.
			return ErrVersionConflict
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET document = ?, version = version + 1, updated_at = ? WHERE user_id = ? AND version = ?`,
		string(doc), time.Now().UTC(), userID, expectedVersion)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking profile save: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
