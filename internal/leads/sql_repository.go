package leads

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS leads (
		id            TEXT PRIMARY KEY,
		created_at    TIMESTAMP NOT NULL,
		source        TEXT NOT NULL,
		page_path     TEXT,
		name          TEXT,
		email         TEXT,
		phone         TEXT,
		lead_type     TEXT NOT NULL,
		message       TEXT,
		areas         TEXT,
		towns         TEXT,
		price_min     REAL,
		price_max     REAL,
		beds          REAL,
		baths         REAL,
		property_type TEXT,
		timeline      TEXT,
		financing     TEXT,
		booked        BOOLEAN NOT NULL DEFAULT 0
	)
`

// SQLStore writes leads through database/sql. It backs local development
// with an SQLite file when no Postgres database is configured.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	if db == nil {
		panic("leads: sql db required")
	}
	return &SQLStore{db: db}
}

// OpenSQLite opens (or creates) the SQLite database at path and ensures the
// leads table exists.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("leads: open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("leads: create sqlite schema: %w", err)
	}
	return db, nil
}

const insertLeadSQLite = `
	INSERT INTO leads (
		id, created_at, source, page_path, name, email, phone, lead_type, message,
		areas, towns, price_min, price_max, beds, baths,
		property_type, timeline, financing, booked
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Insert writes one row. SQLite has no server-side defaults for id and
// timestamp here, so both are assigned before the write.
func (s *SQLStore) Insert(ctx context.Context, lead *Lead) error {
	id := uuid.New().String()
	createdAt := time.Now().UTC()

	args := append([]any{id, createdAt}, insertArgs(lead)...)
	if _, err := s.db.ExecContext(ctx, insertLeadSQLite, args...); err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}

	lead.ID = id
	lead.CreatedAt = createdAt
	return nil
}
