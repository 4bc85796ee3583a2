// pkg/db/sqlite.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// Config holds the durable store configuration.
type Config struct {
	// Path is the location of the single ledger database file. Both the
	// transaction log and the summary projection live in this one file,
	// which is also what ExportSnapshot hands out byte-for-byte.
	Path string
}

// schema creates the two ledger tables. The transactions table is the
// append-only log (insertion order = id order); user_summaries is the
// derived projection, deleted and re-inserted wholesale on every mutation.
// Amounts are stored as 2-decimal strings and timestamps as
// "YYYY-MM-DD HH:MM:SS" text.
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id   INTEGER NOT NULL,
	type      TEXT    NOT NULL,
	amount    TEXT    NOT NULL,
	timestamp TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions (user_id);

CREATE TABLE IF NOT EXISTS user_summaries (
	user_id     INTEGER PRIMARY KEY,
	deposits    TEXT NOT NULL,
	withdrawals TEXT NOT NULL,
	balance     TEXT NOT NULL,
	roi_percent TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

// NewSQLiteDB opens (creating if necessary) the ledger database file and
// ensures the two-table schema exists. It uses sqlx for enhanced database
// operations.
func NewSQLiteDB(cfg Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", cfg.Path)

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite store at %s: %w", cfg.Path, err)
	}

	// SQLite allows a single writer; a one-connection pool also keeps
	// ledger operations strictly sequential.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite store: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}

	return db, nil
}
