// Package db provides SQLite storage for the import history.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Import history table
-- Tracks which export rows have been written to the ledger
CREATE TABLE IF NOT EXISTS import_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    fingerprint TEXT NOT NULL UNIQUE,  -- SHA-256 of the raw CSV row
    kind TEXT NOT NULL,                -- export Type value, e.g. 'ORDER'
    account TEXT NOT NULL,             -- account name used in the postings
    entry_date TEXT NOT NULL,          -- YYYY-MM-DD
    total_amount TEXT NOT NULL,        -- decimal text, '' when absent
    beancount_file TEXT NOT NULL,      -- monthly file the entry went to
    imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_import_history_kind
    ON import_history(kind);

CREATE INDEX IF NOT EXISTS idx_import_history_date
    ON import_history(entry_date);

-- Import metadata table
-- Stores key-value metadata about import runs
CREATE TABLE IF NOT EXISTS import_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
