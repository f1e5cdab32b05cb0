package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ImportRecord is one export row written to the ledger.
type ImportRecord struct {
	ID            int64
	Fingerprint   string
	Kind          string
	Account       string
	EntryDate     string // YYYY-MM-DD
	TotalAmount   string // decimal text, empty when the row had none
	BeancountFile string
	ImportedAt    time.Time
}

// ImportHistory manages import history operations.
type ImportHistory struct {
	conn *Connection
}

// NewImportHistory creates a new ImportHistory instance.
func NewImportHistory(conn *Connection) *ImportHistory {
	return &ImportHistory{conn: conn}
}

const insertImport = `
	INSERT INTO import_history (fingerprint, kind, account, entry_date, total_amount, beancount_file)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(fingerprint) DO UPDATE SET
		kind = excluded.kind,
		account = excluded.account,
		entry_date = excluded.entry_date,
		total_amount = excluded.total_amount,
		beancount_file = excluded.beancount_file,
		imported_at = CURRENT_TIMESTAMP
`

// RecordImport records one imported row. Recording the same fingerprint
// again updates the existing record.
func (h *ImportHistory) RecordImport(record ImportRecord) error {
	_, err := h.conn.Exec(insertImport,
		record.Fingerprint,
		record.Kind,
		record.Account,
		record.EntryDate,
		record.TotalAmount,
		record.BeancountFile,
	)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// IsImported checks if a row has been imported.
func (h *ImportHistory) IsImported(fingerprint string) (bool, error) {
	var count int
	err := h.conn.QueryRow(`SELECT COUNT(*) FROM import_history WHERE fingerprint = ?`, fingerprint).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check if imported: %w", err)
	}
	return count > 0, nil
}

// GetImport retrieves an import record by fingerprint.
// Returns nil and no error when the row was never imported.
func (h *ImportHistory) GetImport(fingerprint string) (*ImportRecord, error) {
	query := `
		SELECT id, fingerprint, kind, account, entry_date, total_amount, beancount_file, imported_at
		FROM import_history
		WHERE fingerprint = ?
	`

	var record ImportRecord
	err := h.conn.QueryRow(query, fingerprint).Scan(
		&record.ID,
		&record.Fingerprint,
		&record.Kind,
		&record.Account,
		&record.EntryDate,
		&record.TotalAmount,
		&record.BeancountFile,
		&record.ImportedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import record: %w", err)
	}

	return &record, nil
}

// GetImportedFingerprints returns the set of imported fingerprints, for bulk filtering.
func (h *ImportHistory) GetImportedFingerprints() (map[string]bool, error) {
	rows, err := h.conn.Query(`SELECT fingerprint FROM import_history`)
	if err != nil {
		return nil, fmt.Errorf("failed to get imported fingerprints: %w", err)
	}
	defer rows.Close()

	fingerprints := make(map[string]bool)
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		fingerprints[fp] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fingerprints: %w", err)
	}

	return fingerprints, nil
}

// DeleteImport deletes an import record so the row is imported again on the next sync.
func (h *ImportHistory) DeleteImport(fingerprint string) (bool, error) {
	result, err := h.conn.Exec(`DELETE FROM import_history WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return false, fmt.Errorf("failed to delete import record: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n > 0, nil
}

// Stats represents import statistics.
type Stats struct {
	Total      int
	ByKind     map[string]int
	LastImport sql.NullString
}

// GetStats retrieves import statistics.
func (h *ImportHistory) GetStats() (*Stats, error) {
	stats := Stats{ByKind: make(map[string]int)}

	rows, err := h.conn.Query(`SELECT kind, COUNT(*) FROM import_history GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to get counts by kind: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan kind count: %w", err)
		}
		stats.ByKind[kind] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kind counts: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(imported_at) FROM import_history`).Scan(&stats.LastImport)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get last import time: %w", err)
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value. Returns "" when the key is unset.
func (h *ImportHistory) GetMetadata(key string) (string, error) {
	var value string
	err := h.conn.QueryRow(`SELECT value FROM import_metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

// SetMetadata sets a metadata value.
func (h *ImportHistory) SetMetadata(key, value string) error {
	query := `
		INSERT INTO import_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := h.conn.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}
