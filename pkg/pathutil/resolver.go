// Package pathutil provides centralized path management for the ledger files and the import database.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LedgerExt is the extension of monthly ledger files.
const LedgerExt = ".beancount"

// PathResolver manages paths for monthly ledger files and the import database.
type PathResolver struct {
	ledgerRoot   string
	databasePath string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// LedgerRoot is the root directory for the monthly files (e.g., ~/accounting/freetrade)
	LedgerRoot string
	// DatabasePath is the path to the SQLite import history
	DatabasePath string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {LedgerRoot}/.sync/import.db
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.LedgerRoot, ".sync", "import.db")
	}

	return &PathResolver{
		ledgerRoot:   config.LedgerRoot,
		databasePath: dbPath,
	}
}

// GetLedgerRoot returns the ledger root directory.
func (p *PathResolver) GetLedgerRoot() string {
	return p.ledgerRoot
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetYearDir returns the directory path for a year.
// Example: ~/accounting/freetrade/2024
func (p *PathResolver) GetYearDir(year string) string {
	return filepath.Join(p.ledgerRoot, year)
}

// GetMonthFilePath returns the file path for a month.
// yearMonth should be in YYYY-MM format.
// Example: ~/accounting/freetrade/2024/2024-01.beancount
func (p *PathResolver) GetMonthFilePath(yearMonth string) (string, error) {
	parts := strings.Split(yearMonth, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", fmt.Errorf("invalid year-month format: %s. Expected YYYY-MM", yearMonth)
	}

	return filepath.Join(p.GetYearDir(parts[0]), yearMonth+LedgerExt), nil
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// IsDir checks if a path is a directory.
func (p *PathResolver) IsDir(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
