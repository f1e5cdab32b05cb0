package importer

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/beancount"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/converter"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/db"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/freetrade"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/pathutil"
)

// MetadataLastImport is the metadata key holding the time of the last sync that wrote entries.
const MetadataLastImport = "last_import"

// SyncOptions control a sync run.
type SyncOptions struct {
	Options
	// IncludePending imports entries dated in the future. By default they are
	// left out so that they are imported, cleared, by a later sync.
	IncludePending bool
	// DryRun prints the entries to DryRunOutput instead of writing files.
	DryRun       bool
	DryRunOutput io.Writer
}

// SyncResult summarizes a sync run.
type SyncResult struct {
	Imported        int
	AlreadyImported int
	Pending         int
	Skipped         int
	Files           []string
}

// Syncer appends new entries to the monthly ledger files and records them
// in the import history.
type Syncer struct {
	converter *converter.Converter
	repo      beancount.Repository
	history   *db.ImportHistory
	paths     *pathutil.PathResolver
	now       func() time.Time
}

// NewSyncer creates a new Syncer.
func NewSyncer(cvtr *converter.Converter, repo beancount.Repository, history *db.ImportHistory, paths *pathutil.PathResolver) *Syncer {
	return &Syncer{
		converter: cvtr,
		repo:      repo,
		history:   history,
		paths:     paths,
		now:       time.Now,
	}
}

// Sync imports the rows not yet in the history. Entries are grouped by the
// month of their date and appended in input order.
func (s *Syncer) Sync(rows []freetrade.Row, opts SyncOptions) (*SyncResult, error) {
	result := &SyncResult{}
	now := s.now()

	imported, err := s.history.GetImportedFingerprints()
	if err != nil {
		return nil, fmt.Errorf("failed to get imported rows: %w", err)
	}

	var fresh []freetrade.Row
	for _, row := range rows {
		if imported[row.Fingerprint] {
			result.AlreadyImported++
			continue
		}
		fresh = append(fresh, row)
	}

	entries, skipped, err := Entries(s.converter, fresh, opts.Options, now)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped

	byMonth := make(map[string][]Entry)
	for _, e := range entries {
		if e.Transaction.Flag == beancount.FlagPending && !opts.IncludePending {
			slog.Info("Leaving pending entry for a later sync", "line", e.Row.Line, "narration", e.Transaction.Narration)
			result.Pending++
			continue
		}
		month := beancount.MonthKey(e.Transaction.Date)
		byMonth[month] = append(byMonth[month], e)
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	for _, month := range months {
		filePath, err := s.paths.GetMonthFilePath(month)
		if err != nil {
			return result, fmt.Errorf("failed to get month file path: %w", err)
		}

		if opts.DryRun {
			if opts.DryRunOutput != nil {
				fmt.Fprintf(opts.DryRunOutput, "; [DRY RUN] Would append to %s\n", filePath)
				if err := WriteEntries(opts.DryRunOutput, byMonth[month]); err != nil {
					return result, err
				}
			}
			result.Imported += len(byMonth[month])
			continue
		}

		if err := s.appendMonth(month, filePath, byMonth[month], opts.Account); err != nil {
			return result, err
		}
		result.Imported += len(byMonth[month])
		result.Files = append(result.Files, filePath)
		slog.Info("Updated file", "path", filePath, "entries", len(byMonth[month]))
	}

	if !opts.DryRun && result.Imported > 0 {
		if err := s.history.SetMetadata(MetadataLastImport, now.UTC().Format(time.RFC3339)); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (s *Syncer) appendMonth(month, filePath string, entries []Entry, account string) error {
	if err := s.repo.EnsureMonthFile(month); err != nil {
		return fmt.Errorf("failed to ensure month file %s: %w", month, err)
	}

	for _, e := range entries {
		if err := s.repo.AppendTransaction(month, *e.Transaction, e.Row.Record.Title); err != nil {
			return fmt.Errorf("failed to append line %d: %w", e.Row.Line, err)
		}

		total := ""
		if e.Row.Record.TotalAmount.Valid {
			total = e.Row.Record.TotalAmount.Decimal.String()
		}
		if err := s.history.RecordImport(db.ImportRecord{
			Fingerprint:   e.Row.Fingerprint,
			Kind:          e.Row.Record.Kind.String(),
			Account:       account,
			EntryDate:     e.Transaction.Date.Format("2006-01-02"),
			TotalAmount:   total,
			BeancountFile: filePath,
		}); err != nil {
			return fmt.Errorf("failed to record line %d: %w", e.Row.Line, err)
		}
	}
	return nil
}
