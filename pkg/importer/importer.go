// Package importer runs decoded export rows through the converter and
// delivers the resulting entries to a writer or to the monthly ledger files.
package importer

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/beancount"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/converter"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/freetrade"
)

// Options control how rows are converted.
type Options struct {
	Account string
	// SkipInvalid logs and drops rows the converter rejects instead of aborting.
	SkipInvalid bool
}

// Entry is the ledger entry produced by one row.
type Entry struct {
	Row         freetrade.Row
	Transaction *beancount.Transaction
}

// Entries converts rows in order. Rows whose kind carries no value are
// dropped. The first rejected row aborts the conversion unless
// opts.SkipInvalid is set, in which case skipped counts the rejected rows.
func Entries(cvtr *converter.Converter, rows []freetrade.Row, opts Options, now time.Time) (entries []Entry, skipped int, err error) {
	for _, row := range rows {
		txn, err := cvtr.Convert(row.Record, opts.Account, now)
		if err != nil {
			if !opts.SkipInvalid {
				return nil, skipped, fmt.Errorf("line %d: %w", row.Line, err)
			}
			slog.Warn("Skipping invalid row", "line", row.Line, "error", err)
			skipped++
			continue
		}
		if txn == nil {
			slog.Debug("Row produces no entry", "line", row.Line, "kind", row.Record.Kind)
			continue
		}
		if !txn.Balanced() {
			slog.Warn("Entry does not balance", "line", row.Line, "narration", txn.Narration, "weights", fmt.Sprint(txn.Weights()))
		}
		entries = append(entries, Entry{Row: row, Transaction: txn})
	}
	return entries, skipped, nil
}

// WriteEntries writes each entry followed by a blank line.
func WriteEntries(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := io.WriteString(w, e.Transaction.String()+"\n"); err != nil {
			return fmt.Errorf("failed to write entry for line %d: %w", e.Row.Line, err)
		}
	}
	return nil
}
