package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/config"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/db"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/importer"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/pathutil"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display import statistics",
	Long: `Display statistics about imported Freetrade rows.

Shows:
- Total number of imported rows
- Number of imported rows per transaction type
- Last import timestamp

Example:
  freetrade stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")

	exitOnError(cfg.Validate("beancount.root"), "invalid configuration")

	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:   cfg.Beancount.Root,
		DatabasePath: cfg.Beancount.DBPath,
	})

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewImportHistory(conn)

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	lastSync, err := history.GetMetadata(importer.MetadataLastImport)
	exitOnError(err, "failed to get last sync")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Import Statistics ===")
	fmt.Fprintf(out, "Database:             %s\n", conn.GetPath())
	fmt.Fprintf(out, "Total imported rows:  %d\n", stats.Total)

	kinds := make([]string, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(out, "  %-26s %d\n", kind, stats.ByKind[kind])
	}

	if stats.LastImport.Valid {
		fmt.Fprintf(out, "Last import:          %s\n", stats.LastImport.String)
	} else {
		fmt.Fprintf(out, "Last import:          (never)\n")
	}
	if lastSync != "" {
		fmt.Fprintf(out, "Last sync run:        %s\n", lastSync)
	}

	fmt.Fprintln(out)
}
