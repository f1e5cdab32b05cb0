package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/beancount"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/config"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/db"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/importer"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/pathutil"
)

var (
	syncFlags      importFlags
	dryRun         bool
	includePending bool
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Append new Freetrade entries to monthly Beancount files",
	Long: `Append the entries of a Freetrade activity export to monthly
Beancount files under BEANCOUNT_ROOT.

This command:
1. Reads the export
2. Filters out rows imported by a previous sync
3. Converts them to Beancount entries
4. Appends them to {BEANCOUNT_ROOT}/YYYY/YYYY-MM.beancount
5. Records import history in SQLite

Pending entries (dated in the future) are left for a later sync unless
--include-pending is given.

Example:
  freetrade sync --input activity.csv --account SIPP
  freetrade sync --input activity.csv --account SIPP --dry-run`,
	Run: runSync,
}

func init() {
	syncFlags.register(syncCmd)
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Dry run mode (no file writes)")
	syncCmd.Flags().BoolVar(&includePending, "include-pending", false, "also import entries dated in the future")
}

func runSync(cmd *cobra.Command, args []string) {
	slog.Info("Starting sync", "input", syncFlags.input, "dry_run", dryRun)

	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")

	exitOnError(cfg.Validate("beancount.root"), "invalid configuration")

	cvtr, err := syncFlags.resolve(cfg)
	exitOnError(err, "invalid configuration")

	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:   cfg.Beancount.Root,
		DatabasePath: cfg.Beancount.DBPath,
	})

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	rows, err := readRows(syncFlags.input)
	exitOnError(err, "failed to read export")

	syncer := importer.NewSyncer(
		cvtr,
		beancount.NewFileSystemRepository(pathResolver),
		db.NewImportHistory(conn),
		pathResolver,
	)

	result, err := syncer.Sync(rows, importer.SyncOptions{
		Options: importer.Options{
			Account:     syncFlags.account,
			SkipInvalid: syncFlags.skipInvalid,
		},
		IncludePending: includePending,
		DryRun:         dryRun,
		DryRunOutput:   cmd.OutOrStdout(),
	})
	exitOnError(err, "sync failed")

	if result.Imported == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No new entries to sync")
	}

	slog.Info("Sync completed",
		"imported", result.Imported,
		"already_imported", result.AlreadyImported,
		"pending", result.Pending,
		"skipped", result.Skipped,
		"files_written", len(result.Files),
	)
}
