package cmd

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/config"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/importer"
)

var (
	convertFlags importFlags
	outputFile   string
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a Freetrade export to Beancount entries",
	Long: `Convert every row of a Freetrade activity export into a Beancount
entry, in input order, separated by blank lines.

Statements produce no entry. Entries dated in the future are flagged
pending ("!"), the others cleared ("*").

Example:
  freetrade convert --input activity.csv --account SIPP
  freetrade convert -i activity.csv -a ISA --output isa.beancount`,
	Run: runConvert,
}

func init() {
	convertFlags.register(convertCmd)
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default is stdout)")
}

func runConvert(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")

	cvtr, err := convertFlags.resolve(cfg)
	exitOnError(err, "invalid configuration")

	slog.Info("Converting", "input", convertFlags.input, "account", convertFlags.account)

	rows, err := readRows(convertFlags.input)
	exitOnError(err, "failed to read export")

	entries, skipped, err := importer.Entries(cvtr, rows, importer.Options{
		Account:     convertFlags.account,
		SkipInvalid: convertFlags.skipInvalid,
	}, time.Now())
	exitOnError(err, "failed to convert export")

	var out io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		exitOnError(err, "failed to create output file")
		defer f.Close()
		out = f
	}

	exitOnError(importer.WriteEntries(out, entries), "failed to write entries")

	slog.Info("Conversion completed", "rows", len(rows), "entries", len(entries), "skipped", skipped)
}
