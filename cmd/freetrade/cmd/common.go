package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/config"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/converter"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/freetrade"
)

// importFlags are shared by the commands reading an export.
type importFlags struct {
	input       string
	account     string
	profile     string
	skipInvalid bool
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Freetrade activity export (CSV) (required)")
	cmd.Flags().StringVarP(&f.account, "account", "a", "", "account name (default is FREETRADE_ACCOUNT)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "YAML profile (default is FREETRADE_PROFILE)")
	cmd.Flags().BoolVar(&f.skipInvalid, "skip-invalid", false, "log and skip rows that cannot be converted")

	cmd.MarkFlagRequired("input")
}

// resolve fills the account and profile from the configuration when the
// flags leave them empty, and returns the converter to use.
func (f *importFlags) resolve(cfg *config.Config) (*converter.Converter, error) {
	profile := converter.DefaultProfile()

	profilePath := f.profile
	if profilePath == "" {
		profilePath = cfg.Freetrade.ProfilePath
	}
	if profilePath != "" {
		p, err := converter.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		profile = p
		slog.Debug("Loaded profile", "path", profilePath, "currency", p.Currency, "institution", p.Institution)
	}

	if f.account == "" {
		f.account = cfg.Freetrade.Account
	}
	if f.account == "" {
		f.account = profile.Account
	}
	if f.account == "" {
		return nil, fmt.Errorf("no account name: use --account, FREETRADE_ACCOUNT or the profile's account")
	}

	return converter.NewConverter(profile), nil
}

func readRows(path string) ([]freetrade.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	rows, err := freetrade.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	slog.Debug("Read export", "path", path, "rows", len(rows))
	return rows, nil
}
