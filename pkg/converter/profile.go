package converter

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"gopkg.in/yaml.v3"
)

// Defaults applied to empty profile fields.
const (
	DefaultCurrency    = "GBP"
	DefaultInstitution = "UK:Freetrade"
)

// Profile describes how entries of one Freetrade account are written.
//
// Example profile.yaml:
//
//	account: SIPP
//	currency: GBP
//	institution: UK:Freetrade
type Profile struct {
	// Account is the default account name, substituted verbatim after the institution.
	Account string `yaml:"account"`
	// Currency of every cash posting and cost annotation.
	Currency string `yaml:"currency"`
	// Institution is the account path between the root and the account name.
	Institution string `yaml:"institution"`
}

// DefaultProfile returns the profile producing Assets:UK:Freetrade:<account> paths in GBP.
func DefaultProfile() Profile {
	return Profile{
		Currency:    DefaultCurrency,
		Institution: DefaultInstitution,
	}
}

// LoadProfile reads and validates a YAML profile. Missing fields take their defaults.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	p = p.withDefaults()
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}

func (p Profile) withDefaults() Profile {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Institution == "" {
		p.Institution = DefaultInstitution
	}
	return p
}

// Validate checks the currency is a known ISO 4217 code and the institution
// is a well-formed account path fragment.
func (p Profile) Validate() error {
	if money.GetCurrency(p.Currency) == nil {
		return fmt.Errorf("unknown currency %q", p.Currency)
	}
	if strings.ContainsAny(p.Institution, " \t") {
		return fmt.Errorf("institution %q contains whitespace", p.Institution)
	}
	for _, segment := range strings.Split(p.Institution, ":") {
		if segment == "" {
			return fmt.Errorf("institution %q has an empty segment", p.Institution)
		}
	}
	return nil
}
