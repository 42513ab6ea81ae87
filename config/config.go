/*
Package config loads reconciliation settings from a TOML file.

PURPOSE:
  The CLI reads its run configuration from a TOML document so a recurring
  workflow (same rate policy, same tax rate, month after month) doesn't need
  a wall of flags. Flags still override file values; the mapping to the
  engine configuration happens here in one place.

EXAMPLE (arrears.toml):
  reference_date         = "2025-03-31"
  daily_rate_policy      = "eighteen_percent_annual"
  matching_window_policy = "any_future"
  interest_base          = "outstanding_balance"
  tax_rate               = 0.18
  principal_cap          = 500000.0
*/
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/crestline/arrears/recon"
)

// File mirrors the TOML document. Every field is optional; omitted fields
// keep the engine defaults.
type File struct {
	ReferenceDate string   `toml:"reference_date"`
	RatePolicy    string   `toml:"daily_rate_policy"`
	MatchPolicy   string   `toml:"matching_window_policy"`
	InterestBase  string   `toml:"interest_base"`
	TaxRate       *float64 `toml:"tax_rate"`
	PrincipalCap  *float64 `toml:"principal_cap"`
}

// Load reads and decodes one TOML configuration file.
func Load(path string) (File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return f, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return f, nil
}

// Engine maps the file onto an engine configuration, starting from the
// defaults. Policy validation is left to the engine.
func (f File) Engine() (recon.Config, error) {
	cfg := recon.DefaultConfig()

	if f.ReferenceDate != "" {
		t, err := time.Parse("2006-01-02", f.ReferenceDate)
		if err != nil {
			return cfg, fmt.Errorf("config: invalid reference_date %q: want yyyy-mm-dd", f.ReferenceDate)
		}
		cfg.ReferenceDate = recon.FromTime(t)
	}
	if f.RatePolicy != "" {
		cfg.RatePolicy = recon.RatePolicy(f.RatePolicy)
	}
	if f.MatchPolicy != "" {
		cfg.MatchPolicy = recon.MatchPolicy(f.MatchPolicy)
	}
	if f.InterestBase != "" {
		cfg.InterestBase = recon.InterestBase(f.InterestBase)
	}
	if f.TaxRate != nil {
		cfg.TaxRate = decimal.NewFromFloat(*f.TaxRate)
	}
	if f.PrincipalCap != nil {
		ceiling := decimal.NewFromFloat(*f.PrincipalCap)
		cfg.PrincipalCap = &ceiling
	}
	return cfg, nil
}
