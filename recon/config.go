/*
config.go - Reconciliation run configuration

PURPOSE:
  Models the policy knobs that vary between deployments as explicit tagged
  choices. Two daily-rate presets and two matching-window policies exist in
  practice and produce materially different totals from identical input, so
  neither is ever inferred or hard-coded.

KNOBS:
  RatePolicy:    eighteen_of_eighteen_daily (0.18*0.18 per day) or
                 eighteen_percent_annual (0.18/365 per day)
  MatchPolicy:   any_future (any unconsumed debit on/after the credit date)
                 or due_date_windowed (only debits inside [date, due] in the
                 first pass; later debits matched in a second pass)
  InterestBase:  outstanding_balance (interest follows partial payments) or
                 original_unpaid (interest always on the amount unpaid at due)
  TaxRate:       flat fraction applied to accrued interest (default 0.18)
  PrincipalCap:  optional ceiling on cumulative overdue principal
  ReferenceDate: as-of date; zero value means "latest transaction date"

Validate() runs before any computation - an unrecognized policy never
produces partial results.
*/
package recon

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// POLICY ENUMS
// =============================================================================

type RatePolicy string

const (
	// RateEighteenOfEighteenDaily charges 18% of 18% per day (3.24%/day).
	RateEighteenOfEighteenDaily RatePolicy = "eighteen_of_eighteen_daily"
	// RateEighteenPercentAnnual charges 18% per annum, accrued daily.
	RateEighteenPercentAnnual RatePolicy = "eighteen_percent_annual"
)

type MatchPolicy string

const (
	// MatchAnyFuture allocates any unconsumed debit dated on or after the
	// credit's origin date, leaving the on-time/late distinction to the
	// interest calculation.
	MatchAnyFuture MatchPolicy = "any_future"
	// MatchDueDateWindowed allocates only debits inside [origin, due] in
	// the first pass; post-due debits are matched in a second pass.
	MatchDueDateWindowed MatchPolicy = "due_date_windowed"
)

type InterestBase string

const (
	// InterestOnOutstanding accrues each segment on the balance remaining
	// after earlier late payments.
	InterestOnOutstanding InterestBase = "outstanding_balance"
	// InterestOnOriginal accrues every segment on the amount that was
	// unpaid at the due date, ignoring later partial payments.
	InterestOnOriginal InterestBase = "original_unpaid"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config is the full configuration surface of one reconciliation run.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	// ReferenceDate is the as-of date for classification and interest.
	// When zero, the latest transaction date in the statement is used;
	// that derivation fails with ErrNoData on an undated statement.
	ReferenceDate Date

	RatePolicy   RatePolicy
	MatchPolicy  MatchPolicy
	InterestBase InterestBase

	// TaxRate is the flat fraction of accrued interest added as tax.
	TaxRate decimal.Decimal

	// PrincipalCap, when non-nil, caps cumulative overdue principal. The
	// credit that crosses the cap is trimmed to fit and later overdue
	// credits are dropped from the report.
	PrincipalCap *decimal.Decimal
}

// DefaultConfig mirrors the most common deployment: annual rate, any-future
// matching, interest on the outstanding balance, 18% tax.
func DefaultConfig() Config {
	return Config{
		RatePolicy:   RateEighteenPercentAnnual,
		MatchPolicy:  MatchAnyFuture,
		InterestBase: InterestOnOutstanding,
		TaxRate:      decimal.NewFromFloat(0.18),
	}
}

var daysPerYear = decimal.NewFromInt(365)

// DailyRate resolves the configured rate policy to a per-day decimal rate.
func (c Config) DailyRate() decimal.Decimal {
	switch c.RatePolicy {
	case RateEighteenOfEighteenDaily:
		// 0.18 * 0.18 = 0.0324 per day
		return decimal.NewFromFloat(0.18).Mul(decimal.NewFromFloat(0.18))
	case RateEighteenPercentAnnual:
		return decimal.NewFromFloat(0.18).Div(daysPerYear)
	default:
		return decimal.Zero
	}
}

// Validate rejects unrecognized policies and malformed rates before any
// computation starts.
func (c Config) Validate() error {
	switch c.RatePolicy {
	case RateEighteenOfEighteenDaily, RateEighteenPercentAnnual:
	default:
		return &ConfigError{Field: "daily_rate_policy", Value: string(c.RatePolicy)}
	}

	switch c.MatchPolicy {
	case MatchAnyFuture, MatchDueDateWindowed:
	default:
		return &ConfigError{Field: "matching_window_policy", Value: string(c.MatchPolicy)}
	}

	switch c.InterestBase {
	case InterestOnOutstanding, InterestOnOriginal:
	default:
		return &ConfigError{Field: "interest_base", Value: string(c.InterestBase)}
	}

	if c.TaxRate.IsNegative() {
		return &ConfigError{Field: "tax_rate", Value: c.TaxRate.String()}
	}
	if c.PrincipalCap != nil && c.PrincipalCap.IsNegative() {
		return &ConfigError{Field: "principal_cap", Value: c.PrincipalCap.String()}
	}
	return nil
}
