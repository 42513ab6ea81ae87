/*
engine.go - Reconciliation entry point

PURPOSE:
  Orchestrates one run: validate configuration, resolve the reference date,
  allocate debits to credits, classify and accrue interest, and summarize.
  The whole computation is a pure, deterministic, single-threaded function of
  its inputs; the working credit/debit slices are private to one invocation
  and no cross-invocation state exists. Identical statement and configuration
  give identical output, which is what makes fingerprint-keyed caching
  (fingerprint.go, store/sqlite) safe.

FAILURE MODEL:
  The engine never partially commits. A configuration error or an
  underivable reference date yields a nil report and an error; an empty
  statement with an explicit reference date yields zero totals and empty
  result lists.
*/
package recon

// Reconcile runs the full allocation, interest, and summary pipeline over a
// statement.
func Reconcile(stmt Statement, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	referenceDate, err := resolveReferenceDate(stmt, cfg)
	if err != nil {
		return nil, err
	}

	credits, debits := splitEvents(stmt.Transactions)
	allocate(credits, debits, cfg.MatchPolicy)

	overdue, pending := classify(credits, referenceDate, cfg)
	if cfg.PrincipalCap != nil {
		overdue = applyPrincipalCap(overdue, *cfg.PrincipalCap, referenceDate, cfg.DailyRate())
	}

	return &Report{
		Overdue: overdue,
		Pending: pending,
		Summary: summarize(stmt, overdue, pending, referenceDate, cfg.TaxRate),
	}, nil
}

// resolveReferenceDate returns the explicit reference date, or derives the
// latest transaction date when none was supplied. Derivation on an undated
// statement fails with ErrNoData.
func resolveReferenceDate(stmt Statement, cfg Config) (Date, error) {
	if !cfg.ReferenceDate.IsZero() {
		return cfg.ReferenceDate, nil
	}

	var latest Date
	for _, tx := range stmt.Transactions {
		if latest.IsZero() || tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	if latest.IsZero() {
		return Date{}, ErrNoData
	}
	return latest, nil
}
