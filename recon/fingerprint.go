/*
fingerprint.go - Deterministic input fingerprint

PURPOSE:
  Produces a stable identity for (statement, configuration) pairs. Because
  the engine is a pure function of its inputs, callers can key cached run
  results on this fingerprint and skip recomputation.

FORMAT:
  Hex-encoded SHA-256 over a canonical line-oriented serialization: one line
  per transaction (date|debit|credit|due), then the balance sentinels, then
  the configuration fields. Decimal values serialize via String(), which is
  exact.
*/
package recon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Fingerprint returns the canonical SHA-256 fingerprint of one run's inputs.
func Fingerprint(stmt Statement, cfg Config) string {
	h := sha256.New()

	for _, tx := range stmt.Transactions {
		fmt.Fprintf(h, "tx|%s|%s|%s|%s\n", tx.Date, tx.Debit, tx.Credit, tx.DueDate)
	}
	writeOptional(h, "opening", stmt.OpeningBalance)
	writeOptional(h, "closing", stmt.ClosingBalance)

	fmt.Fprintf(h, "cfg|%s|%s|%s|%s|%s\n",
		cfg.ReferenceDate, cfg.RatePolicy, cfg.MatchPolicy, cfg.InterestBase, cfg.TaxRate)
	writeOptional(h, "cap", cfg.PrincipalCap)

	return hex.EncodeToString(h.Sum(nil))
}

func writeOptional(w io.Writer, label string, value *decimal.Decimal) {
	if value == nil {
		fmt.Fprintf(w, "%s|absent\n", label)
		return
	}
	fmt.Fprintf(w, "%s|%s\n", label, value)
}
