/*
Package statement normalizes raw tabular ledger exports into the structured
input the reconciliation engine consumes.

PURPOSE:
  Source statements arrive as loosely formatted CSV exports: column names
  vary ("Date", "Txn Date", "180 days", "Due Date"), dates come in several
  formats including spreadsheet serials, amounts carry currency signs and
  thousands separators, and two sentinel rows labeled "opening balance" /
  "closing balance" carry scalar balances rather than transactions. This
  package absorbs all of that so the engine only ever sees valid calendar
  dates and decimal amounts.

COLUMN INFERENCE:
  Columns are located by case-insensitive substring match on the header row:
  "date" (first match), "debit", "credit", "180 days" or "due" for the
  maturity column, "particular" for the label column. Missing required
  columns fail the parse up front.

ROW RULES:
  - "opening balance" / "closing balance" rows populate the balance scalars
    (amount taken from the debit cell, else the credit cell) and are
    excluded from the transaction sequence.
  - Rows with a missing or unparsable date or due date are dropped; they
    must never reach the engine.
  - Unparsable amount cells count as zero, matching the source system.
*/
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crestline/arrears/recon"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyDocument is returned when the source has no header row.
	ErrEmptyDocument = errors.New("statement: empty document")
)

// MissingColumnError reports a required column the header row lacks.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("statement: no %s column found in header", e.Column)
}

// =============================================================================
// PARSER
// =============================================================================

// ParseResult is the outcome of normalizing one document.
type ParseResult struct {
	Statement recon.Statement
	// RowsDropped counts data rows excluded for missing/unparsable dates.
	RowsDropped int
}

type columns struct {
	date        int
	debit       int
	credit      int
	due         int
	particulars int // -1 when absent
}

// Parse reads a CSV statement and returns the normalized transaction
// sequence plus the optional opening/closing balance scalars.
func Parse(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDocument
	}
	if err != nil {
		return nil, fmt.Errorf("statement: read header: %w", err)
	}

	cols, err := inferColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("statement: read row: %w", err)
		}

		if cols.particulars >= 0 {
			label := strings.ToLower(strings.TrimSpace(cell(row, cols.particulars)))
			if label == "opening balance" {
				result.Statement.OpeningBalance = balanceScalar(row, cols)
				continue
			}
			if label == "closing balance" {
				result.Statement.ClosingBalance = balanceScalar(row, cols)
				continue
			}
		}

		date, err := ParseDate(cell(row, cols.date))
		if err != nil {
			result.RowsDropped++
			continue
		}
		due, err := ParseDate(cell(row, cols.due))
		if err != nil {
			result.RowsDropped++
			continue
		}

		result.Statement.Transactions = append(result.Statement.Transactions, recon.Transaction{
			Date:    date,
			Debit:   parseAmount(cell(row, cols.debit)),
			Credit:  parseAmount(cell(row, cols.credit)),
			DueDate: due,
		})
	}

	return result, nil
}

func inferColumns(header []string) (columns, error) {
	cols := columns{date: -1, debit: -1, credit: -1, due: -1, particulars: -1}

	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(name))
		switch {
		case cols.due < 0 && (strings.Contains(lower, "180 days") || strings.Contains(lower, "due")):
			cols.due = i
		case cols.date < 0 && strings.Contains(lower, "date"):
			cols.date = i
		case cols.debit < 0 && strings.Contains(lower, "debit"):
			cols.debit = i
		case cols.credit < 0 && strings.Contains(lower, "credit"):
			cols.credit = i
		case cols.particulars < 0 && strings.Contains(lower, "particular"):
			cols.particulars = i
		}
	}

	switch {
	case cols.date < 0:
		return cols, &MissingColumnError{Column: "date"}
	case cols.debit < 0:
		return cols, &MissingColumnError{Column: "debit"}
	case cols.credit < 0:
		return cols, &MissingColumnError{Column: "credit"}
	case cols.due < 0:
		return cols, &MissingColumnError{Column: "due date"}
	}
	return cols, nil
}

// balanceScalar extracts the scalar from a sentinel row: debit cell first,
// credit cell as fallback. Nil when neither parses to a value.
func balanceScalar(row []string, cols columns) *decimal.Decimal {
	for _, idx := range []int{cols.debit, cols.credit} {
		raw := strings.TrimSpace(cell(row, idx))
		if raw == "" {
			continue
		}
		if v, err := decimal.NewFromString(cleanAmount(raw)); err == nil {
			return &v
		}
	}
	return nil
}

// parseAmount normalizes one amount cell. Empty or malformed cells are zero.
func parseAmount(raw string) decimal.Decimal {
	s := cleanAmount(raw)
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

func cleanAmount(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimPrefix(s, "Rs.")
	return strings.TrimSpace(s)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
