/*
Package recon is the ledger reconciliation engine.

PURPOSE:
  Given a statement of dated credit and debit entries, the engine matches
  debits against credit principal in chronological order, classifies every
  credit as resolved, pending, or overdue against its 180-day maturity date,
  and accrues simple daily interest (plus tax) on balances that remain unpaid
  past maturity, all as of a fixed reference date.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: One normalized statement row (date, debit, credit, due date)
  - Statement:   The full transaction sequence plus opening/closing balances
  - CreditEvent: A credit with its mutable remaining principal
  - DebitEvent:  A debit with its mutable remaining payment capacity
  - Allocation:  A (payment date, amount) match recorded against a credit
  - OverdueCredit / PendingCredit / Summary: read-only results

DESIGN PRINCIPLES:
  1. Precision: All money uses decimal.Decimal, never binary floats
  2. Determinism: Identical input and configuration give identical output
  3. Purity: The engine mutates only working copies private to one run

SEE ALSO:
  - allocate.go: Debit-to-credit matching
  - interest.go: Interest accrual on overdue balances
  - summary.go:  Scalar totals and balance reconciliation
*/
package recon

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT - Normalized statement rows
// =============================================================================

// Transaction is one normalized ledger row. Exactly one of Debit and Credit
// is expected to be positive; both dates are already-valid calendar dates.
// The normalizer (statement package) guarantees this - rows with missing or
// unparsable dates never reach the engine.
type Transaction struct {
	Date    Date
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	DueDate Date
}

// Statement is the full input to one reconciliation run. The opening and
// closing balances come from sentinel rows in the source document and are
// both optional; they feed only the balance cross-check in the summary.
type Statement struct {
	Transactions   []Transaction
	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal
}

// =============================================================================
// WORKING STATE - Mutable during one engine invocation
// =============================================================================

// CreditEvent is a credit entry under allocation. Principal starts at Amount
// and is monotonically reduced as debits are matched against it; the
// invariant 0 <= Principal <= Amount holds throughout.
type CreditEvent struct {
	Date        Date
	DueDate     Date
	Amount      decimal.Decimal
	Principal   decimal.Decimal
	Allocations []Allocation
}

// DebitEvent is a payment entry under allocation. Remaining starts at Amount
// and is monotonically reduced as the debit is consumed; each unit of a debit
// retires at most one unit of credit principal.
type DebitEvent struct {
	Date      Date
	Amount    decimal.Decimal
	Remaining decimal.Decimal
}

// Allocation records part or all of a debit applied against one credit.
type Allocation struct {
	PaymentDate Date
	Amount      decimal.Decimal
}

// =============================================================================
// RESULTS - Read-only once produced
// =============================================================================

// CreditState is the terminal classification of a credit.
type CreditState string

const (
	// StateResolved: fully paid by the due date. Resolved credits are
	// dropped from the report.
	StateResolved CreditState = "resolved"
	// StatePending: unpaid principal remains but the due date is still
	// ahead of the reference date. No interest.
	StatePending CreditState = "pending"
	// StateOverdue: principal was unpaid at the due date and the due date
	// is on or before the reference date. Interest accrues.
	StateOverdue CreditState = "overdue"
)

// OverdueCredit is the result record for a credit with interest owed.
type OverdueCredit struct {
	CreditDate      Date
	CreditAmount    decimal.Decimal
	DueDate         Date
	UnpaidPrincipal decimal.Decimal
	Interest        decimal.Decimal
	TotalDue        decimal.Decimal
	Allocations     []Allocation
}

// PendingCredit is the result record for a credit not yet due.
type PendingCredit struct {
	CreditDate      Date
	CreditAmount    decimal.Decimal
	DueDate         Date
	UnpaidPrincipal decimal.Decimal
	DaysRemaining   int
	Allocations     []Allocation
}

// Summary holds the scalar totals derived from the result lists.
type Summary struct {
	ReferenceDate Date

	TotalCreditsProcessed decimal.Decimal
	TotalDebitsProcessed  decimal.Decimal

	TotalPrincipalOverdue decimal.Decimal
	TotalPendingPrincipal decimal.Decimal
	TotalInterest         decimal.Decimal
	Tax                   decimal.Decimal
	TotalAmountDue        decimal.Decimal

	// Balance cross-check. Nil when the statement carried no opening
	// balance sentinel.
	OpeningBalance         *decimal.Decimal
	ActualClosingBalance   *decimal.Decimal
	ComputedClosingBalance *decimal.Decimal
}

// Report is the complete output of one reconciliation run.
type Report struct {
	Overdue []OverdueCredit
	Pending []PendingCredit
	Summary Summary
}
