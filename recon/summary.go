/*
summary.go - Scalar totals over the result lists

PURPOSE:
  Pure derived-value computation: reduce the overdue and pending lists into
  the totals the report needs, apply the flat tax on interest, and, when the
  statement carried opening/closing balance sentinels, cross-check the
  computed closing balance against the actual one. Absent balances propagate
  as nil rather than failing.
*/
package recon

import (
	"github.com/shopspring/decimal"
)

// summarize reduces the result lists into the Summary block.
func summarize(stmt Statement, overdue []OverdueCredit, pending []PendingCredit, referenceDate Date, taxRate decimal.Decimal) Summary {
	s := Summary{
		ReferenceDate:         referenceDate,
		TotalCreditsProcessed: decimal.Zero,
		TotalDebitsProcessed:  decimal.Zero,
		TotalPrincipalOverdue: decimal.Zero,
		TotalPendingPrincipal: decimal.Zero,
		TotalInterest:         decimal.Zero,
		OpeningBalance:        stmt.OpeningBalance,
		ActualClosingBalance:  stmt.ClosingBalance,
	}

	// Gross flows, independent of matching outcome.
	for _, tx := range stmt.Transactions {
		s.TotalCreditsProcessed = s.TotalCreditsProcessed.Add(tx.Credit)
		s.TotalDebitsProcessed = s.TotalDebitsProcessed.Add(tx.Debit)
	}

	for _, oc := range overdue {
		s.TotalPrincipalOverdue = s.TotalPrincipalOverdue.Add(oc.UnpaidPrincipal)
		s.TotalInterest = s.TotalInterest.Add(oc.Interest)
	}
	for _, pc := range pending {
		s.TotalPendingPrincipal = s.TotalPendingPrincipal.Add(pc.UnpaidPrincipal)
	}

	s.Tax = s.TotalInterest.Mul(taxRate)
	s.TotalAmountDue = s.TotalPrincipalOverdue.Add(s.TotalInterest).Add(s.Tax)

	if stmt.OpeningBalance != nil {
		computed := stmt.OpeningBalance.Add(s.TotalCreditsProcessed).Sub(s.TotalDebitsProcessed)
		s.ComputedClosingBalance = &computed
	}

	return s
}
