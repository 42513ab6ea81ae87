/*
interest.go - Credit classification and interest accrual

PURPOSE:
  Takes the allocated credits and the reference date and produces the two
  result lists. Every credit reaches exactly one terminal state:

    Resolved - fully paid by its due date (dropped from the report)
    Pending  - due date strictly after the reference date, principal remains
    Overdue  - due date on/before the reference date, principal was unpaid
               at the due date

  Overdue credits accrue simple daily interest segment by segment: from the
  due date to the first late payment, between late payments, and finally to
  the reference date while a balance remains. Segments never compound; each
  charges dailyRate * days on the segment base.

INTEREST BASE:
  Whether a segment's base is the currently outstanding balance or always
  the amount unpaid at the due date is a configuration choice (config.go),
  since both variants appear in practice.
*/
package recon

import (
	"github.com/shopspring/decimal"
)

// classify walks allocated credits in date order and buckets them into
// overdue and pending result lists. Resolved credits produce nothing.
func classify(credits []*CreditEvent, referenceDate Date, cfg Config) ([]OverdueCredit, []PendingCredit) {
	var overdue []OverdueCredit
	var pending []PendingCredit

	dailyRate := cfg.DailyRate()

	for _, credit := range credits {
		if credit.DueDate.After(referenceDate) {
			// Not yet due. Report remaining principal, never interest.
			if credit.Principal.IsPositive() {
				pending = append(pending, PendingCredit{
					CreditDate:      credit.Date,
					CreditAmount:    credit.Amount,
					DueDate:         credit.DueDate,
					UnpaidPrincipal: credit.Principal,
					DaysRemaining:   maxInt(DaysBetween(referenceDate, credit.DueDate), 0),
					Allocations:     credit.Allocations,
				})
			}
			continue
		}

		unpaidAtDue := credit.Amount.Sub(paidOnOrBefore(credit.Allocations, credit.DueDate))
		if !unpaidAtDue.IsPositive() {
			// Fully paid by the due date: resolved, zero interest.
			continue
		}

		balance, interest := accrueInterest(
			unpaidAtDue,
			lateAllocations(credit.Allocations, credit.DueDate),
			credit.DueDate,
			referenceDate,
			dailyRate,
			cfg.InterestBase,
		)

		overdue = append(overdue, OverdueCredit{
			CreditDate:      credit.Date,
			CreditAmount:    credit.Amount,
			DueDate:         credit.DueDate,
			UnpaidPrincipal: balance,
			Interest:        interest,
			TotalDue:        balance.Add(interest),
			Allocations:     credit.Allocations,
		})
	}

	return overdue, pending
}

// accrueInterest integrates simple daily interest from the due date across
// the sequence of late payments up to the reference date. Returns the
// balance still outstanding at the reference date and the interest charge.
func accrueInterest(unpaidAtDue decimal.Decimal, late []Allocation, dueDate, referenceDate Date, dailyRate decimal.Decimal, base InterestBase) (decimal.Decimal, decimal.Decimal) {
	balance := unpaidAtDue
	cursor := dueDate
	interest := decimal.Zero

	segmentBase := func() decimal.Decimal {
		if base == InterestOnOriginal {
			return unpaidAtDue
		}
		return balance
	}

	for _, payment := range late {
		days := maxInt(DaysBetween(cursor, payment.PaymentDate), 0)
		interest = interest.Add(segmentBase().Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))))
		balance = balance.Sub(payment.Amount)
		cursor = payment.PaymentDate
		if !balance.IsPositive() {
			balance = decimal.Zero
			break
		}
	}

	if balance.IsPositive() {
		days := maxInt(DaysBetween(cursor, referenceDate), 0)
		interest = interest.Add(segmentBase().Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))))
	}

	return balance, interest
}

// applyPrincipalCap enforces the optional cumulative-principal ceiling. The
// credit that crosses the cap is trimmed by the excess and has its interest
// recomputed on the reduced balance over the plain due-to-reference day
// count; overdue credits past the cap are dropped.
func applyPrincipalCap(overdue []OverdueCredit, cap decimal.Decimal, referenceDate Date, dailyRate decimal.Decimal) []OverdueCredit {
	cumulative := decimal.Zero
	for i, oc := range overdue {
		cumulative = cumulative.Add(oc.UnpaidPrincipal)
		if cumulative.LessThan(cap) {
			continue
		}

		excess := cumulative.Sub(cap)
		reduced := oc.UnpaidPrincipal.Sub(excess)
		days := maxInt(DaysBetween(oc.DueDate, referenceDate), 0)
		interest := reduced.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days)))

		overdue[i].UnpaidPrincipal = reduced
		overdue[i].Interest = interest
		overdue[i].TotalDue = reduced.Add(interest)
		return overdue[:i+1]
	}
	return overdue
}

func paidOnOrBefore(allocations []Allocation, cutoff Date) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		if a.PaymentDate.BeforeOrEqual(cutoff) {
			total = total.Add(a.Amount)
		}
	}
	return total
}

func lateAllocations(allocations []Allocation, cutoff Date) []Allocation {
	var late []Allocation
	for _, a := range allocations {
		if a.PaymentDate.After(cutoff) {
			late = append(late, a)
		}
	}
	return late
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
