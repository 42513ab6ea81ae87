/*
allocate.go - Chronological debit-to-credit matching

PURPOSE:
  Walks credits in ascending date order and greedily consumes the debit pool
  against each credit's remaining principal. Every allocation reduces both
  the credit's principal and the debit's remaining capacity immediately, so a
  debit can never be double-counted: its cumulative allocations across all
  credits never exceed its original amount.

MATCHING WINDOW:
  Two policies exist in practice (see config.go). Under MatchAnyFuture a
  single pass matches any unconsumed debit dated on/after the credit; under
  MatchDueDateWindowed the first pass stops at the credit's due date and a
  second chronological pass distributes the post-due debits. Both passes scan
  debits in ascending date order, so each credit's allocation list comes out
  ordered by payment date.

DETERMINISM:
  Credits and debits are sorted with a stable sort; rows sharing a date keep
  their input order. Ties are not business-significant but the output must be
  reproducible.
*/
package recon

import (
	"sort"

	"github.com/shopspring/decimal"
)

// splitEvents partitions a transaction sequence into credit and debit events,
// both sorted ascending by date (stable on ties). Rows with neither a
// positive debit nor a positive credit contribute nothing.
func splitEvents(txs []Transaction) (credits []*CreditEvent, debits []*DebitEvent) {
	for _, tx := range txs {
		if tx.Credit.IsPositive() {
			credits = append(credits, &CreditEvent{
				Date:      tx.Date,
				DueDate:   tx.DueDate,
				Amount:    tx.Credit,
				Principal: tx.Credit,
			})
		}
		if tx.Debit.IsPositive() {
			debits = append(debits, &DebitEvent{
				Date:      tx.Date,
				Amount:    tx.Debit,
				Remaining: tx.Debit,
			})
		}
	}

	sort.SliceStable(credits, func(i, j int) bool { return credits[i].Date.Before(credits[j].Date) })
	sort.SliceStable(debits, func(i, j int) bool { return debits[i].Date.Before(debits[j].Date) })
	return credits, debits
}

// allocate runs the greedy chronological matching over the working events.
// Both slices are mutated in place.
func allocate(credits []*CreditEvent, debits []*DebitEvent, policy MatchPolicy) {
	windowed := policy == MatchDueDateWindowed

	for _, credit := range credits {
		allocateToCredit(credit, debits, func(d *DebitEvent) bool {
			if d.Date.Before(credit.Date) {
				return false
			}
			if windowed && d.Date.After(credit.DueDate) {
				return false
			}
			return true
		})
	}

	if !windowed {
		return
	}

	// Second pass: post-due debits, still credit-by-credit in date order.
	for _, credit := range credits {
		allocateToCredit(credit, debits, func(d *DebitEvent) bool {
			return d.Date.After(credit.DueDate)
		})
	}
}

// allocateToCredit consumes eligible debits against one credit until its
// principal is retired or the pool is exhausted.
func allocateToCredit(credit *CreditEvent, debits []*DebitEvent, eligible func(*DebitEvent) bool) {
	for _, debit := range debits {
		if !credit.Principal.IsPositive() {
			return
		}
		if !debit.Remaining.IsPositive() || !eligible(debit) {
			continue
		}

		amount := decimal.Min(credit.Principal, debit.Remaining)
		credit.Allocations = append(credit.Allocations, Allocation{
			PaymentDate: debit.Date,
			Amount:      amount,
		})
		// Reduce both sides immediately - no batching, no double-spend.
		credit.Principal = credit.Principal.Sub(amount)
		debit.Remaining = debit.Remaining.Sub(amount)
	}
}
