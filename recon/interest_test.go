package recon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccrueInterest_OutstandingBalance_SegmentsShrink(t *testing.T) {
	// GIVEN: 1,000 unpaid at due, late payments of 400 (+10d) and 600 (+20d)
	// WHEN: Accruing at 1%/day on the outstanding balance
	// THEN: 1000*0.01*10 + 600*0.01*10 = 160, balance retired

	due := date(2024, 1, 1)
	late := []Allocation{
		{PaymentDate: due.AddDays(10), Amount: decimal.NewFromInt(400)},
		{PaymentDate: due.AddDays(20), Amount: decimal.NewFromInt(600)},
	}

	balance, interest := accrueInterest(
		decimal.NewFromInt(1000), late, due, due.AddDays(30),
		decimal.NewFromFloat(0.01), InterestOnOutstanding,
	)

	assert.True(t, balance.IsZero())
	assert.Equal(t, "160.00", interest.StringFixed(2))
}

func TestAccrueInterest_OriginalUnpaid_SegmentsHold(t *testing.T) {
	// GIVEN: The same payment schedule
	// WHEN: Accruing on the amount unpaid at due, ignoring partial payments
	// THEN: 1000*0.01*10 + 1000*0.01*10 = 200

	due := date(2024, 1, 1)
	late := []Allocation{
		{PaymentDate: due.AddDays(10), Amount: decimal.NewFromInt(400)},
		{PaymentDate: due.AddDays(20), Amount: decimal.NewFromInt(600)},
	}

	balance, interest := accrueInterest(
		decimal.NewFromInt(1000), late, due, due.AddDays(30),
		decimal.NewFromFloat(0.01), InterestOnOriginal,
	)

	assert.True(t, balance.IsZero())
	assert.Equal(t, "200.00", interest.StringFixed(2))
}

func TestAccrueInterest_NoPayments_RunsToReferenceDate(t *testing.T) {
	due := date(2024, 1, 1)

	balance, interest := accrueInterest(
		decimal.NewFromInt(1000), nil, due, due.AddDays(30),
		decimal.NewFromFloat(0.01), InterestOnOutstanding,
	)

	assert.Equal(t, "1000.00", balance.StringFixed(2))
	assert.Equal(t, "300.00", interest.StringFixed(2))
}

func TestAccrueInterest_PaymentOnDueDateBoundary_ZeroDays(t *testing.T) {
	// GIVEN: The only late payment lands the day after due, in full
	// WHEN: Accruing
	// THEN: Exactly one day of interest, no final segment

	due := date(2024, 1, 1)
	late := []Allocation{
		{PaymentDate: due.AddDays(1), Amount: decimal.NewFromInt(1000)},
	}

	balance, interest := accrueInterest(
		decimal.NewFromInt(1000), late, due, due.AddDays(90),
		decimal.NewFromFloat(0.01), InterestOnOutstanding,
	)

	assert.True(t, balance.IsZero())
	assert.Equal(t, "10.00", interest.StringFixed(2))
}

func TestApplyPrincipalCap_CrossingCreditTrimmed(t *testing.T) {
	// GIVEN: Overdue credits of 500/500/500 against a cap of 800
	// WHEN: Applying the cap at 1%/day with 10 days due-to-reference
	// THEN: List truncated after the crossing credit, which is trimmed to
	//       300 with interest recomputed as 300*0.01*10

	ref := date(2024, 6, 1)
	mk := func(unpaid int64) OverdueCredit {
		return OverdueCredit{
			DueDate:         ref.AddDays(-10),
			UnpaidPrincipal: decimal.NewFromInt(unpaid),
			Interest:        decimal.NewFromInt(999), // recomputed on trim
		}
	}
	overdue := []OverdueCredit{mk(500), mk(500), mk(500)}

	capped := applyPrincipalCap(overdue, decimal.NewFromInt(800), ref, decimal.NewFromFloat(0.01))

	require.Len(t, capped, 2)
	assert.Equal(t, "500.00", capped[0].UnpaidPrincipal.StringFixed(2))
	assert.Equal(t, "300.00", capped[1].UnpaidPrincipal.StringFixed(2))
	assert.Equal(t, "30.00", capped[1].Interest.StringFixed(2))
	assert.Equal(t, "330.00", capped[1].TotalDue.StringFixed(2))
}

func TestApplyPrincipalCap_UnderCap_Untouched(t *testing.T) {
	ref := date(2024, 6, 1)
	overdue := []OverdueCredit{{
		DueDate:         ref.AddDays(-10),
		UnpaidPrincipal: decimal.NewFromInt(100),
		Interest:        decimal.NewFromInt(10),
	}}

	capped := applyPrincipalCap(overdue, decimal.NewFromInt(1000), ref, decimal.NewFromFloat(0.01))

	require.Len(t, capped, 1)
	assert.Equal(t, "10.00", capped[0].Interest.StringFixed(2))
}
