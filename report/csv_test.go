package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestline/arrears/recon"
	"github.com/crestline/arrears/report"
)

func sampleReport() *recon.Report {
	opening := decimal.NewFromInt(100)
	closing := decimal.NewFromInt(600)
	computed := decimal.NewFromInt(600)

	return &recon.Report{
		Overdue: []recon.OverdueCredit{
			{
				CreditDate:      recon.NewDate(2024, time.January, 15),
				CreditAmount:    decimal.NewFromInt(1000),
				DueDate:         recon.NewDate(2024, time.July, 13),
				UnpaidPrincipal: decimal.NewFromInt(1000),
				Interest:        decimal.NewFromFloat(49.32),
				TotalDue:        decimal.NewFromFloat(1049.32),
			},
			{
				CreditDate:      recon.NewDate(2024, time.February, 1),
				CreditAmount:    decimal.NewFromInt(500),
				DueDate:         recon.NewDate(2024, time.July, 30),
				UnpaidPrincipal: decimal.NewFromInt(200),
				Interest:        decimal.NewFromFloat(3.50),
				TotalDue:        decimal.NewFromFloat(203.50),
			},
		},
		Pending: []recon.PendingCredit{
			{
				CreditDate:      recon.NewDate(2024, time.June, 1),
				CreditAmount:    decimal.NewFromInt(800),
				DueDate:         recon.NewDate(2024, time.November, 28),
				UnpaidPrincipal: decimal.NewFromInt(800),
				DaysRemaining:   90,
			},
		},
		Summary: recon.Summary{
			ReferenceDate:          recon.NewDate(2024, time.August, 30),
			TotalCreditsProcessed:  decimal.NewFromInt(2300),
			TotalDebitsProcessed:   decimal.NewFromInt(1800),
			TotalPrincipalOverdue:  decimal.NewFromInt(1200),
			TotalPendingPrincipal:  decimal.NewFromInt(800),
			TotalInterest:          decimal.NewFromFloat(52.82),
			Tax:                    decimal.NewFromFloat(9.51),
			TotalAmountDue:         decimal.NewFromFloat(1262.33),
			OpeningBalance:         &opening,
			ActualClosingBalance:   &closing,
			ComputedClosingBalance: &computed,
		},
	}
}

func TestWrite_ThreeTablesWithTotals(t *testing.T) {
	// GIVEN: A report with overdue and pending entries
	// WHEN: Rendering to CSV
	// THEN: All three tables appear with their totals rows

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Overdue Amounts\n")
	assert.Contains(t, out, "Credit Date,Amount,Due Date,Unpaid,Interest,Total Due\n")
	assert.Contains(t, out, "2024-01-15,1000.00,2024-07-13,1000.00,49.32,1049.32\n")
	assert.Contains(t, out, "TOTALS,,,1200.00,52.82,1252.82\n")

	assert.Contains(t, out, "Pending Credits\n")
	assert.Contains(t, out, "2024-06-01,800.00,2024-11-28,800.00,90\n")
	assert.Contains(t, out, "TOTAL PENDING,,,800.00,\n")

	assert.Contains(t, out, "Balance Summary\n")
	assert.Contains(t, out, "Opening Balance,100.00\n")
	assert.Contains(t, out, "Reference Date,2024-08-30\n")
	assert.Contains(t, out, "Tax on Interest,9.51\n")
	assert.Contains(t, out, "Total Amount Due (Principal + Interest + Tax),1262.33\n")
}

func TestWrite_EmptyTablesRenderMessages(t *testing.T) {
	// GIVEN: A report with nothing overdue and nothing pending
	// WHEN: Rendering
	// THEN: Each empty table carries its message row, no headers or totals

	rep := &recon.Report{
		Summary: recon.Summary{ReferenceDate: recon.NewDate(2024, time.August, 30)},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, rep))
	out := buf.String()

	assert.Contains(t, out, "No overdue amounts found\n")
	assert.Contains(t, out, "No pending credits found\n")
	assert.NotContains(t, out, "TOTALS")
	// Absent balances render as empty values.
	assert.Contains(t, out, "Opening Balance,\n")
}

func TestWrite_TablesSeparatedByBlankLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sampleReport()))

	sections := strings.Split(buf.String(), "\n\"\"\n")
	require.Len(t, sections, 3, "two gap rows split the document into three tables")
	assert.True(t, strings.HasPrefix(sections[0], "Overdue Amounts"))
	assert.True(t, strings.HasPrefix(sections[1], "Pending Credits"))
	assert.True(t, strings.HasPrefix(sections[2], "Balance Summary"))
}

func TestWrite_SummaryZeroValues(t *testing.T) {
	rep := &recon.Report{Summary: recon.Summary{ReferenceDate: recon.NewDate(2024, time.January, 1)}}

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, rep))

	assert.Contains(t, buf.String(), "Total Interest Accrued,0.00\n")
}
