package statement_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestline/arrears/recon"
	"github.com/crestline/arrears/statement"
)

func TestParse_TypicalExport(t *testing.T) {
	// GIVEN: A statement with bank-style headers, currency formatting, and
	//        opening/closing balance sentinel rows
	// WHEN: Parsing
	// THEN: Transactions are normalized, sentinels become balance scalars

	src := strings.Join([]string{
		"Particulars,Txn Date,Debit,Credit,180 Days Due Date",
		"Opening Balance,, \"1,500.00\",,",
		"Invoice 101,15-01-2024,,\"10,000.00\",13-07-2024",
		"Payment recd,20-02-2024,₹2500,,",
		"Closing Balance,,\"9,000.00\",,",
	}, "\n")

	res, err := statement.Parse(strings.NewReader(src))
	require.NoError(t, err)

	require.NotNil(t, res.Statement.OpeningBalance)
	assert.Equal(t, "1500.00", res.Statement.OpeningBalance.StringFixed(2))
	require.NotNil(t, res.Statement.ClosingBalance)
	assert.Equal(t, "9000.00", res.Statement.ClosingBalance.StringFixed(2))

	// The payment row has no due date and is dropped; the invoice survives.
	require.Len(t, res.Statement.Transactions, 1)
	assert.Equal(t, 1, res.RowsDropped)

	tx := res.Statement.Transactions[0]
	assert.True(t, tx.Date.Equal(recon.NewDate(2024, time.January, 15)))
	assert.True(t, tx.DueDate.Equal(recon.NewDate(2024, time.July, 13)))
	assert.Equal(t, "10000.00", tx.Credit.StringFixed(2))
	assert.True(t, tx.Debit.IsZero())
}

func TestParse_DueDateColumnWinsOverDateColumn(t *testing.T) {
	// GIVEN: A header where "Due Date" also contains the substring "date"
	// WHEN: Inferring columns
	// THEN: The maturity column binds to "Due Date", not to "Date"

	src := strings.Join([]string{
		"Date,Particulars,Debit,Credit,Due Date",
		"01-03-2024,Invoice,,500,28-08-2024",
	}, "\n")

	res, err := statement.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, res.Statement.Transactions, 1)

	tx := res.Statement.Transactions[0]
	assert.True(t, tx.Date.Equal(recon.NewDate(2024, time.March, 1)))
	assert.True(t, tx.DueDate.Equal(recon.NewDate(2024, time.August, 28)))
}

func TestParse_ExcelSerialDates(t *testing.T) {
	// GIVEN: Date cells holding spreadsheet serial numbers
	// WHEN: Parsing
	// THEN: Serials convert through the 1899-12-30 epoch

	src := strings.Join([]string{
		"Date,Debit,Credit,Due",
		"45292,,1000,45472",
	}, "\n")

	res, err := statement.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, res.Statement.Transactions, 1)

	tx := res.Statement.Transactions[0]
	assert.True(t, tx.Date.Equal(recon.NewDate(2024, time.January, 1)), "got %s", tx.Date)
	assert.True(t, tx.DueDate.Equal(recon.NewDate(2024, time.June, 29)), "got %s", tx.DueDate)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	src := "Date,Debit,Due\n01-01-2024,100,29-06-2024\n"

	_, err := statement.Parse(strings.NewReader(src))
	require.Error(t, err)

	var missing *statement.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "credit", missing.Column)
}

func TestParse_EmptyDocument(t *testing.T) {
	_, err := statement.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, statement.ErrEmptyDocument)
}

func TestParse_MalformedAmountIsZero(t *testing.T) {
	src := strings.Join([]string{
		"Date,Debit,Credit,Due",
		"01-01-2024,n/a,1000,29-06-2024",
	}, "\n")

	res, err := statement.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, res.Statement.Transactions, 1)
	assert.True(t, res.Statement.Transactions[0].Debit.IsZero())
}

func TestParseDate_Formats(t *testing.T) {
	want := recon.NewDate(2024, time.January, 15)

	for _, raw := range []string{"15-01-2024", "15/01/2024", "2024-01-15", "15-1-2024", "15/1/2024"} {
		got, err := statement.ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, got.Equal(want), "%s parsed to %s", raw, got)
	}
}

func TestParseDate_Rejects(t *testing.T) {
	for _, raw := range []string{"", "  ", "yesterday", "-5", "0", "13-13-2024"} {
		_, err := statement.ParseDate(raw)
		assert.Error(t, err, "%q should not parse", raw)
	}
}
