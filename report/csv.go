/*
Package report renders a reconciliation report as a three-table CSV document.

PURPOSE:
  Serializes the engine's output for download and archival. The document
  mirrors the three logical tables of the report: Overdue Amounts (with a
  TOTALS row), Pending Credits (with a TOTAL PENDING row), and the Balance
  Summary key/value block. Tables that came out empty render a single
  message row instead, so a reader can tell "nothing overdue" apart from a
  truncated file.

FORMAT:
  Plain CSV, one blank line between tables, section title on its own row.
  Amounts are fixed to two decimal places; dates are ISO (yyyy-mm-dd).
*/
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/crestline/arrears/recon"
)

// Write serializes the full report to w.
func Write(w io.Writer, rep *recon.Report) error {
	cw := csv.NewWriter(w)

	if err := writeOverdue(cw, rep.Overdue); err != nil {
		return err
	}
	if err := writeGap(cw); err != nil {
		return err
	}
	if err := writePending(cw, rep.Pending); err != nil {
		return err
	}
	if err := writeGap(cw); err != nil {
		return err
	}
	if err := writeSummary(cw, rep.Summary); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func writeOverdue(cw *csv.Writer, overdue []recon.OverdueCredit) error {
	if err := cw.Write([]string{"Overdue Amounts"}); err != nil {
		return err
	}
	if len(overdue) == 0 {
		return cw.Write([]string{"No overdue amounts found"})
	}

	if err := cw.Write([]string{"Credit Date", "Amount", "Due Date", "Unpaid", "Interest", "Total Due"}); err != nil {
		return err
	}

	totalUnpaid, totalInterest, totalDue := decimal.Zero, decimal.Zero, decimal.Zero
	for _, oc := range overdue {
		totalUnpaid = totalUnpaid.Add(oc.UnpaidPrincipal)
		totalInterest = totalInterest.Add(oc.Interest)
		totalDue = totalDue.Add(oc.TotalDue)

		if err := cw.Write([]string{
			oc.CreditDate.String(),
			money(oc.CreditAmount),
			oc.DueDate.String(),
			money(oc.UnpaidPrincipal),
			money(oc.Interest),
			money(oc.TotalDue),
		}); err != nil {
			return err
		}
	}

	return cw.Write([]string{"TOTALS", "", "", money(totalUnpaid), money(totalInterest), money(totalDue)})
}

func writePending(cw *csv.Writer, pending []recon.PendingCredit) error {
	if err := cw.Write([]string{"Pending Credits"}); err != nil {
		return err
	}
	if len(pending) == 0 {
		return cw.Write([]string{"No pending credits found"})
	}

	if err := cw.Write([]string{"Credit Date", "Amount", "Due Date", "Unpaid", "Days Remaining"}); err != nil {
		return err
	}

	totalPending := decimal.Zero
	for _, pc := range pending {
		totalPending = totalPending.Add(pc.UnpaidPrincipal)

		if err := cw.Write([]string{
			pc.CreditDate.String(),
			money(pc.CreditAmount),
			pc.DueDate.String(),
			money(pc.UnpaidPrincipal),
			strconv.Itoa(pc.DaysRemaining),
		}); err != nil {
			return err
		}
	}

	return cw.Write([]string{"TOTAL PENDING", "", "", money(totalPending), ""})
}

func writeSummary(cw *csv.Writer, s recon.Summary) error {
	if err := cw.Write([]string{"Balance Summary"}); err != nil {
		return err
	}

	rows := [][2]string{
		{"Opening Balance", optionalMoney(s.OpeningBalance)},
		{"Total Credits Processed", money(s.TotalCreditsProcessed)},
		{"Total Debits Processed", money(s.TotalDebitsProcessed)},
		{"Computed Closing Balance", optionalMoney(s.ComputedClosingBalance)},
		{"Actual Closing Balance", optionalMoney(s.ActualClosingBalance)},
		{"Reference Date", s.ReferenceDate.String()},
		{"Total Principal Due (Overdue)", money(s.TotalPrincipalOverdue)},
		{"Total Pending Principal", money(s.TotalPendingPrincipal)},
		{"Total Interest Accrued", money(s.TotalInterest)},
		{"Tax on Interest", money(s.Tax)},
		{"Total Amount Due (Principal + Interest + Tax)", money(s.TotalAmountDue)},
	}

	for _, row := range rows {
		if err := cw.Write([]string{row[0], row[1]}); err != nil {
			return err
		}
	}
	return nil
}

func writeGap(cw *csv.Writer) error {
	return cw.Write([]string{""})
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return money(*d)
}
