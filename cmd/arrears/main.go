/*
main.go - arrears CLI entry point

PURPOSE:
  One-shot reconciliation from the command line: read a CSV statement,
  run the engine, write the three-table CSV report. See run.go for the
  run command itself.

EXAMPLES:
  arrears run statement.csv
  arrears run statement.csv --config arrears.toml --out report.csv
  arrears run statement.csv --reference-date 2025-03-31 --rate-policy eighteen_of_eighteen_daily
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arrears",
	Short: "Reconcile ledger statements and compute overdue interest",
	Long: `arrears matches debit entries against credit entries in time order,
classifies each credit as resolved, pending, or overdue against its 180-day
maturity date, and computes daily interest plus tax on overdue balances.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
