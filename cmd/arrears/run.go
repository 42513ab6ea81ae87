package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crestline/arrears/config"
	"github.com/crestline/arrears/recon"
	"github.com/crestline/arrears/report"
	"github.com/crestline/arrears/statement"
)

func init() {
	runCmd.Flags().StringP("config", "c", "", "TOML configuration file")
	runCmd.Flags().StringP("out", "o", "", "Report output path (default: stdout)")
	runCmd.Flags().String("reference-date", "", "As-of date (yyyy-mm-dd); default: latest transaction date")
	runCmd.Flags().String("rate-policy", "", "eighteen_of_eighteen_daily or eighteen_percent_annual")
	runCmd.Flags().String("match-policy", "", "any_future or due_date_windowed")
	runCmd.Flags().String("interest-base", "", "outstanding_balance or original_unpaid")
	runCmd.Flags().Float64("tax-rate", -1, "Flat tax fraction on interest (default 0.18)")
	runCmd.Flags().Float64("cap", -1, "Cumulative overdue principal ceiling")
}

var runCmd = &cobra.Command{
	Use:   "run STATEMENT_CSV",
	Short: "Reconcile one statement and write the report",
	Long: `Read a CSV ledger statement, match debits against credits, accrue interest
on overdue balances, and write the Overdue / Pending / Balance Summary report.
Flags override values from the --config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	parsed, err := statement.Parse(f)
	if err != nil {
		return err
	}
	if parsed.RowsDropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "dropped %d rows with unparsable dates\n", parsed.RowsDropped)
	}

	rep, err := recon.Reconcile(parsed.Statement, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer file.Close()
		out = file

		fmt.Fprintf(cmd.ErrOrStderr(), "reconciled %d transactions: %d overdue, %d pending, total due %s\n",
			len(parsed.Statement.Transactions), len(rep.Overdue), len(rep.Pending),
			rep.Summary.TotalAmountDue.StringFixed(2))
	}

	return report.Write(out, rep)
}

// buildConfig layers flag values over the optional TOML file.
func buildConfig(cmd *cobra.Command) (recon.Config, error) {
	overlay := config.File{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return recon.Config{}, err
		}
		overlay = loaded
	}

	if v, _ := cmd.Flags().GetString("reference-date"); v != "" {
		overlay.ReferenceDate = v
	}
	if v, _ := cmd.Flags().GetString("rate-policy"); v != "" {
		overlay.RatePolicy = v
	}
	if v, _ := cmd.Flags().GetString("match-policy"); v != "" {
		overlay.MatchPolicy = v
	}
	if v, _ := cmd.Flags().GetString("interest-base"); v != "" {
		overlay.InterestBase = v
	}
	if v, _ := cmd.Flags().GetFloat64("tax-rate"); v >= 0 {
		overlay.TaxRate = &v
	}
	if v, _ := cmd.Flags().GetFloat64("cap"); v >= 0 {
		overlay.PrincipalCap = &v
	}

	return overlay.Engine()
}
