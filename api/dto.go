/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the internal
  domain model from the external contract. Amounts travel as strings fixed
  to two decimal places - clients never see binary floats for money.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestline/arrears/recon"
	"github.com/crestline/arrears/store/sqlite"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ReconcileRequest carries the configuration for one reconciliation run.
// Omitted fields fall back to the engine defaults.
type ReconcileRequest struct {
	ReferenceDate string   `json:"reference_date,omitempty"`
	RatePolicy    string   `json:"daily_rate_policy,omitempty"`
	MatchPolicy   string   `json:"matching_window_policy,omitempty"`
	InterestBase  string   `json:"interest_base,omitempty"`
	TaxRate       *float64 `json:"tax_rate,omitempty"`
	PrincipalCap  *float64 `json:"principal_cap,omitempty"`
}

// toConfig maps the request onto an engine configuration. Policy validation
// itself is the engine's job; only structural parsing happens here.
func (r ReconcileRequest) toConfig() (recon.Config, error) {
	cfg := recon.DefaultConfig()

	if r.ReferenceDate != "" {
		t, err := time.Parse("2006-01-02", r.ReferenceDate)
		if err != nil {
			return cfg, fmt.Errorf("invalid reference_date %q: want yyyy-mm-dd", r.ReferenceDate)
		}
		cfg.ReferenceDate = recon.FromTime(t)
	}
	if r.RatePolicy != "" {
		cfg.RatePolicy = recon.RatePolicy(r.RatePolicy)
	}
	if r.MatchPolicy != "" {
		cfg.MatchPolicy = recon.MatchPolicy(r.MatchPolicy)
	}
	if r.InterestBase != "" {
		cfg.InterestBase = recon.InterestBase(r.InterestBase)
	}
	if r.TaxRate != nil {
		cfg.TaxRate = decimal.NewFromFloat(*r.TaxRate)
	}
	if r.PrincipalCap != nil {
		ceiling := decimal.NewFromFloat(*r.PrincipalCap)
		cfg.PrincipalCap = &ceiling
	}
	return cfg, nil
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// StatementDTO describes a stored statement.
type StatementDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	TransactionCount int     `json:"transaction_count"`
	RowsDropped      int     `json:"rows_dropped"`
	OpeningBalance   *string `json:"opening_balance,omitempty"`
	ClosingBalance   *string `json:"closing_balance,omitempty"`
	UploadedAt       string  `json:"uploaded_at"`
}

// RunDTO describes one reconciliation run with its full report.
type RunDTO struct {
	ID          string    `json:"id"`
	StatementID string    `json:"statement_id"`
	Fingerprint string    `json:"fingerprint"`
	Cached      bool      `json:"cached"`
	Config      ConfigDTO `json:"config"`
	Report      ReportDTO `json:"report"`
	CreatedAt   string    `json:"created_at"`
}

// ConfigDTO echoes the configuration a run was computed with.
type ConfigDTO struct {
	ReferenceDate string  `json:"reference_date"`
	RatePolicy    string  `json:"daily_rate_policy"`
	MatchPolicy   string  `json:"matching_window_policy"`
	InterestBase  string  `json:"interest_base"`
	TaxRate       string  `json:"tax_rate"`
	PrincipalCap  *string `json:"principal_cap,omitempty"`
}

// ReportDTO is the engine output: two result tables plus the summary.
type ReportDTO struct {
	Overdue []OverdueDTO `json:"overdue"`
	Pending []PendingDTO `json:"pending"`
	Summary SummaryDTO   `json:"summary"`
}

type OverdueDTO struct {
	CreditDate      string          `json:"credit_date"`
	CreditAmount    string          `json:"credit_amount"`
	DueDate         string          `json:"due_date"`
	UnpaidPrincipal string          `json:"unpaid_principal"`
	Interest        string          `json:"interest"`
	TotalDue        string          `json:"total_due"`
	Allocations     []AllocationDTO `json:"allocations"`
}

type PendingDTO struct {
	CreditDate      string          `json:"credit_date"`
	CreditAmount    string          `json:"credit_amount"`
	DueDate         string          `json:"due_date"`
	UnpaidPrincipal string          `json:"unpaid_principal"`
	DaysRemaining   int             `json:"days_remaining"`
	Allocations     []AllocationDTO `json:"allocations"`
}

type AllocationDTO struct {
	PaymentDate string `json:"payment_date"`
	Amount      string `json:"amount"`
}

type SummaryDTO struct {
	ReferenceDate          string  `json:"reference_date"`
	TotalCreditsProcessed  string  `json:"total_credits_processed"`
	TotalDebitsProcessed   string  `json:"total_debits_processed"`
	TotalPrincipalOverdue  string  `json:"total_principal_overdue"`
	TotalPendingPrincipal  string  `json:"total_pending_principal"`
	TotalInterest          string  `json:"total_interest"`
	Tax                    string  `json:"tax"`
	TotalAmountDue         string  `json:"total_amount_due"`
	OpeningBalance         *string `json:"opening_balance,omitempty"`
	ComputedClosingBalance *string `json:"computed_closing_balance,omitempty"`
	ActualClosingBalance   *string `json:"actual_closing_balance,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toStatementDTO(rec sqlite.StatementRecord) StatementDTO {
	return StatementDTO{
		ID:               rec.ID,
		Name:             rec.Name,
		TransactionCount: len(rec.Statement.Transactions),
		RowsDropped:      rec.RowsDropped,
		OpeningBalance:   optionalMoney(rec.Statement.OpeningBalance),
		ClosingBalance:   optionalMoney(rec.Statement.ClosingBalance),
		UploadedAt:       rec.UploadedAt.Format(time.RFC3339),
	}
}

func toRunDTO(rec sqlite.RunRecord, cached bool) RunDTO {
	return RunDTO{
		ID:          rec.ID,
		StatementID: rec.StatementID,
		Fingerprint: rec.Fingerprint,
		Cached:      cached,
		Config:      toConfigDTO(rec.Config),
		Report:      toReportDTO(rec.Report),
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}
}

func toConfigDTO(cfg recon.Config) ConfigDTO {
	dto := ConfigDTO{
		ReferenceDate: cfg.ReferenceDate.String(),
		RatePolicy:    string(cfg.RatePolicy),
		MatchPolicy:   string(cfg.MatchPolicy),
		InterestBase:  string(cfg.InterestBase),
		TaxRate:       cfg.TaxRate.String(),
	}
	if cfg.PrincipalCap != nil {
		s := cfg.PrincipalCap.String()
		dto.PrincipalCap = &s
	}
	return dto
}

func toReportDTO(rep recon.Report) ReportDTO {
	dto := ReportDTO{
		Overdue: make([]OverdueDTO, len(rep.Overdue)),
		Pending: make([]PendingDTO, len(rep.Pending)),
		Summary: toSummaryDTO(rep.Summary),
	}
	for i, oc := range rep.Overdue {
		dto.Overdue[i] = OverdueDTO{
			CreditDate:      oc.CreditDate.String(),
			CreditAmount:    money(oc.CreditAmount),
			DueDate:         oc.DueDate.String(),
			UnpaidPrincipal: money(oc.UnpaidPrincipal),
			Interest:        money(oc.Interest),
			TotalDue:        money(oc.TotalDue),
			Allocations:     toAllocationDTOs(oc.Allocations),
		}
	}
	for i, pc := range rep.Pending {
		dto.Pending[i] = PendingDTO{
			CreditDate:      pc.CreditDate.String(),
			CreditAmount:    money(pc.CreditAmount),
			DueDate:         pc.DueDate.String(),
			UnpaidPrincipal: money(pc.UnpaidPrincipal),
			DaysRemaining:   pc.DaysRemaining,
			Allocations:     toAllocationDTOs(pc.Allocations),
		}
	}
	return dto
}

func toAllocationDTOs(allocations []recon.Allocation) []AllocationDTO {
	dtos := make([]AllocationDTO, len(allocations))
	for i, a := range allocations {
		dtos[i] = AllocationDTO{
			PaymentDate: a.PaymentDate.String(),
			Amount:      money(a.Amount),
		}
	}
	return dtos
}

func toSummaryDTO(s recon.Summary) SummaryDTO {
	return SummaryDTO{
		ReferenceDate:          s.ReferenceDate.String(),
		TotalCreditsProcessed:  money(s.TotalCreditsProcessed),
		TotalDebitsProcessed:   money(s.TotalDebitsProcessed),
		TotalPrincipalOverdue:  money(s.TotalPrincipalOverdue),
		TotalPendingPrincipal:  money(s.TotalPendingPrincipal),
		TotalInterest:          money(s.TotalInterest),
		Tax:                    money(s.Tax),
		TotalAmountDue:         money(s.TotalAmountDue),
		OpeningBalance:         optionalMoney(s.OpeningBalance),
		ComputedClosingBalance: optionalMoney(s.ComputedClosingBalance),
		ActualClosingBalance:   optionalMoney(s.ActualClosingBalance),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoney(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money(*d)
	return &s
}
