package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportKind string

const (
	ReportKindBills      ReportKind = "bills"
	ReportKindContractor ReportKind = "contractor"
	ReportKindContract   ReportKind = "contract"
	ReportKindStation    ReportKind = "station"
	ReportKindMonthly    ReportKind = "monthly"
	ReportKindDeduction  ReportKind = "deduction"
	ReportKindTaxLedger  ReportKind = "tax-ledger"
	ReportKindStatement  ReportKind = "statement"
	ReportKindAudit      ReportKind = "audit"
)

func ParseReportKind(raw string) (ReportKind, bool) {
	kind := ReportKind(raw)
	switch kind {
	case ReportKindBills, ReportKindContractor, ReportKindContract, ReportKindStation,
		ReportKindMonthly, ReportKindDeduction, ReportKindTaxLedger, ReportKindStatement, ReportKindAudit:
		return kind, true
	default:
		return "", false
	}
}

// Summary is implemented only by the result types in this file, so a type
// switch over them is exhaustive.
type Summary interface {
	Kind() ReportKind
	summary()
}

type BillList struct {
	Bills []BillRecord `json:"bills"`
}

type ContractorRow struct {
	ContractorID    uuid.UUID `json:"contractor_id"`
	Name            string    `json:"name"`
	TotalBills      int       `json:"total_bills"`
	GrandTotal      float64   `json:"grand_total"`
	TotalDeductions float64   `json:"total_deductions"`
	NetAmount       float64   `json:"net_amount"`
}

type ContractorSummary struct {
	Rows []ContractorRow `json:"rows"`
}

type ContractTrip struct {
	BillID     uuid.UUID `json:"bill_id"`
	BillNumber string    `json:"bill_number"`
	BillDate   string    `json:"bill_date"`
	NetKg      float64   `json:"net_kg"`
	RatePerKg  float64   `json:"rate_per_kg"`
	Amount     float64   `json:"amount"`
}

type ContractRow struct {
	ContractID     int64          `json:"contract_id"`
	Route          string         `json:"route"`
	ContractorName string         `json:"contractor_name"`
	Trips          int            `json:"trips"`
	TotalNetKgs    float64        `json:"total_net_kgs"`
	TotalAmount    float64        `json:"total_amount"`
	BillIDs        []uuid.UUID    `json:"bill_ids"`
	Details        []ContractTrip `json:"details"`
}

type ContractSummary struct {
	Rows []ContractRow `json:"rows"`
	// Skipped counts items whose contract reference could not be resolved.
	Skipped int `json:"skipped"`
}

type StationRow struct {
	Station         string  `json:"station"`
	DispatchedTrips int     `json:"dispatched_trips"`
	DispatchedKgs   float64 `json:"dispatched_kgs"`
	DispatchedValue float64 `json:"dispatched_value"`
	ReceivedTrips   int     `json:"received_trips"`
	ReceivedKgs     float64 `json:"received_kgs"`
}

type StationSummary struct {
	Rows []StationRow `json:"rows"`
}

type MonthlyRow struct {
	Month           string  `json:"month"`
	TotalBills      int     `json:"total_bills"`
	GrandTotal      float64 `json:"grand_total"`
	TotalDeductions float64 `json:"total_deductions"`
	NetAmount       float64 `json:"net_amount"`
}

type MonthlySummary struct {
	Rows []MonthlyRow `json:"rows"`
}

type CategoryAmount struct {
	Category DeductionCategory `json:"category"`
	Amount   float64           `json:"amount"`
}

type DeductionSummary struct {
	Categories []CategoryAmount `json:"categories"`
	Total      float64          `json:"total"`
	BillCount  int              `json:"bill_count"`
}

type TaxLedgerRow struct {
	BillID          uuid.UUID  `json:"bill_id"`
	BillNumber      string     `json:"bill_number"`
	BillDate        string     `json:"bill_date"`
	NetKgs          float64    `json:"net_kgs"`
	GrossAmount     float64    `json:"gross_amount"`
	Deductions      Deductions `json:"deductions"`
	TotalDeductions float64    `json:"total_deductions"`
	NetAmount       float64    `json:"net_amount"`
}

type TaxLedger struct {
	ContractorID   uuid.UUID      `json:"contractor_id"`
	ContractorName string         `json:"contractor_name"`
	Rows           []TaxLedgerRow `json:"rows"`
	Totals         TaxLedgerRow   `json:"totals"`
}

type StatementSummary struct {
	GrandTotal      float64    `json:"grand_total"`
	NetAmount       float64    `json:"net_amount"`
	TotalDeductions float64    `json:"total_deductions"`
	Deductions      Deductions `json:"deductions"`
}

type StatementSnapshot struct {
	ContractorID   uuid.UUID        `json:"contractor_id"`
	ContractorName string           `json:"contractor_name"`
	Period         Period           `json:"period"`
	Bills          []BillRecord     `json:"bills"`
	Summary        StatementSummary `json:"summary"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

type AuditLog struct {
	Entries []AuditLogEntry `json:"entries"`
}

func (BillList) Kind() ReportKind          { return ReportKindBills }
func (ContractorSummary) Kind() ReportKind { return ReportKindContractor }
func (ContractSummary) Kind() ReportKind   { return ReportKindContract }
func (StationSummary) Kind() ReportKind    { return ReportKindStation }
func (MonthlySummary) Kind() ReportKind    { return ReportKindMonthly }
func (DeductionSummary) Kind() ReportKind  { return ReportKindDeduction }
func (TaxLedger) Kind() ReportKind         { return ReportKindTaxLedger }
func (StatementSnapshot) Kind() ReportKind { return ReportKindStatement }
func (AuditLog) Kind() ReportKind          { return ReportKindAudit }

func (BillList) summary()          {}
func (ContractorSummary) summary() {}
func (ContractSummary) summary()   {}
func (StationSummary) summary()    {}
func (MonthlySummary) summary()    {}
func (DeductionSummary) summary()  {}
func (TaxLedger) summary()         {}
func (StatementSnapshot) summary() {}
func (AuditLog) summary()          {}
