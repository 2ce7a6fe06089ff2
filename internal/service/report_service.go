package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/nurpe/billing-reports/internal/metrics"
	"github.com/nurpe/billing-reports/internal/model"
	"github.com/nurpe/billing-reports/internal/report"
)

type BillStore interface {
	ListBills(ctx context.Context) ([]model.BillRecord, error)
}

type ContractStore interface {
	ListContracts(ctx context.Context) ([]model.Contract, error)
	GetContractor(ctx context.Context, id uuid.UUID) (*model.Contractor, error)
}

type AuditStore interface {
	ListAuditEntries(ctx context.Context) ([]model.AuditLogEntry, error)
}

type DocumentRenderer interface {
	Generate(doc report.Document) ([]byte, error)
}

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatPDF  ExportFormat = "pdf"
)

func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Overview holds every summary of one filtered bill set. TaxLedger is nil
// unless a single contractor is selected.
type Overview struct {
	BillCount   int
	Contractors model.ContractorSummary
	Contracts   model.ContractSummary
	Stations    model.StationSummary
	Monthly     model.MonthlySummary
	Deductions  model.DeductionSummary
	TaxLedger   *model.TaxLedger
}

type ReportService struct {
	bills     BillStore
	contracts ContractStore
	audit     AuditStore
	renderers map[ExportFormat]DocumentRenderer
	log       zerolog.Logger
	loc       *time.Location
	now       func() time.Time
}

type Option func(*ReportService)

func WithClock(now func() time.Time) Option {
	return func(s *ReportService) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *ReportService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithRenderer(format ExportFormat, renderer DocumentRenderer) Option {
	return func(s *ReportService) { s.renderers[format] = renderer }
}

func NewReportService(bills BillStore, contracts ContractStore, audit AuditStore, log zerolog.Logger, opts ...Option) *ReportService {
	s := &ReportService{
		bills:     bills,
		contracts: contracts,
		audit:     audit,
		renderers: make(map[ExportFormat]DocumentRenderer),
		log:       log,
		loc:       time.UTC,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// scope resolves the filter a principal is allowed to run. Contractor users
// are pinned to their own organization.
func (s *ReportService) scope(principal model.Principal, state model.FilterState) (model.FilterState, error) {
	if !principal.CanViewReports() {
		return state, ErrPermissionDenied
	}
	if principal.IsContractor() {
		if principal.OrgID == uuid.Nil {
			return state, ErrPermissionDenied
		}
		if state.HasContractor() && state.ContractorID != principal.OrgID {
			return state, ErrPermissionDenied
		}
		state.ContractorID = principal.OrgID
	}
	return state, nil
}

func (s *ReportService) load(ctx context.Context, state model.FilterState) ([]model.BillRecord, []model.Contract, error) {
	bills, err := s.bills.ListBills(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list bills: %w", err)
	}
	contracts, err := s.contracts.ListContracts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list contracts: %w", err)
	}
	return report.FilterBills(bills, contracts, state), contracts, nil
}

func (s *ReportService) Bills(ctx context.Context, principal model.Principal, state model.FilterState) (model.BillList, error) {
	state, err := s.scope(principal, state)
	if err != nil {
		return model.BillList{}, err
	}
	bills, _, err := s.load(ctx, state)
	if err != nil {
		return model.BillList{}, err
	}
	return model.BillList{Bills: bills}, nil
}

// Summary builds one report kind over the filtered bills. Statement and audit
// kinds have their own entry points.
func (s *ReportService) Summary(ctx context.Context, principal model.Principal, kind model.ReportKind, state model.FilterState) (_ model.Summary, err error) {
	started := s.now()
	defer func() { metrics.ObserveReport(string(kind), err, s.now().Sub(started)) }()

	state, err = s.scope(principal, state)
	if err != nil {
		return nil, err
	}
	bills, contracts, err := s.load(ctx, state)
	if err != nil {
		return nil, err
	}
	return s.summarise(kind, bills, contracts, state)
}

func (s *ReportService) summarise(kind model.ReportKind, bills []model.BillRecord, contracts []model.Contract, state model.FilterState) (model.Summary, error) {
	switch kind {
	case model.ReportKindBills:
		return model.BillList{Bills: bills}, nil
	case model.ReportKindContractor:
		return report.BuildContractorSummary(bills), nil
	case model.ReportKindContract:
		summary := report.BuildContractSummary(bills, contracts)
		s.warnSkipped(kind, summary.Skipped)
		return summary, nil
	case model.ReportKindStation:
		return report.BuildStationSummary(bills), nil
	case model.ReportKindMonthly:
		return report.BuildMonthlySummary(bills), nil
	case model.ReportKindDeduction:
		return report.BuildDeductionSummary(bills), nil
	case model.ReportKindTaxLedger:
		ledger, ok := report.BuildTaxLedger(bills, state.ContractorID)
		if !ok {
			return nil, report.ErrNoContractorSelected
		}
		return ledger, nil
	default:
		return nil, report.ErrUnknownReport
	}
}

func (s *ReportService) warnSkipped(kind model.ReportKind, skipped int) {
	if skipped == 0 {
		return
	}
	metrics.AddSkippedItems(string(kind), skipped)
	s.log.Warn().
		Err(report.ErrDataIntegrity).
		Str("report", string(kind)).
		Int("skipped_items", skipped).
		Msg("items with unresolved contract skipped")
}

// Overview computes every summary of the filtered bills concurrently.
func (s *ReportService) Overview(ctx context.Context, principal model.Principal, state model.FilterState) (_ *Overview, err error) {
	started := s.now()
	defer func() { metrics.ObserveReport("overview", err, s.now().Sub(started)) }()

	state, err = s.scope(principal, state)
	if err != nil {
		return nil, err
	}
	bills, contracts, err := s.load(ctx, state)
	if err != nil {
		return nil, err
	}

	out := &Overview{BillCount: len(bills)}
	var g errgroup.Group
	g.Go(func() error {
		out.Contractors = report.BuildContractorSummary(bills)
		return nil
	})
	g.Go(func() error {
		out.Contracts = report.BuildContractSummary(bills, contracts)
		return nil
	})
	g.Go(func() error {
		out.Stations = report.BuildStationSummary(bills)
		return nil
	})
	g.Go(func() error {
		out.Monthly = report.BuildMonthlySummary(bills)
		return nil
	})
	g.Go(func() error {
		out.Deductions = report.BuildDeductionSummary(bills)
		return nil
	})
	g.Go(func() error {
		if ledger, ok := report.BuildTaxLedger(bills, state.ContractorID); ok {
			out.TaxLedger = &ledger
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.warnSkipped(model.ReportKindContract, out.Contracts.Skipped)
	return out, nil
}

// Statement freezes the selected contractor's bills within the active date
// filters. Every call produces a new snapshot.
func (s *ReportService) Statement(ctx context.Context, principal model.Principal, state model.FilterState) (_ *model.StatementSnapshot, err error) {
	started := s.now()
	defer func() { metrics.ObserveReport(string(model.ReportKindStatement), err, s.now().Sub(started)) }()

	state, err = s.scope(principal, state)
	if err != nil {
		return nil, err
	}
	if !state.HasContractor() {
		return nil, report.ErrNoContractorSelected
	}
	bills, _, err := s.load(ctx, state)
	if err != nil {
		return nil, err
	}

	snapshot, err := report.GenerateStatement(bills, state.ContractorID, state.Period())
	if err != nil {
		return nil, err
	}
	if snapshot.ContractorName == "" {
		name, err := s.contractorName(ctx, state.ContractorID)
		if err != nil {
			return nil, err
		}
		snapshot.ContractorName = name
	}
	snapshot.GeneratedAt = s.now().In(s.loc)
	return snapshot, nil
}

func (s *ReportService) AuditLog(ctx context.Context, principal model.Principal, state model.FilterState) (model.AuditLog, error) {
	if !principal.CanViewAudit() {
		return model.AuditLog{}, ErrPermissionDenied
	}
	entries, err := s.audit.ListAuditEntries(ctx)
	if err != nil {
		return model.AuditLog{}, fmt.Errorf("list audit entries: %w", err)
	}
	return model.AuditLog{Entries: report.FilterAuditLog(entries, state)}, nil
}

func (s *ReportService) ExportCSV(ctx context.Context, principal model.Principal, state model.FilterState) (_ *ExportResult, err error) {
	defer func() { metrics.ObserveExport("csv", err) }()

	list, err := s.Bills(ctx, principal, state)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, list.Bills); err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName:    report.CSVFileName(s.now().In(s.loc)),
		ContentType: "text/csv",
		Content:     buf.Bytes(),
	}, nil
}

// ExportDocument renders one report kind as a printable file.
func (s *ReportService) ExportDocument(ctx context.Context, principal model.Principal, kind model.ReportKind, format ExportFormat, state model.FilterState) (_ *ExportResult, err error) {
	defer func() { metrics.ObserveExport(string(format), err) }()

	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
	}

	var data model.Summary
	switch kind {
	case model.ReportKindStatement:
		data, err = s.Statement(ctx, principal, state)
	case model.ReportKindAudit:
		data, err = s.AuditLog(ctx, principal, state)
	default:
		data, err = s.Summary(ctx, principal, kind, state)
	}
	if err != nil {
		return nil, err
	}
	if kind != model.ReportKindAudit {
		state, err = s.scope(principal, state)
		if err != nil {
			return nil, err
		}
	}

	doc, err := report.BuildReportDocument(kind, data, state)
	if err != nil {
		return nil, err
	}
	if state.HasContractor() && kind != model.ReportKindAudit {
		name, lookupErr := s.contractorName(ctx, state.ContractorID)
		if lookupErr != nil {
			s.log.Warn().
				Err(lookupErr).
				Str("report", string(kind)).
				Str("contractor_id", state.ContractorID.String()).
				Msg("contractor name lookup failed, filter shows id")
		} else {
			doc.SetFilter(report.FilterContractor, name)
		}
	}

	content, err := renderer.Generate(doc)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return &ExportResult{
		FileName:    fmt.Sprintf("%s-report-%s.%s", kind, s.now().In(s.loc).Format(model.DateLayout), format),
		ContentType: format.ContentType(),
		Content:     content,
	}, nil
}

func (s *ReportService) contractorName(ctx context.Context, id uuid.UUID) (string, error) {
	contractor, err := s.contracts.GetContractor(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return contractor.Name, nil
}
