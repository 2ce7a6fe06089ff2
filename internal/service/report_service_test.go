package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/billing-reports/internal/model"
	"github.com/nurpe/billing-reports/internal/report"
	"github.com/nurpe/billing-reports/internal/repository/memory"
)

var fixedNow = time.Date(2024, 6, 30, 22, 30, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	acme  model.Contractor
	bolan model.Contractor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	acme := store.AddContractor(model.Contractor{Name: "Acme"})
	bolan := store.AddContractor(model.Contractor{Name: "Bolan Carriers"})
	route := store.AddContract(model.Contract{ContractorID: acme.ID, FromStation: "X", ToStation: "Y"})
	other := store.AddContract(model.Contract{ContractorID: bolan.ID, FromStation: "Y", ToStation: "Z"})

	mk := func(number, day string, contractor uuid.UUID, contractID int64, netKg, rate, deduction float64) model.BillRecord {
		amount := report.ItemAmount(netKg, rate)
		d, _ := time.Parse(model.DateLayout, day)
		return model.BillRecord{
			BillNumber:      number,
			BillDate:        d,
			ContractorID:    contractor,
			Deductions:      model.Deductions{IncomeTax: deduction},
			GrossTotal:      amount,
			TotalDeductions: deduction,
			NetAmount:       amount - deduction,
			Items: []model.BillItem{{
				FromStation: "X",
				ToStation:   "Y",
				GrossKg:     netKg + 1,
				NetKg:       netKg,
				RatePerKg:   rate,
				Amount:      amount,
				ContractID:  &contractID,
			}},
		}
	}

	for _, b := range []model.BillRecord{
		mk("ACME-1", "2024-01-15", acme.ID, route.ID, 500, 2, 100),
		mk("ACME-2", "2024-02-10", acme.ID, route.ID, 100, 2, 20),
		mk("BOL-1", "2024-02-11", bolan.ID, other.ID, 300, 1, 30),
		mk("BOL-2", "2024-03-01", bolan.ID, 77, 50, 1, 0),
	} {
		_, err := store.CreateBill(ctx, b)
		require.NoError(t, err)
	}

	store.AppendAuditEntry(model.AuditLogEntry{
		Timestamp: time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC),
		UserName:  "Imran",
		Action:    "BILL_UPDATED",
		Details:   map[string]any{"bill_number": "ACME-1"},
	})
	store.AppendAuditEntry(model.AuditLogEntry{
		Timestamp: time.Date(2024, 3, 11, 0, 0, 1, 0, time.UTC),
		UserName:  "Imran",
		Action:    "BILL_DELETED",
	})
	return fixture{store: store, acme: acme, bolan: bolan}
}

type stubRenderer struct {
	docs []report.Document
	err  error
}

func (r *stubRenderer) Generate(doc report.Document) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.docs = append(r.docs, doc)
	return []byte("rendered:" + doc.Title), nil
}

func newService(f fixture, opts ...Option) *ReportService {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewReportService(f.store, f.store, f.store, zerolog.Nop(), opts...)
}

var (
	admin      = model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin}
	accountant = model.Principal{UserID: uuid.New(), Role: model.UserRoleAccountant}
	driver     = model.Principal{UserID: uuid.New(), Role: model.UserRoleDriver}
)

func TestReportServicePermissions(t *testing.T) {
	f := newFixture(t)
	svc := newService(f)
	ctx := context.Background()

	_, err := svc.Bills(ctx, driver, model.FilterState{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	contractor := model.Principal{UserID: uuid.New(), OrgID: f.acme.ID, Role: model.UserRoleContractor}
	list, err := svc.Bills(ctx, contractor, model.FilterState{})
	require.NoError(t, err)
	require.Len(t, list.Bills, 2)
	for _, b := range list.Bills {
		assert.Equal(t, f.acme.ID, b.ContractorID)
	}

	_, err = svc.Bills(ctx, contractor, model.FilterState{ContractorID: f.bolan.ID})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.AuditLog(ctx, accountant, model.FilterState{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestReportServiceSummary(t *testing.T) {
	f := newFixture(t)
	svc := newService(f)
	ctx := context.Background()

	got, err := svc.Summary(ctx, accountant, model.ReportKindContractor, model.FilterState{})
	require.NoError(t, err)
	contractors, ok := got.(model.ContractorSummary)
	require.True(t, ok)
	require.Len(t, contractors.Rows, 2)
	assert.Equal(t, "Acme", contractors.Rows[0].Name)
	assert.InDelta(t, 1080, contractors.Rows[0].NetAmount, 0.001)

	got, err = svc.Summary(ctx, accountant, model.ReportKindContract, model.FilterState{Route: "X -> Y"})
	require.NoError(t, err)
	contracts := got.(model.ContractSummary)
	require.Len(t, contracts.Rows, 1)
	assert.Equal(t, 2, contracts.Rows[0].Trips)

	_, err = svc.Summary(ctx, accountant, model.ReportKindTaxLedger, model.FilterState{})
	assert.ErrorIs(t, err, report.ErrNoContractorSelected)

	_, err = svc.Summary(ctx, accountant, model.ReportKindAudit, model.FilterState{})
	assert.ErrorIs(t, err, report.ErrUnknownReport)
}

func TestReportServiceOverview(t *testing.T) {
	f := newFixture(t)
	svc := newService(f)
	ctx := context.Background()

	all, err := svc.Overview(ctx, admin, model.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.BillCount)
	assert.Nil(t, all.TaxLedger)
	assert.Equal(t, 1, all.Contracts.Skipped)
	require.Len(t, all.Monthly.Rows, 3)
	assert.Equal(t, "2024-03", all.Monthly.Rows[0].Month)
	assert.InDelta(t, 150, all.Deductions.Total, 0.001)

	scoped, err := svc.Overview(ctx, admin, model.FilterState{ContractorID: f.acme.ID})
	require.NoError(t, err)
	require.NotNil(t, scoped.TaxLedger)
	assert.Len(t, scoped.TaxLedger.Rows, 2)
}

func TestReportServiceStatement(t *testing.T) {
	f := newFixture(t)
	svc := newService(f)
	ctx := context.Background()

	_, err := svc.Statement(ctx, admin, model.FilterState{ContractorID: uuid.Nil})
	assert.ErrorIs(t, err, report.ErrNoContractorSelected)

	snapshot, err := svc.Statement(ctx, admin, model.FilterState{ContractorID: f.acme.ID, StartDate: "2024-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", snapshot.ContractorName)
	assert.Equal(t, model.Period{Start: "2024-02-01"}, snapshot.Period)
	require.Len(t, snapshot.Bills, 1)
	assert.Equal(t, 180.0, snapshot.Summary.NetAmount)
	assert.Equal(t, fixedNow, snapshot.GeneratedAt)

	empty := f.store.AddContractor(model.Contractor{Name: "Quiet Haulage"})
	snapshot, err = svc.Statement(ctx, admin, model.FilterState{ContractorID: empty.ID})
	require.NoError(t, err)
	assert.Equal(t, "Quiet Haulage", snapshot.ContractorName)
	assert.Empty(t, snapshot.Bills)

	_, err = svc.Statement(ctx, admin, model.FilterState{ContractorID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportServiceAuditLog(t *testing.T) {
	f := newFixture(t)
	svc := newService(f)

	log, err := svc.AuditLog(context.Background(), admin, model.FilterState{EndDate: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, log.Entries, 1)
	assert.Equal(t, "BILL_UPDATED", log.Entries[0].Action)
}

func TestReportServiceExportCSV(t *testing.T) {
	f := newFixture(t)
	loc := time.FixedZone("PKT", 5*3600)
	svc := newService(f, WithLocation(loc))
	ctx := context.Background()

	result, err := svc.ExportCSV(ctx, admin, model.FilterState{ContractorID: f.acme.ID})
	require.NoError(t, err)
	assert.Equal(t, "Bills-Report-2024-07-01.csv", result.FileName)
	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	assert.Len(t, lines, 3)

	_, err = svc.ExportCSV(ctx, admin, model.FilterState{Search: "nothing-matches"})
	assert.ErrorIs(t, err, report.ErrNoRecords)
}

func TestReportServiceExportDocument(t *testing.T) {
	f := newFixture(t)
	pdf := &stubRenderer{}
	svc := newService(f, WithRenderer(ExportFormatPDF, pdf))
	ctx := context.Background()

	result, err := svc.ExportDocument(ctx, admin, model.ReportKindStatement, ExportFormatPDF, model.FilterState{ContractorID: f.acme.ID})
	require.NoError(t, err)
	assert.Equal(t, "statement-report-2024-06-30.pdf", result.FileName)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "rendered:Contractor Statement", string(result.Content))
	require.Len(t, pdf.docs, 1)
	assert.Equal(t, report.Field{Label: report.FilterContractor, Value: "Acme"}, pdf.docs[0].Filters[0])

	_, err = svc.ExportDocument(ctx, admin, model.ReportKindStation, ExportFormatXLSX, model.FilterState{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ExportDocument(ctx, admin, model.ReportKindBills, ExportFormatPDF, model.FilterState{Search: "none"})
	assert.ErrorIs(t, err, report.ErrNoRecords)

	_, err = svc.ExportDocument(ctx, admin, model.ReportKindDeduction, ExportFormatPDF, model.FilterState{Search: "none"})
	assert.ErrorIs(t, err, report.ErrNoRecords)
	assert.Len(t, pdf.docs, 1)

	audit, err := svc.ExportDocument(ctx, admin, model.ReportKindAudit, ExportFormatPDF, model.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, "audit-report-2024-06-30.pdf", audit.FileName)

	pdf.err = errors.New("boom")
	_, err = svc.ExportDocument(ctx, admin, model.ReportKindMonthly, ExportFormatPDF, model.FilterState{})
	assert.ErrorContains(t, err, "render pdf: boom")
}

func TestReportServiceExportDocumentLogsMissingContractor(t *testing.T) {
	f := newFixture(t)
	ghost := uuid.New()
	_, err := f.store.CreateBill(context.Background(), model.BillRecord{
		BillNumber:   "GHOST-1",
		BillDate:     time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		ContractorID: ghost,
		GrossTotal:   100,
		NetAmount:    100,
	})
	require.NoError(t, err)

	var logs bytes.Buffer
	pdf := &stubRenderer{}
	svc := NewReportService(f.store, f.store, f.store, zerolog.New(&logs),
		WithClock(func() time.Time { return fixedNow }),
		WithRenderer(ExportFormatPDF, pdf),
	)

	_, err = svc.ExportDocument(context.Background(), admin, model.ReportKindMonthly, ExportFormatPDF, model.FilterState{ContractorID: ghost})
	require.NoError(t, err)
	require.Len(t, pdf.docs, 1)
	assert.Equal(t, report.Field{Label: report.FilterContractor, Value: ghost.String()}, pdf.docs[0].Filters[0])
	assert.Contains(t, logs.String(), "contractor name lookup failed")
	assert.Contains(t, logs.String(), ghost.String())
}
