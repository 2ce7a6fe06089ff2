package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nurpe/billing-reports/internal/model"
)

type Field struct {
	Label string
	Value string
}

type Table struct {
	Columns []string
	Rows    [][]string
	Totals  []string
}

type Section struct {
	Heading string
	Fields  []Field
	Table   *Table
	// Dump holds preformatted text rendered verbatim.
	Dump string
	// PageBreakBefore asks print renderers to start the section on a new page.
	PageBreakBefore bool
}

type Document struct {
	Kind     model.ReportKind
	Title    string
	Filters  []Field
	Sections []Section
}

// SetFilter replaces the value of the filter line with label, appending it
// when absent.
func (d *Document) SetFilter(label, value string) {
	for i := range d.Filters {
		if d.Filters[i].Label == label {
			d.Filters[i].Value = value
			return
		}
	}
	d.Filters = append(d.Filters, Field{Label: label, Value: value})
}

const (
	FilterContractor = "Contractor"
	FilterRoute      = "Route"
	FilterSearch     = "Search"
	FilterPeriod     = "Period"
	FilterAction     = "Action"
)

func Title(kind model.ReportKind) string {
	switch kind {
	case model.ReportKindBills:
		return "Bills Report"
	case model.ReportKindContractor:
		return "Contractor-wise Summary"
	case model.ReportKindContract:
		return "Contract-wise Report"
	case model.ReportKindStation:
		return "Station-wise Report"
	case model.ReportKindMonthly:
		return "Monthly Summary"
	case model.ReportKindDeduction:
		return "Deductions Summary"
	case model.ReportKindTaxLedger:
		return "Tax Deduction Ledger"
	case model.ReportKindStatement:
		return "Contractor Statement"
	case model.ReportKindAudit:
		return "Audit Log"
	default:
		return "Report"
	}
}

// BuildReportDocument lays out data as a titled, sectioned document. data
// must be the summary of kind; empty row sets yield ErrNoRecords.
func BuildReportDocument(kind model.ReportKind, data model.Summary, state model.FilterState) (Document, error) {
	if data == nil || data.Kind() != kind {
		return Document{}, ErrUnknownReport
	}

	doc := Document{
		Kind:    kind,
		Title:   Title(kind),
		Filters: filterBlock(kind, state),
	}

	var err error
	switch v := data.(type) {
	case model.BillList:
		doc.Sections, err = billListSections(v)
	case model.ContractorSummary:
		doc.Sections, err = contractorSections(v)
	case model.ContractSummary:
		doc.Sections, err = contractSections(v)
	case model.StationSummary:
		doc.Sections, err = stationSections(v)
	case model.MonthlySummary:
		doc.Sections, err = monthlySections(v)
	case model.DeductionSummary:
		doc.Sections, err = deductionSections(v)
	case model.TaxLedger:
		doc.Sections, err = taxLedgerSections(v)
	case model.StatementSnapshot:
		doc.Sections, err = statementSections(v)
	case *model.StatementSnapshot:
		doc.Sections, err = statementSections(*v)
	case model.AuditLog:
		doc.Sections, err = auditSections(v)
	default:
		return Document{}, ErrUnknownReport
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func filterBlock(kind model.ReportKind, state model.FilterState) []Field {
	var fields []Field
	if kind != model.ReportKindAudit {
		contractor := "All"
		if state.HasContractor() {
			contractor = state.ContractorID.String()
		}
		route := "All"
		if state.HasRoute() {
			route = state.Route
		}
		fields = append(fields,
			Field{Label: FilterContractor, Value: contractor},
			Field{Label: FilterRoute, Value: route},
		)
	} else {
		action := "All"
		if state.HasAction() {
			action = state.Action
		}
		fields = append(fields, Field{Label: FilterAction, Value: action})
	}
	if state.HasSearch() {
		fields = append(fields, Field{Label: FilterSearch, Value: state.Search})
	}
	fields = append(fields, Field{Label: FilterPeriod, Value: FormatPeriod(state.Period())})
	return fields
}

func FormatPeriod(p model.Period) string {
	start, end := p.Start, p.End
	if start == "" && end == "" {
		return "All dates"
	}
	if start == "" {
		start = "beginning"
	}
	if end == "" {
		end = "present"
	}
	return fmt.Sprintf("%s to %s", start, end)
}

func billListSections(list model.BillList) ([]Section, error) {
	if len(list.Bills) == 0 {
		return nil, ErrNoRecords
	}
	table := &Table{
		Columns: []string{"Bill #", "Bill Date", "Contractor", "Sanctioned No", "Items", "Grand Total", "Deductions", "Net Amount"},
	}
	var gross, deducted, net float64
	for _, bill := range list.Bills {
		table.Rows = append(table.Rows, []string{
			bill.BillNumber,
			bill.DateString(),
			bill.ContractorName,
			bill.SanctionedNumber,
			strconv.Itoa(len(bill.Items)),
			fixed(bill.GrossTotal, 2),
			fixed(bill.TotalDeductions, 2),
			fixed(bill.NetAmount, 2),
		})
		gross += bill.GrossTotal
		deducted += bill.TotalDeductions
		net += bill.NetAmount
	}
	table.Totals = []string{"Total", "", "", "", "", fixed(gross, 2), fixed(deducted, 2), fixed(net, 2)}
	return []Section{{Table: table}}, nil
}

func contractorSections(summary model.ContractorSummary) ([]Section, error) {
	if len(summary.Rows) == 0 {
		return nil, ErrNoRecords
	}
	table := &Table{Columns: []string{"Contractor", "Bills", "Grand Total", "Deductions", "Net Amount"}}
	var bills int
	var gross, deducted, net float64
	for _, row := range summary.Rows {
		table.Rows = append(table.Rows, []string{
			row.Name,
			strconv.Itoa(row.TotalBills),
			fixed(row.GrandTotal, 2),
			fixed(row.TotalDeductions, 2),
			fixed(row.NetAmount, 2),
		})
		bills += row.TotalBills
		gross += row.GrandTotal
		deducted += row.TotalDeductions
		net += row.NetAmount
	}
	table.Totals = []string{"Total", strconv.Itoa(bills), fixed(gross, 2), fixed(deducted, 2), fixed(net, 2)}
	return []Section{{Table: table}}, nil
}

func contractSections(summary model.ContractSummary) ([]Section, error) {
	if len(summary.Rows) == 0 {
		return nil, ErrNoRecords
	}
	sections := make([]Section, 0, len(summary.Rows))
	for i, row := range summary.Rows {
		table := &Table{Columns: []string{"Bill #", "Bill Date", "Net KGs", "Rate/Kg", "Amount (Rs)"}}
		for _, trip := range row.Details {
			table.Rows = append(table.Rows, []string{
				trip.BillNumber,
				trip.BillDate,
				fixed(trip.NetKg, 2),
				fixed(trip.RatePerKg, 4),
				fixed(trip.Amount, 2),
			})
		}
		table.Totals = []string{"Total", "", fixed(row.TotalNetKgs, 2), "", fixed(row.TotalAmount, 2)}

		fields := []Field{
			{Label: "Contractor", Value: row.ContractorName},
			{Label: "Trips", Value: strconv.Itoa(row.Trips)},
			{Label: "Bills", Value: strconv.Itoa(len(row.BillIDs))},
			{Label: "Net KGs", Value: fixed(row.TotalNetKgs, 2)},
			{Label: "Amount (Rs)", Value: fixed(row.TotalAmount, 2)},
		}
		if i == 0 && summary.Skipped > 0 {
			fields = append(fields, Field{Label: "Unresolved items", Value: strconv.Itoa(summary.Skipped)})
		}
		sections = append(sections, Section{
			Heading:         fmt.Sprintf("Contract #%d: %s", row.ContractID, row.Route),
			Fields:          fields,
			Table:           table,
			PageBreakBefore: i > 0,
		})
	}
	return sections, nil
}

func stationSections(summary model.StationSummary) ([]Section, error) {
	if len(summary.Rows) == 0 {
		return nil, ErrNoRecords
	}
	sections := make([]Section, 0, len(summary.Rows))
	for i, row := range summary.Rows {
		sections = append(sections, Section{
			Heading: row.Station,
			Table: &Table{
				Columns: []string{"Direction", "Trips", "Net KGs", "Value (Rs)"},
				Rows: [][]string{
					{"Dispatched", strconv.Itoa(row.DispatchedTrips), fixed(row.DispatchedKgs, 2), fixed(row.DispatchedValue, 2)},
					{"Received", strconv.Itoa(row.ReceivedTrips), fixed(row.ReceivedKgs, 2), ""},
				},
			},
			PageBreakBefore: i > 0,
		})
	}
	return sections, nil
}

func monthlySections(summary model.MonthlySummary) ([]Section, error) {
	if len(summary.Rows) == 0 {
		return nil, ErrNoRecords
	}
	table := &Table{Columns: []string{"Month", "Bills", "Grand Total", "Deductions", "Net Amount"}}
	var bills int
	var gross, deducted, net float64
	for _, row := range summary.Rows {
		table.Rows = append(table.Rows, []string{
			row.Month,
			strconv.Itoa(row.TotalBills),
			fixed(row.GrandTotal, 2),
			fixed(row.TotalDeductions, 2),
			fixed(row.NetAmount, 2),
		})
		bills += row.TotalBills
		gross += row.GrandTotal
		deducted += row.TotalDeductions
		net += row.NetAmount
	}
	table.Totals = []string{"Total", strconv.Itoa(bills), fixed(gross, 2), fixed(deducted, 2), fixed(net, 2)}
	return []Section{{Table: table}}, nil
}

func deductionSections(summary model.DeductionSummary) ([]Section, error) {
	if summary.BillCount == 0 {
		return nil, ErrNoRecords
	}
	table := &Table{Columns: []string{"Category", "Amount (Rs)"}}
	for _, category := range summary.Categories {
		table.Rows = append(table.Rows, []string{category.Category.Label(), fixed(category.Amount, 2)})
	}
	table.Totals = []string{"Total", fixed(summary.Total, 2)}
	return []Section{{Table: table}}, nil
}

func taxLedgerSections(ledger model.TaxLedger) ([]Section, error) {
	if len(ledger.Rows) == 0 {
		return nil, ErrNoRecords
	}
	columns := []string{"Bill #", "Bill Date", "Net KGs", "Gross Amount"}
	for _, category := range model.DeductionCategories {
		columns = append(columns, category.Label())
	}
	columns = append(columns, "Total Deductions", "Net Amount")

	ledgerRow := func(row model.TaxLedgerRow) []string {
		cells := []string{row.BillNumber, row.BillDate, fixed(row.NetKgs, 2), fixed(row.GrossAmount, 2)}
		for _, category := range model.DeductionCategories {
			cells = append(cells, fixed(row.Deductions.Amount(category), 2))
		}
		return append(cells, fixed(row.TotalDeductions, 2), fixed(row.NetAmount, 2))
	}

	table := &Table{Columns: columns}
	for _, row := range ledger.Rows {
		table.Rows = append(table.Rows, ledgerRow(row))
	}
	totals := ledger.Totals
	totals.BillNumber = "Total"
	table.Totals = ledgerRow(totals)

	return []Section{{
		Fields: []Field{{Label: "Contractor", Value: ledger.ContractorName}},
		Table:  table,
	}}, nil
}

func statementSections(snapshot model.StatementSnapshot) ([]Section, error) {
	if len(snapshot.Bills) == 0 {
		return nil, ErrNoRecords
	}
	header := Section{
		Fields: []Field{
			{Label: "Contractor", Value: snapshot.ContractorName},
			{Label: "Period", Value: FormatPeriod(snapshot.Period)},
		},
	}
	if !snapshot.GeneratedAt.IsZero() {
		header.Fields = append(header.Fields, Field{Label: "Generated", Value: snapshot.GeneratedAt.Format(time.RFC3339)})
	}

	bills, _ := billListSections(model.BillList{Bills: snapshot.Bills})
	billsSection := bills[0]
	billsSection.Heading = "Bills"

	summary := snapshot.Summary
	deductions := &Table{Columns: []string{"Category", "Amount (Rs)"}}
	for _, category := range model.DeductionCategories {
		label := category.Label()
		if category == model.DeductionOthers && summary.Deductions.OthersDescription != "" {
			label = fmt.Sprintf("%s (%s)", label, summary.Deductions.OthersDescription)
		}
		deductions.Rows = append(deductions.Rows, []string{label, fixed(summary.Deductions.Amount(category), 2)})
	}
	deductions.Totals = []string{"Total Deductions", fixed(summary.TotalDeductions, 2)}

	return []Section{
		header,
		billsSection,
		{
			Heading: "Summary",
			Fields: []Field{
				{Label: "Grand Total", Value: fixed(summary.GrandTotal, 2)},
				{Label: "Total Deductions", Value: fixed(summary.TotalDeductions, 2)},
				{Label: "Net Amount", Value: fixed(summary.NetAmount, 2)},
			},
			Table: deductions,
		},
	}, nil
}

func auditSections(log model.AuditLog) ([]Section, error) {
	if len(log.Entries) == 0 {
		return nil, ErrNoRecords
	}
	sections := make([]Section, 0, len(log.Entries))
	for _, entry := range log.Entries {
		sections = append(sections, Section{
			Heading: entry.Action,
			Fields: []Field{
				{Label: "Time", Value: entry.Timestamp.UTC().Format(time.RFC3339)},
				{Label: "User", Value: entry.UserName},
			},
			Dump: dumpDetails(entry.Details),
		})
	}
	return sections, nil
}

func dumpDetails(details map[string]any) string {
	if len(details) == 0 {
		return "{}"
	}
	out, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", details)
	}
	return string(out)
}
