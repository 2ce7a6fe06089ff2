package report

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/nurpe/billing-reports/internal/model"
)

// billTotals is the money fold shared by the contractor and monthly summaries.
type billTotals struct {
	bills                int
	gross, deducted, net total
}

func (t *billTotals) Add(b model.BillRecord) {
	t.bills++
	t.gross.Add(b.GrossTotal)
	t.deducted.Add(b.TotalDeductions)
	t.net.Add(b.NetAmount)
}

type contractorAcc struct {
	row    model.ContractorRow
	totals billTotals
}

func BuildContractorSummary(bills []model.BillRecord) model.ContractorSummary {
	groups := GroupBy(bills,
		func(b model.BillRecord) (uuid.UUID, bool) {
			return b.ContractorID, b.ContractorID != uuid.Nil
		},
		func(id uuid.UUID, b model.BillRecord) contractorAcc {
			return contractorAcc{row: model.ContractorRow{ContractorID: id, Name: b.ContractorName}}
		},
		func(acc *contractorAcc, b model.BillRecord) {
			acc.totals.Add(b)
		},
	)

	accs := groups.Values()
	rows := make([]model.ContractorRow, 0, len(accs))
	for _, acc := range accs {
		row := acc.row
		row.TotalBills = acc.totals.bills
		row.GrandTotal = acc.totals.gross.Money()
		row.TotalDeductions = acc.totals.deducted.Money()
		row.NetAmount = acc.totals.net.Money()
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b model.ContractorRow) int {
		return cmp.Compare(b.NetAmount, a.NetAmount)
	})
	return model.ContractorSummary{Rows: rows}
}

type contractAcc struct {
	row    model.ContractRow
	netKgs total
	amount total
	bills  idSet[uuid.UUID]
}

func BuildContractSummary(bills []model.BillRecord, contracts []model.Contract) model.ContractSummary {
	index := IndexContracts(contracts)
	groups := NewGrouped[int64, contractAcc]()
	skipped := 0

	for _, bill := range bills {
		for _, item := range bill.Items {
			if item.ContractID == nil {
				skipped++
				continue
			}
			contract, ok := index[*item.ContractID]
			if !ok {
				skipped++
				continue
			}
			acc := groups.Upsert(contract.ID, func() contractAcc {
				return contractAcc{row: model.ContractRow{
					ContractID:     contract.ID,
					Route:          contract.Route(),
					ContractorName: contract.ContractorName,
				}}
			})
			acc.row.Trips++
			acc.netKgs.Add(item.NetKg)
			acc.amount.Add(item.Amount)
			acc.bills.Add(bill.ID)
			acc.row.Details = append(acc.row.Details, model.ContractTrip{
				BillID:     bill.ID,
				BillNumber: bill.BillNumber,
				BillDate:   bill.DateString(),
				NetKg:      item.NetKg,
				RatePerKg:  item.RatePerKg,
				Amount:     item.Amount,
			})
		}
	}

	accs := groups.Values()
	rows := make([]model.ContractRow, 0, len(accs))
	for _, acc := range accs {
		row := acc.row
		row.TotalNetKgs = acc.netKgs.Weight()
		row.TotalAmount = acc.amount.Money()
		row.BillIDs = acc.bills.Items()
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b model.ContractRow) int {
		return cmp.Compare(b.TotalAmount, a.TotalAmount)
	})
	return model.ContractSummary{Rows: rows, Skipped: skipped}
}

type stationAcc struct {
	row             model.StationRow
	dispatchedKgs   total
	dispatchedValue total
	receivedKgs     total
}

func BuildStationSummary(bills []model.BillRecord) model.StationSummary {
	groups := NewGrouped[string, stationAcc]()
	station := func(name string) func() stationAcc {
		return func() stationAcc { return stationAcc{row: model.StationRow{Station: name}} }
	}

	for _, bill := range bills {
		for _, item := range bill.Items {
			origin := groups.Upsert(item.FromStation, station(item.FromStation))
			origin.row.DispatchedTrips++
			origin.dispatchedKgs.Add(item.NetKg)
			origin.dispatchedValue.Add(item.Amount)

			dest := groups.Upsert(item.ToStation, station(item.ToStation))
			dest.row.ReceivedTrips++
			dest.receivedKgs.Add(item.NetKg)
		}
	}

	accs := groups.Values()
	rows := make([]model.StationRow, 0, len(accs))
	for _, acc := range accs {
		row := acc.row
		row.DispatchedKgs = acc.dispatchedKgs.Weight()
		row.DispatchedValue = acc.dispatchedValue.Money()
		row.ReceivedKgs = acc.receivedKgs.Weight()
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b model.StationRow) int {
		return cmp.Compare(b.DispatchedValue, a.DispatchedValue)
	})
	return model.StationSummary{Rows: rows}
}

type monthlyAcc struct {
	month  string
	totals billTotals
}

func BuildMonthlySummary(bills []model.BillRecord) model.MonthlySummary {
	groups := GroupBy(bills,
		func(b model.BillRecord) (string, bool) {
			date := b.DateString()
			if len(date) < 7 {
				return "", false
			}
			return date[:7], true
		},
		func(month string, _ model.BillRecord) monthlyAcc {
			return monthlyAcc{month: month}
		},
		func(acc *monthlyAcc, b model.BillRecord) {
			acc.totals.Add(b)
		},
	)

	accs := groups.Values()
	rows := make([]model.MonthlyRow, 0, len(accs))
	for _, acc := range accs {
		rows = append(rows, model.MonthlyRow{
			Month:           acc.month,
			TotalBills:      acc.totals.bills,
			GrandTotal:      acc.totals.gross.Money(),
			TotalDeductions: acc.totals.deducted.Money(),
			NetAmount:       acc.totals.net.Money(),
		})
	}
	slices.SortStableFunc(rows, func(a, b model.MonthlyRow) int {
		return cmp.Compare(b.Month, a.Month)
	})
	return model.MonthlySummary{Rows: rows}
}

func BuildDeductionSummary(bills []model.BillRecord) model.DeductionSummary {
	var sums deductionTotals
	var deducted total
	for _, bill := range bills {
		sums.Add(bill.Deductions)
		deducted.Add(bill.TotalDeductions)
	}

	categories := make([]model.CategoryAmount, 0, len(model.DeductionCategories))
	for _, category := range model.DeductionCategories {
		categories = append(categories, model.CategoryAmount{
			Category: category,
			Amount:   sums.Amount(category),
		})
	}
	return model.DeductionSummary{
		Categories: categories,
		Total:      deducted.Money(),
		BillCount:  len(bills),
	}
}

// BuildTaxLedger lists every bill with its deductions for one contractor. It
// reports false when no specific contractor is selected.
func BuildTaxLedger(bills []model.BillRecord, contractorID uuid.UUID) (model.TaxLedger, bool) {
	if contractorID == uuid.Nil {
		return model.TaxLedger{}, false
	}

	ledger := model.TaxLedger{ContractorID: contractorID}
	ledger.Rows = make([]model.TaxLedgerRow, 0, len(bills))
	var netKgs, gross, deducted, net total
	var deductions deductionTotals
	for _, bill := range bills {
		if bill.ContractorID != contractorID {
			continue
		}
		if ledger.ContractorName == "" {
			ledger.ContractorName = bill.ContractorName
		}
		row := model.TaxLedgerRow{
			BillID:          bill.ID,
			BillNumber:      bill.BillNumber,
			BillDate:        bill.DateString(),
			NetKgs:          bill.NetKgs(),
			GrossAmount:     bill.GrossTotal,
			Deductions:      bill.Deductions,
			TotalDeductions: bill.TotalDeductions,
			NetAmount:       bill.NetAmount,
		}
		ledger.Rows = append(ledger.Rows, row)

		netKgs.Add(row.NetKgs)
		gross.Add(row.GrossAmount)
		deductions.Add(row.Deductions)
		deducted.Add(row.TotalDeductions)
		net.Add(row.NetAmount)
	}

	totals := model.TaxLedgerRow{
		NetKgs:          netKgs.Weight(),
		GrossAmount:     gross.Money(),
		Deductions:      deductions.Deductions(),
		TotalDeductions: deducted.Money(),
		NetAmount:       net.Money(),
	}
	totals.Deductions.OthersDescription = ""
	ledger.Totals = totals
	return ledger, true
}
