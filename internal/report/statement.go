package report

import (
	"github.com/google/uuid"

	"github.com/nurpe/billing-reports/internal/model"
)

// GenerateStatement freezes the bills of one contractor within period into a
// snapshot. The snapshot owns copies of the bills.
func GenerateStatement(bills []model.BillRecord, contractorID uuid.UUID, period model.Period) (*model.StatementSnapshot, error) {
	if contractorID == uuid.Nil {
		return nil, ErrNoContractorSelected
	}

	snapshot := &model.StatementSnapshot{
		ContractorID: contractorID,
		Period:       period,
		Bills:        []model.BillRecord{},
	}

	var gross, net, deducted total
	var deductions deductionTotals
	for _, bill := range bills {
		if bill.ContractorID != contractorID || !period.Contains(bill.DateString()) {
			continue
		}
		if snapshot.ContractorName == "" {
			snapshot.ContractorName = bill.ContractorName
		}
		snapshot.Bills = append(snapshot.Bills, bill.Clone())

		gross.Add(bill.GrossTotal)
		net.Add(bill.NetAmount)
		deducted.Add(bill.TotalDeductions)
		deductions.Add(bill.Deductions)
	}

	snapshot.Summary = model.StatementSummary{
		GrandTotal:      gross.Money(),
		NetAmount:       net.Money(),
		TotalDeductions: deducted.Money(),
		Deductions:      deductions.Deductions(),
	}
	return snapshot, nil
}
