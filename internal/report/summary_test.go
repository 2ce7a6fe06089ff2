package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/billing-reports/internal/model"
)

func acmeScenario() []model.BillRecord {
	b := model.BillRecord{
		ID:              billAID,
		BillNumber:      "ACME-1",
		BillDate:        date("2024-01-15"),
		ContractorID:    acmeID,
		ContractorName:  "Acme",
		GrossTotal:      1000,
		TotalDeductions: 100,
		NetAmount:       900,
		Deductions:      model.Deductions{IncomeTax: 100},
		Items: []model.BillItem{{
			BillID:      billAID,
			FromStation: "X",
			ToStation:   "Y",
			GrossKg:     510,
			BardanaKg:   10,
			NetKg:       500,
			RatePerKg:   2.0,
			Amount:      1000,
		}},
	}
	return []model.BillRecord{b}
}

func TestScenarioContractorAndStation(t *testing.T) {
	bills := acmeScenario()

	contractors := BuildContractorSummary(bills)
	require.Len(t, contractors.Rows, 1)
	assert.Equal(t, model.ContractorRow{
		ContractorID:    acmeID,
		Name:            "Acme",
		TotalBills:      1,
		GrandTotal:      1000,
		TotalDeductions: 100,
		NetAmount:       900,
	}, contractors.Rows[0])

	stations := BuildStationSummary(bills)
	require.Len(t, stations.Rows, 2)
	assert.Equal(t, model.StationRow{Station: "X", DispatchedTrips: 1, DispatchedKgs: 500, DispatchedValue: 1000}, stations.Rows[0])
	assert.Equal(t, model.StationRow{Station: "Y", ReceivedTrips: 1, ReceivedKgs: 500}, stations.Rows[1])
}

func TestContractorSummary(t *testing.T) {
	summary := BuildContractorSummary(testBills())

	require.Len(t, summary.Rows, 2)
	assert.Equal(t, "Acme", summary.Rows[0].Name)
	assert.Equal(t, 2, summary.Rows[0].TotalBills)
	assert.InDelta(t, 1798, summary.Rows[0].NetAmount, 0.001)
	assert.Equal(t, "Bolan Carriers", summary.Rows[1].Name)
	assert.InDelta(t, 1625, summary.Rows[1].NetAmount, 0.001)
}

func TestContractorSummaryConservesNet(t *testing.T) {
	bills := testBills()[:4]
	summary := BuildContractorSummary(bills)
	sum := 0.0
	for _, row := range summary.Rows {
		sum += row.NetAmount
	}
	assert.InDelta(t, totalNet(bills), sum, 0.001)
}

func TestContractSummary(t *testing.T) {
	summary := BuildContractSummary(testBills(), testContracts())

	require.Len(t, summary.Rows, 3)
	assert.Equal(t, 3, summary.Skipped)

	top := summary.Rows[0]
	assert.Equal(t, int64(1), top.ContractID)
	assert.Equal(t, "Quetta -> Sibi", top.Route)
	assert.Equal(t, 2, top.Trips)
	assert.InDelta(t, 800, top.TotalNetKgs, 0.001)
	assert.InDelta(t, 1600, top.TotalAmount, 0.001)
	assert.Equal(t, []uuid.UUID{billAID, billBID}, top.BillIDs)
	require.Len(t, top.Details, 2)
	assert.Equal(t, "QTA-002", top.Details[1].BillNumber)

	assert.Equal(t, int64(2), summary.Rows[1].ContractID)
	assert.InDelta(t, 1250, summary.Rows[1].TotalAmount, 0.001)
	assert.Equal(t, int64(3), summary.Rows[2].ContractID)
}

func TestContractSummaryCountsBillOnce(t *testing.T) {
	b := bill(billAID, "QTA-010", "2024-04-01", acmeID, "Acme", model.Deductions{},
		item("Quetta", "Sibi", 100, 2, contractRef(1)),
		item("Quetta", "Sibi", 50, 2, contractRef(1)),
	)
	summary := BuildContractSummary([]model.BillRecord{b}, testContracts())

	require.Len(t, summary.Rows, 1)
	assert.Equal(t, 2, summary.Rows[0].Trips)
	assert.Equal(t, []uuid.UUID{billAID}, summary.Rows[0].BillIDs)
}

func TestStationSummarySharedEntry(t *testing.T) {
	summary := BuildStationSummary(testBills())

	byName := map[string]model.StationRow{}
	for _, row := range summary.Rows {
		byName[row.Station] = row
	}
	require.Len(t, byName, 4)

	sibi := byName["Sibi"]
	assert.Equal(t, 2, sibi.DispatchedTrips)
	assert.Equal(t, 2, sibi.ReceivedTrips)
	assert.InDelta(t, 1100, sibi.DispatchedKgs, 0.001)
	assert.InDelta(t, 800, sibi.ReceivedKgs, 0.001)

	quetta := byName["Quetta"]
	assert.Equal(t, 3, quetta.DispatchedTrips)
	assert.Equal(t, 2, quetta.ReceivedTrips)

	for i := 1; i < len(summary.Rows); i++ {
		assert.GreaterOrEqual(t, summary.Rows[i-1].DispatchedValue, summary.Rows[i].DispatchedValue)
	}
}

func TestStationSummaryDuplicationLaw(t *testing.T) {
	base := testBills()
	before := BuildStationSummary(base)
	extra := bill(uuid.New(), "NEW-1", "2024-05-01", acmeID, "Acme", model.Deductions{},
		item("Quetta", "Sibi", 42, 3, nil))
	after := BuildStationSummary(append(base, extra))

	find := func(s model.StationSummary, name string) model.StationRow {
		for _, row := range s.Rows {
			if row.Station == name {
				return row
			}
		}
		return model.StationRow{Station: name}
	}

	a0, a1 := find(before, "Quetta"), find(after, "Quetta")
	assert.Equal(t, a0.DispatchedTrips+1, a1.DispatchedTrips)
	assert.Equal(t, a0.ReceivedTrips, a1.ReceivedTrips)
	assert.InDelta(t, a0.ReceivedKgs, a1.ReceivedKgs, 0.0001)

	b0, b1 := find(before, "Sibi"), find(after, "Sibi")
	assert.Equal(t, b0.ReceivedTrips+1, b1.ReceivedTrips)
	assert.Equal(t, b0.DispatchedTrips, b1.DispatchedTrips)
	assert.InDelta(t, b0.DispatchedValue, b1.DispatchedValue, 0.0001)
}

func TestMonthlySummary(t *testing.T) {
	bills := testBills()
	summary := BuildMonthlySummary(bills)

	months := make([]string, 0, len(summary.Rows))
	net := 0.0
	for _, row := range summary.Rows {
		months = append(months, row.Month)
		net += row.NetAmount
	}
	assert.Equal(t, []string{"2024-03", "2024-02", "2024-01"}, months)
	assert.Equal(t, 2, summary.Rows[0].TotalBills)
	assert.InDelta(t, totalNet(bills), net, 0.001)
}

func TestDeductionSummary(t *testing.T) {
	bills := testBills()
	summary := BuildDeductionSummary(bills)

	require.Len(t, summary.Categories, len(model.DeductionCategories))
	amounts := map[model.DeductionCategory]float64{}
	categorySum := 0.0
	for _, c := range summary.Categories {
		amounts[c.Category] = c.Amount
		categorySum += c.Amount
	}
	assert.InDelta(t, 150, amounts[model.DeductionIncomeTax], 0.001)
	assert.InDelta(t, 16, amounts[model.DeductionPenalty], 0.001)
	assert.InDelta(t, 7, amounts[model.DeductionOthers], 0.001)

	expected := 0.0
	for _, b := range bills {
		expected += b.TotalDeductions
	}
	assert.InDelta(t, expected, summary.Total, 0.001)
	assert.InDelta(t, summary.Total, categorySum, 0.001)
}

func TestEmptySummaries(t *testing.T) {
	assert.Empty(t, BuildContractorSummary(nil).Rows)
	assert.Empty(t, BuildContractSummary(nil, testContracts()).Rows)
	assert.Empty(t, BuildStationSummary(nil).Rows)
	assert.Empty(t, BuildMonthlySummary(nil).Rows)

	deductions := BuildDeductionSummary(nil)
	assert.Len(t, deductions.Categories, len(model.DeductionCategories))
	assert.Zero(t, deductions.Total)
}

func TestTaxLedger(t *testing.T) {
	bills := FilterBills(testBills(), testContracts(), model.FilterState{ContractorID: acmeID})

	_, ok := BuildTaxLedger(bills, uuid.Nil)
	assert.False(t, ok)

	ledger, ok := BuildTaxLedger(bills, acmeID)
	require.True(t, ok)
	require.Len(t, ledger.Rows, 2)
	assert.Equal(t, "Acme", ledger.ContractorName)
	assert.InDelta(t, 700, ledger.Rows[0].NetKgs, 0.001)
	assert.InDelta(t, 1000, ledger.Totals.NetKgs, 0.001)
	assert.InDelta(t, 70, ledger.Totals.Deductions.IncomeTax, 0.001)
	assert.InDelta(t, ledger.Rows[0].NetAmount+ledger.Rows[1].NetAmount, ledger.Totals.NetAmount, 0.001)
	assert.Empty(t, ledger.Totals.Deductions.OthersDescription)
}

func TestBuildersAreIdempotent(t *testing.T) {
	bills, contracts := testBills(), testContracts()

	assert.Equal(t, BuildContractorSummary(bills), BuildContractorSummary(bills))
	assert.Equal(t, BuildContractSummary(bills, contracts), BuildContractSummary(bills, contracts))
	assert.Equal(t, BuildStationSummary(bills), BuildStationSummary(bills))
	assert.Equal(t, BuildMonthlySummary(bills), BuildMonthlySummary(bills))
	assert.Equal(t, BuildDeductionSummary(bills), BuildDeductionSummary(bills))
	l1, _ := BuildTaxLedger(bills, acmeID)
	l2, _ := BuildTaxLedger(bills, acmeID)
	assert.Equal(t, l1, l2)
}

func TestSummariesAgreeWithStatementToTheCent(t *testing.T) {
	mk := func(number, day string, gross, deducted float64) model.BillRecord {
		return model.BillRecord{
			ID:              uuid.New(),
			BillNumber:      number,
			BillDate:        date(day),
			ContractorID:    acmeID,
			ContractorName:  "Acme",
			Deductions:      model.Deductions{IncomeTax: deducted},
			GrossTotal:      gross,
			TotalDeductions: deducted,
			NetAmount:       gross - deducted,
		}
	}
	bills := []model.BillRecord{
		mk("C-1", "2024-06-01", 10.2, 0.1),
		mk("C-2", "2024-06-02", 20.3, 0.2),
		mk("C-3", "2024-06-03", 60.65, 0.1),
		mk("C-4", "2024-06-04", 0.1, 0),
	}

	statement, err := GenerateStatement(bills, acmeID, model.Period{})
	require.NoError(t, err)
	assert.Equal(t, 90.85, statement.Summary.NetAmount)

	contractors := BuildContractorSummary(bills)
	require.Len(t, contractors.Rows, 1)
	assert.Equal(t, statement.Summary.NetAmount, contractors.Rows[0].NetAmount)
	assert.Equal(t, statement.Summary.GrandTotal, contractors.Rows[0].GrandTotal)

	monthly := BuildMonthlySummary(bills)
	require.Len(t, monthly.Rows, 1)
	assert.Equal(t, statement.Summary.NetAmount, monthly.Rows[0].NetAmount)
	assert.Equal(t, statement.Summary.TotalDeductions, monthly.Rows[0].TotalDeductions)

	deductions := BuildDeductionSummary(bills)
	assert.Equal(t, 0.4, deductions.Total)
	assert.Equal(t, deductions.Total, statement.Summary.TotalDeductions)

	ledger, ok := BuildTaxLedger(bills, acmeID)
	require.True(t, ok)
	assert.Equal(t, statement.Summary.NetAmount, ledger.Totals.NetAmount)
}
