package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/billing-reports/internal/model"
)

var (
	acmeID   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bolanID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	billAID  = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	billBID  = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	billCID  = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003")
	billDID  = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000004")
	orphanID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000005")
)

func contractRef(id int64) *int64 {
	return &id
}

func date(raw string) time.Time {
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		panic(err)
	}
	return t
}

func item(from, to string, netKg, rate float64, contract *int64) model.BillItem {
	return model.BillItem{
		ID:            uuid.New(),
		FromStation:   from,
		ToStation:     to,
		TransportMode: "Road",
		TotalBags:     10,
		PPBags:        6,
		JuteBags:      4,
		GrossKg:       netKg + 5,
		BardanaKg:     5,
		NetKg:         netKg,
		RatePerKg:     rate,
		Amount:        ItemAmount(netKg, rate),
		ContractID:    contract,
	}
}

func bill(id uuid.UUID, number, day string, contractor uuid.UUID, name string, deductions model.Deductions, items ...model.BillItem) model.BillRecord {
	gross := 0.0
	for i := range items {
		items[i].BillID = id
		gross += items[i].Amount
	}
	total := deductions.Total()
	return model.BillRecord{
		ID:               id,
		BillNumber:       number,
		BillDate:         date(day),
		ContractorID:     contractor,
		ContractorName:   name,
		SanctionedNumber: "SN-" + number,
		Items:            items,
		Deductions:       deductions,
		GrossTotal:       gross,
		TotalDeductions:  total,
		NetAmount:        gross - total,
	}
}

func testContracts() []model.Contract {
	return []model.Contract{
		{ID: 1, ContractorID: acmeID, ContractorName: "Acme", FromStation: "Quetta", ToStation: "Sibi"},
		{ID: 2, ContractorID: bolanID, ContractorName: "Bolan Carriers", FromStation: "Sibi", ToStation: "Jacobabad"},
		{ID: 3, ContractorID: acmeID, ContractorName: "Acme", FromStation: "Quetta", ToStation: "Zhob"},
	}
}

func testBills() []model.BillRecord {
	return []model.BillRecord{
		bill(billAID, "QTA-001", "2024-01-15", acmeID, "Acme",
			model.Deductions{IncomeTax: 50, Zakat: 10, Others: 5, OthersDescription: "stamp"},
			item("Quetta", "Sibi", 500, 2, contractRef(1)),
			item("Quetta", "Zhob", 200, 1.5, contractRef(3)),
		),
		bill(billBID, "QTA-002", "2024-02-03", acmeID, "Acme",
			model.Deductions{IncomeTax: 20, Penalty: 15, Others: 2, OthersDescription: "late fee"},
			item("Quetta", "Sibi", 300, 2, contractRef(1)),
		),
		bill(billCID, "SBI-101", "2024-02-20", bolanID, "Bolan Carriers",
			model.Deductions{IncomeTax: 80, EducationCess: 12, WelfareFund: 8},
			item("Sibi", "Jacobabad", 1000, 1.25, contractRef(2)),
			item("Sibi", "Jacobabad", 100, 1.25, contractRef(99)),
		),
		bill(billDID, "SBI-102", "2024-03-05", bolanID, "Bolan Carriers",
			model.Deductions{GSTCurrentBill: 30, PSTCurrentBill: 20},
			item("Jacobabad", "Quetta", 400, 1, nil),
		),
		bill(orphanID, "MISC-9", "2024-03-09", uuid.Nil, "",
			model.Deductions{Penalty: 1},
			item("Zhob", "Quetta", 10, 1, nil),
		),
	}
}

func totalNet(bills []model.BillRecord) float64 {
	total := 0.0
	for _, b := range bills {
		total += b.NetAmount
	}
	return total
}
