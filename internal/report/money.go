package report

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/billing-reports/internal/model"
)

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// ItemAmount prices a leg as net kg times rate, rounded to two decimals.
func ItemAmount(netKg, ratePerKg float64) float64 {
	amount := decimal.NewFromFloat(netKg).Mul(decimal.NewFromFloat(ratePerKg))
	return amount.Round(2).InexactFloat64()
}

// total accumulates figures exactly. Money is rounded once, on output.
type total struct {
	d decimal.Decimal
}

func (t *total) Add(value float64) {
	t.d = t.d.Add(decimal.NewFromFloat(value))
}

func (t total) Money() float64 {
	return t.d.Round(2).InexactFloat64()
}

// Weight rounds to three decimals, the finest precision weights carry.
func (t total) Weight() float64 {
	return t.d.Round(3).InexactFloat64()
}

// deductionTotals sums every deduction category independently and keeps the
// first non-empty others description.
type deductionTotals struct {
	categories  map[model.DeductionCategory]*total
	description string
}

func (d *deductionTotals) Add(deductions model.Deductions) {
	if d.categories == nil {
		d.categories = make(map[model.DeductionCategory]*total, len(model.DeductionCategories))
	}
	for _, category := range model.DeductionCategories {
		t, ok := d.categories[category]
		if !ok {
			t = &total{}
			d.categories[category] = t
		}
		t.Add(deductions.Amount(category))
	}
	if d.description == "" {
		d.description = deductions.OthersDescription
	}
}

func (d deductionTotals) Amount(category model.DeductionCategory) float64 {
	if t, ok := d.categories[category]; ok {
		return t.Money()
	}
	return 0
}

func (d deductionTotals) Deductions() model.Deductions {
	return model.Deductions{
		Penalty:           d.Amount(model.DeductionPenalty),
		IncomeTax:         d.Amount(model.DeductionIncomeTax),
		Zakat:             d.Amount(model.DeductionZakat),
		EducationCess:     d.Amount(model.DeductionEducationCess),
		WelfareFund:       d.Amount(model.DeductionWelfareFund),
		GSTCurrentBill:    d.Amount(model.DeductionGSTCurrentBill),
		PSTCurrentBill:    d.Amount(model.DeductionPSTCurrentBill),
		Others:            d.Amount(model.DeductionOthers),
		OthersDescription: d.description,
	}
}
