package model

type DeductionCategory string

const (
	DeductionPenalty        DeductionCategory = "penalty"
	DeductionIncomeTax      DeductionCategory = "income_tax"
	DeductionZakat          DeductionCategory = "zakat"
	DeductionEducationCess  DeductionCategory = "education_cess"
	DeductionWelfareFund    DeductionCategory = "welfare_fund"
	DeductionGSTCurrentBill DeductionCategory = "gst_current_bill"
	DeductionPSTCurrentBill DeductionCategory = "pst_current_bill"
	DeductionOthers         DeductionCategory = "others"
)

// DeductionCategories lists every category in display order. Others is last.
var DeductionCategories = []DeductionCategory{
	DeductionPenalty,
	DeductionIncomeTax,
	DeductionZakat,
	DeductionEducationCess,
	DeductionWelfareFund,
	DeductionGSTCurrentBill,
	DeductionPSTCurrentBill,
	DeductionOthers,
}

func (c DeductionCategory) Label() string {
	switch c {
	case DeductionPenalty:
		return "Penalty"
	case DeductionIncomeTax:
		return "Income Tax"
	case DeductionZakat:
		return "Zakat"
	case DeductionEducationCess:
		return "Education Cess"
	case DeductionWelfareFund:
		return "Welfare Fund"
	case DeductionGSTCurrentBill:
		return "GST (Current Bill)"
	case DeductionPSTCurrentBill:
		return "PST (Current Bill)"
	case DeductionOthers:
		return "Others"
	default:
		return string(c)
	}
}

type Deductions struct {
	Penalty           float64 `json:"penalty"`
	IncomeTax         float64 `json:"income_tax"`
	Zakat             float64 `json:"zakat"`
	EducationCess     float64 `json:"education_cess"`
	WelfareFund       float64 `json:"welfare_fund"`
	GSTCurrentBill    float64 `json:"gst_current_bill"`
	PSTCurrentBill    float64 `json:"pst_current_bill"`
	Others            float64 `json:"others"`
	OthersDescription string  `json:"others_description"`
}

func (d Deductions) Amount(category DeductionCategory) float64 {
	switch category {
	case DeductionPenalty:
		return d.Penalty
	case DeductionIncomeTax:
		return d.IncomeTax
	case DeductionZakat:
		return d.Zakat
	case DeductionEducationCess:
		return d.EducationCess
	case DeductionWelfareFund:
		return d.WelfareFund
	case DeductionGSTCurrentBill:
		return d.GSTCurrentBill
	case DeductionPSTCurrentBill:
		return d.PSTCurrentBill
	case DeductionOthers:
		return d.Others
	default:
		return 0
	}
}

// Add returns d with every numeric category of other added. The others
// description of d is kept unless it is empty.
func (d Deductions) Add(other Deductions) Deductions {
	d.Penalty += other.Penalty
	d.IncomeTax += other.IncomeTax
	d.Zakat += other.Zakat
	d.EducationCess += other.EducationCess
	d.WelfareFund += other.WelfareFund
	d.GSTCurrentBill += other.GSTCurrentBill
	d.PSTCurrentBill += other.PSTCurrentBill
	d.Others += other.Others
	if d.OthersDescription == "" {
		d.OthersDescription = other.OthersDescription
	}
	return d
}

func (d Deductions) Total() float64 {
	total := 0.0
	for _, category := range DeductionCategories {
		total += d.Amount(category)
	}
	return total
}
