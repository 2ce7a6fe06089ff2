package report

import (
	"fmt"

	"github.com/nurpe/billing-reports/internal/model"
)

// ValidateBill checks the arithmetic invariants a record store must uphold
// before a bill is accepted.
func ValidateBill(bill model.BillRecord) error {
	if bill.BillNumber == "" {
		return fmt.Errorf("%w: bill number is required", ErrValidation)
	}
	for i, item := range bill.Items {
		if item.NetKg > item.GrossKg {
			return fmt.Errorf("%w: bill %s item %d: net kg exceeds gross kg", ErrDataIntegrity, bill.BillNumber, i+1)
		}
		if RoundMoney(item.Amount) != ItemAmount(item.NetKg, item.RatePerKg) {
			return fmt.Errorf("%w: bill %s item %d: amount does not equal net kg times rate", ErrDataIntegrity, bill.BillNumber, i+1)
		}
	}
	if RoundMoney(bill.Deductions.Total()) != RoundMoney(bill.TotalDeductions) {
		return fmt.Errorf("%w: bill %s: deduction categories do not sum to total deductions", ErrDataIntegrity, bill.BillNumber)
	}
	if RoundMoney(bill.GrossTotal-bill.TotalDeductions) != RoundMoney(bill.NetAmount) {
		return fmt.Errorf("%w: bill %s: net amount does not equal gross total minus deductions", ErrDataIntegrity, bill.BillNumber)
	}
	return nil
}
