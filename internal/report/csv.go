package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nurpe/billing-reports/internal/model"
)

var CSVHeader = []string{
	"Bill #",
	"Bill Date",
	"Contractor",
	"Sanctioned No",
	"From",
	"To",
	"Mode",
	"Total Bags",
	"PP Bags",
	"Jute Bags",
	"Net KGs",
	"Bardana KGs",
	"Gross KGs",
	"Rate/Kg",
	"Amount (Rs)",
	"Bill Grand Total",
	"Bill Total Deductions",
	"Bill Net Amount",
}

// ToCSVRows flattens bills into one row per item, in CSVHeader column order.
func ToCSVRows(bills []model.BillRecord) [][]string {
	var rows [][]string
	for _, bill := range bills {
		for _, item := range bill.Items {
			rows = append(rows, []string{
				bill.BillNumber,
				bill.DateString(),
				bill.ContractorName,
				bill.SanctionedNumber,
				item.FromStation,
				item.ToStation,
				item.TransportMode,
				strconv.Itoa(item.TotalBags),
				strconv.Itoa(item.PPBags),
				strconv.Itoa(item.JuteBags),
				fixed(item.NetKg, 2),
				fixed(item.BardanaKg, 3),
				fixed(item.GrossKg, 2),
				fixed(item.RatePerKg, 4),
				fixed(item.Amount, 2),
				fixed(bill.GrossTotal, 2),
				fixed(bill.TotalDeductions, 2),
				fixed(bill.NetAmount, 2),
			})
		}
	}
	return rows
}

// WriteCSV writes the header and the flattened rows of bills to w.
func WriteCSV(w io.Writer, bills []model.BillRecord) error {
	rows := ToCSVRows(bills)
	if len(rows) == 0 {
		return ErrNoRecords
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func CSVFileName(now time.Time) string {
	return fmt.Sprintf("Bills-Report-%s.csv", now.Format(model.DateLayout))
}

func fixed(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}
