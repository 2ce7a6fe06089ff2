package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/billing-reports/internal/model"
	"github.com/nurpe/billing-reports/internal/report"
)

type BillRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

type billRow struct {
	ID                  uuid.UUID
	BillNumber          string
	BillDate            time.Time
	ContractorID        *uuid.UUID
	ContractorName      *string
	SanctionedNumber    string
	GrossTotal          float64
	TotalDeductions     float64
	NetAmount           float64
	Penalty             float64
	IncomeTax           float64
	Zakat               float64
	EducationCess       float64
	WelfareFund         float64
	GSTCurrentBill      float64 `gorm:"column:gst_current_bill"`
	PSTCurrentBill      float64 `gorm:"column:pst_current_bill"`
	Others              float64
	OthersDescription   string
	CertificationPoints *string
	CreatedAt           time.Time
}

type itemRow struct {
	ID            uuid.UUID
	BillID        uuid.UUID
	FromStation   string
	ToStation     string
	TransportMode string
	TotalBags     int
	PPBags        int `gorm:"column:pp_bags"`
	JuteBags      int
	GrossKg       float64
	BardanaKg     float64
	NetKg         float64
	RatePerKg     float64
	Amount        float64
	ContractID    *int64
}

type attachmentRow struct {
	BillID     uuid.UUID
	Name       string
	ContentRef string
}

// ListBills returns every bill with its items and attachments, ordered by
// bill date and number.
func (r *BillRepository) ListBills(ctx context.Context) ([]model.BillRecord, error) {
	var rows []billRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.id,
			b.bill_number,
			b.bill_date,
			b.contractor_id,
			c.name AS contractor_name,
			b.sanctioned_number,
			b.gross_total,
			b.total_deductions,
			b.net_amount,
			b.penalty,
			b.income_tax,
			b.zakat,
			b.education_cess,
			b.welfare_fund,
			b.gst_current_bill,
			b.pst_current_bill,
			b.others,
			b.others_description,
			b.certification_points,
			b.created_at
		FROM bills b
		LEFT JOIN contractors c ON c.id = b.contractor_id
		ORDER BY b.bill_date ASC, b.bill_number ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.BillRecord{}, nil
	}

	var items []itemRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			bill_id,
			from_station,
			to_station,
			transport_mode,
			total_bags,
			pp_bags,
			jute_bags,
			gross_kg,
			bardana_kg,
			net_kg,
			rate_per_kg,
			amount,
			contract_id
		FROM bill_items
		ORDER BY bill_id, position ASC
	`).Scan(&items).Error; err != nil {
		return nil, err
	}

	var attachments []attachmentRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT bill_id, name, content_ref
		FROM bill_attachments
		ORDER BY bill_id, name ASC
	`).Scan(&attachments).Error; err != nil {
		return nil, err
	}

	itemsByBill := make(map[uuid.UUID][]model.BillItem, len(rows))
	for _, item := range items {
		itemsByBill[item.BillID] = append(itemsByBill[item.BillID], model.BillItem{
			ID:            item.ID,
			BillID:        item.BillID,
			FromStation:   item.FromStation,
			ToStation:     item.ToStation,
			TransportMode: item.TransportMode,
			TotalBags:     item.TotalBags,
			PPBags:        item.PPBags,
			JuteBags:      item.JuteBags,
			GrossKg:       item.GrossKg,
			BardanaKg:     item.BardanaKg,
			NetKg:         item.NetKg,
			RatePerKg:     item.RatePerKg,
			Amount:        item.Amount,
			ContractID:    item.ContractID,
		})
	}
	attachmentsByBill := make(map[uuid.UUID][]model.Attachment)
	for _, a := range attachments {
		attachmentsByBill[a.BillID] = append(attachmentsByBill[a.BillID], model.Attachment{Name: a.Name, ContentRef: a.ContentRef})
	}

	bills := make([]model.BillRecord, 0, len(rows))
	for _, row := range rows {
		bill := model.BillRecord{
			ID:               row.ID,
			BillNumber:       row.BillNumber,
			BillDate:         row.BillDate,
			SanctionedNumber: row.SanctionedNumber,
			Items:            itemsByBill[row.ID],
			Deductions: model.Deductions{
				Penalty:           row.Penalty,
				IncomeTax:         row.IncomeTax,
				Zakat:             row.Zakat,
				EducationCess:     row.EducationCess,
				WelfareFund:       row.WelfareFund,
				GSTCurrentBill:    row.GSTCurrentBill,
				PSTCurrentBill:    row.PSTCurrentBill,
				Others:            row.Others,
				OthersDescription: row.OthersDescription,
			},
			GrossTotal:          row.GrossTotal,
			TotalDeductions:     row.TotalDeductions,
			NetAmount:           row.NetAmount,
			CertificationPoints: row.CertificationPoints,
			Attachments:         attachmentsByBill[row.ID],
			CreatedAt:           row.CreatedAt,
		}
		// Unresolvable contractor references are kept unattributed.
		if row.ContractorID != nil && row.ContractorName != nil {
			bill.ContractorID = *row.ContractorID
			bill.ContractorName = *row.ContractorName
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// CreateBill appends a bill with its items and attachments in one transaction.
func (r *BillRepository) CreateBill(ctx context.Context, bill model.BillRecord) (*model.BillRecord, error) {
	if err := report.ValidateBill(bill); err != nil {
		return nil, err
	}

	var contractorID *uuid.UUID
	if bill.ContractorID != uuid.Nil {
		contractorID = &bill.ContractorID
	}

	saved := bill.Clone()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inserted struct {
			ID        uuid.UUID
			CreatedAt time.Time
		}
		err := tx.Raw(`
			INSERT INTO bills (
				bill_number,
				bill_date,
				contractor_id,
				sanctioned_number,
				gross_total,
				total_deductions,
				net_amount,
				penalty,
				income_tax,
				zakat,
				education_cess,
				welfare_fund,
				gst_current_bill,
				pst_current_bill,
				others,
				others_description,
				certification_points
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id, created_at
		`,
			bill.BillNumber,
			bill.BillDate,
			contractorID,
			bill.SanctionedNumber,
			bill.GrossTotal,
			bill.TotalDeductions,
			bill.NetAmount,
			bill.Deductions.Penalty,
			bill.Deductions.IncomeTax,
			bill.Deductions.Zakat,
			bill.Deductions.EducationCess,
			bill.Deductions.WelfareFund,
			bill.Deductions.GSTCurrentBill,
			bill.Deductions.PSTCurrentBill,
			bill.Deductions.Others,
			bill.Deductions.OthersDescription,
			bill.CertificationPoints,
		).Scan(&inserted).Error
		if err != nil {
			return err
		}
		saved.ID = inserted.ID
		saved.CreatedAt = inserted.CreatedAt

		for i := range saved.Items {
			item := &saved.Items[i]
			var itemID uuid.UUID
			if err := tx.Raw(`
				INSERT INTO bill_items (
					bill_id,
					position,
					from_station,
					to_station,
					transport_mode,
					total_bags,
					pp_bags,
					jute_bags,
					gross_kg,
					bardana_kg,
					net_kg,
					rate_per_kg,
					amount,
					contract_id
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				RETURNING id
			`,
				saved.ID,
				i,
				item.FromStation,
				item.ToStation,
				item.TransportMode,
				item.TotalBags,
				item.PPBags,
				item.JuteBags,
				item.GrossKg,
				item.BardanaKg,
				item.NetKg,
				item.RatePerKg,
				item.Amount,
				item.ContractID,
			).Scan(&itemID).Error; err != nil {
				return err
			}
			item.ID = itemID
			item.BillID = saved.ID
		}

		for _, a := range saved.Attachments {
			if err := tx.Exec(`
				INSERT INTO bill_attachments (bill_id, name, content_ref)
				VALUES (?, ?, ?)
			`, saved.ID, a.Name, a.ContentRef).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
