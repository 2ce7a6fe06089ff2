package model

import (
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type BillRecord struct {
	ID                  uuid.UUID    `json:"id"`
	BillNumber          string       `json:"bill_number"`
	BillDate            time.Time    `json:"bill_date"`
	ContractorID        uuid.UUID    `json:"contractor_id"`
	ContractorName      string       `json:"contractor_name"`
	SanctionedNumber    string       `json:"sanctioned_number"`
	Items               []BillItem   `json:"items"`
	Deductions          Deductions   `json:"deductions"`
	GrossTotal          float64      `json:"gross_total"`
	TotalDeductions     float64      `json:"total_deductions"`
	NetAmount           float64      `json:"net_amount"`
	CertificationPoints *string      `json:"certification_points"`
	Attachments         []Attachment `json:"attachments"`
	CreatedAt           time.Time    `json:"created_at"`
}

// DateString returns the canonical YYYY-MM-DD form of the bill date.
func (b BillRecord) DateString() string {
	if b.BillDate.IsZero() {
		return ""
	}
	return b.BillDate.Format(DateLayout)
}

// NetKgs sums the net weight across all items of the bill.
func (b BillRecord) NetKgs() float64 {
	total := 0.0
	for _, item := range b.Items {
		total += item.NetKg
	}
	return total
}

type BillItem struct {
	ID            uuid.UUID `json:"id"`
	BillID        uuid.UUID `json:"bill_id"`
	FromStation   string    `json:"from_station"`
	ToStation     string    `json:"to_station"`
	TransportMode string    `json:"transport_mode"`
	TotalBags     int       `json:"total_bags"`
	PPBags        int       `json:"pp_bags"`
	JuteBags      int       `json:"jute_bags"`
	GrossKg       float64   `json:"gross_kg"`
	BardanaKg     float64   `json:"bardana_kg"`
	NetKg         float64   `json:"net_kg"`
	RatePerKg     float64   `json:"rate_per_kg"`
	Amount        float64   `json:"amount"`
	ContractID    *int64    `json:"contract_id"`
}

type Attachment struct {
	Name       string `json:"name"`
	ContentRef string `json:"content_ref"`
}

// Clone returns a deep copy so the result does not share slices with b.
func (b BillRecord) Clone() BillRecord {
	out := b
	if b.Items != nil {
		out.Items = make([]BillItem, len(b.Items))
		for i, item := range b.Items {
			if item.ContractID != nil {
				id := *item.ContractID
				item.ContractID = &id
			}
			out.Items[i] = item
		}
	}
	if b.Attachments != nil {
		out.Attachments = append([]Attachment(nil), b.Attachments...)
	}
	if b.CertificationPoints != nil {
		points := *b.CertificationPoints
		out.CertificationPoints = &points
	}
	return out
}
