package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/billing-reports/internal/model"
	"github.com/nurpe/billing-reports/internal/report"
)

// Store keeps bills, contracts and the audit log in process memory. It
// satisfies the same read-all and append contract as the postgres repositories.
type Store struct {
	mu          sync.RWMutex
	bills       []model.BillRecord
	numbers     map[string]struct{}
	contracts   []model.Contract
	contractors map[uuid.UUID]model.Contractor
	audit       []model.AuditLogEntry
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		numbers:     make(map[string]struct{}),
		contractors: make(map[uuid.UUID]model.Contractor),
		now:         time.Now,
	}
}

func (s *Store) ListBills(_ context.Context) ([]model.BillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.BillRecord, 0, len(s.bills))
	for _, bill := range s.bills {
		out = append(out, bill.Clone())
	}
	return out, nil
}

func (s *Store) CreateBill(_ context.Context, bill model.BillRecord) (*model.BillRecord, error) {
	if err := report.ValidateBill(bill); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.numbers[bill.BillNumber]; exists {
		return nil, fmt.Errorf("%w: bill number %s already exists", report.ErrValidation, bill.BillNumber)
	}

	saved := bill.Clone()
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = s.now()
	}
	for i := range saved.Items {
		if saved.Items[i].ID == uuid.Nil {
			saved.Items[i].ID = uuid.New()
		}
		saved.Items[i].BillID = saved.ID
	}
	if contractor, ok := s.contractors[saved.ContractorID]; ok && saved.ContractorName == "" {
		saved.ContractorName = contractor.Name
	}

	s.bills = append(s.bills, saved)
	s.numbers[saved.BillNumber] = struct{}{}
	out := saved.Clone()
	return &out, nil
}

func (s *Store) ListContracts(_ context.Context) ([]model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Contract{}, s.contracts...), nil
}

func (s *Store) AddContract(contract model.Contract) model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contract.ID == 0 {
		contract.ID = int64(len(s.contracts) + 1)
	}
	if contractor, ok := s.contractors[contract.ContractorID]; ok && contract.ContractorName == "" {
		contract.ContractorName = contractor.Name
	}
	s.contracts = append(s.contracts, contract)
	return contract
}

func (s *Store) GetContractor(_ context.Context, id uuid.UUID) (*model.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contractor, ok := s.contractors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &contractor, nil
}

func (s *Store) AddContractor(contractor model.Contractor) model.Contractor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contractor.ID == uuid.Nil {
		contractor.ID = uuid.New()
	}
	s.contractors[contractor.ID] = contractor
	return contractor
}

// ListAuditEntries returns the audit log newest first.
func (s *Store) ListAuditEntries(_ context.Context) ([]model.AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AuditLogEntry, 0, len(s.audit))
	for i := len(s.audit) - 1; i >= 0; i-- {
		out = append(out, s.audit[i])
	}
	return out, nil
}

func (s *Store) AppendAuditEntry(entry model.AuditLogEntry) model.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	s.audit = append(s.audit, entry)
	return entry
}
