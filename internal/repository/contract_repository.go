package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/billing-reports/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) ListContracts(ctx context.Context) ([]model.Contract, error) {
	var rows []model.Contract
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			ct.id,
			ct.contractor_id,
			COALESCE(c.name, '') AS contractor_name,
			ct.from_station,
			ct.to_station
		FROM contracts ct
		LEFT JOIN contractors c ON c.id = ct.contractor_id
		ORDER BY ct.id ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ContractRepository) GetContractor(ctx context.Context, id uuid.UUID) (*model.Contractor, error) {
	var contractor model.Contractor
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name
		FROM contractors
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&contractor).Error; err != nil {
		return nil, err
	}
	if contractor.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &contractor, nil
}
