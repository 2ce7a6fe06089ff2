package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/billing-reports/internal/model"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// ListAuditEntries returns the audit log newest first.
func (r *AuditRepository) ListAuditEntries(ctx context.Context) ([]model.AuditLogEntry, error) {
	var rows []struct {
		ID        uuid.UUID
		CreatedAt time.Time
		UserID    *uuid.UUID
		UserName  string
		Action    string
		Details   []byte
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, created_at, user_id, user_name, action, details
		FROM audit_log
		ORDER BY created_at DESC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]model.AuditLogEntry, 0, len(rows))
	for _, row := range rows {
		entry := model.AuditLogEntry{
			ID:        row.ID,
			Timestamp: row.CreatedAt,
			UserName:  row.UserName,
			Action:    row.Action,
		}
		if row.UserID != nil {
			entry.UserID = *row.UserID
		}
		if len(row.Details) > 0 {
			if err := json.Unmarshal(row.Details, &entry.Details); err != nil {
				return nil, fmt.Errorf("decode audit details %s: %w", row.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
