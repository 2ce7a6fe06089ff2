package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditLogEntry struct {
	ID        uuid.UUID      `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    uuid.UUID      `json:"user_id"`
	UserName  string         `json:"user_name"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
}
