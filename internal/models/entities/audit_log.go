package entities

import (
	"encoding/json"
	"time"

	"npu-collective/sabha/internal/constants"
)

// AuditLogRow is the sqlx read-side shape of one audit entry.
type AuditLogRow struct {
	ID           string                `db:"id"`
	ActorUserID  *string               `db:"actor_user_id"`
	ActionType   constants.AuditAction `db:"action_type"`
	ResourceType string                `db:"resource_type"`
	ResourceID   *string               `db:"resource_id"`
	Details      json.RawMessage       `db:"details"`
	CreatedAt    time.Time             `db:"created_at"`
}
