package gorm

import (
	"time"

	"npu-collective/sabha/internal/constants"
)

// AuditLogEntry is append-only: rows are inserted inside the mutating
// transaction and never updated or deleted. Seq breaks created_at ties so
// the trail has a total order.
type AuditLogEntry struct {
	Seq          int64                 `gorm:"column:seq;primaryKey;autoIncrement"`
	ID           string                `gorm:"column:id;type:uuid;uniqueIndex;not null"`
	ActorUserID  *string               `gorm:"column:actor_user_id;type:uuid;index"`
	ActionType   constants.AuditAction `gorm:"column:action_type;type:varchar(50);not null;index"`
	ResourceType string                `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   *string               `gorm:"column:resource_id"`
	Details      JSONMap               `gorm:"column:details;type:jsonb"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (AuditLogEntry) TableName() string {
	return "audit_logs"
}
