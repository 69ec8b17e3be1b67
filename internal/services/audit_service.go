package services

import (
	"encoding/json"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/constants"
	gormModels "npu-collective/sabha/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditService appends to the audit trail. Record always runs on the
// caller's transaction handle: if the insert fails the whole mutation
// rolls back, because an unaudited privileged mutation is a security
// defect, not a recoverable condition.
type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// Record inserts one append-only entry. actorID nil means the system
// itself acted (e.g. the scheduled publisher).
func (s *AuditService) Record(
	tx *gorm.DB,
	actorID *string,
	action constants.AuditAction,
	resourceType string,
	resourceID *string,
	details gormModels.JSONMap,
) error {
	entry := gormModels.AuditLogEntry{
		ID:           uuid.New().String(),
		ActorUserID:  actorID,
		ActionType:   action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}

	if err := tx.Create(&entry).Error; err != nil {
		return apperrors.WrapStorage("audit.record", err)
	}
	return nil
}

// ChangeDetails builds the before/after payload audit entries carry. Nil
// before means a create, nil after means a delete.
func ChangeDetails(before, after interface{}) gormModels.JSONMap {
	details := gormModels.JSONMap{}
	if before != nil {
		details["before"] = toJSONValue(before)
	}
	if after != nil {
		details["after"] = toJSONValue(after)
	}
	return details
}

func toJSONValue(v interface{}) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
