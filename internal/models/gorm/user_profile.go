package gorm

import (
	"time"

	"npu-collective/sabha/internal/constants"
)

// UserProfile is the member-facing networking profile. One per user; every
// self-edit goes back through the approval queue.
type UserProfile struct {
	ID              string                  `gorm:"column:id;primaryKey;type:uuid"`
	UserID          string                  `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	FirstName       string                  `gorm:"column:first_name"`
	LastName        string                  `gorm:"column:last_name"`
	VillageName     *string                 `gorm:"column:village_name"`
	CurrentLocation *string                 `gorm:"column:current_location"`
	Bio             *string                 `gorm:"column:bio"`
	FieldVisibility JSONMap                 `gorm:"column:field_visibility;type:jsonb"`
	Status          constants.ProfileStatus `gorm:"column:status;type:varchar(20);default:pending;index"`
	ApprovedBy      *string                 `gorm:"column:approved_by;type:uuid"`
	ApprovedAt      *time.Time              `gorm:"column:approved_at"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}
