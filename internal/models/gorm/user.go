package gorm

import (
	"time"

	"npu-collective/sabha/internal/constants"
)

type User struct {
	ID            string               `gorm:"column:id;primaryKey;type:uuid"`
	Email         string               `gorm:"column:email;uniqueIndex;not null"`
	Name          string               `gorm:"column:name;not null"`
	Role          constants.Role       `gorm:"column:role;type:varchar(20);default:member"`
	Status        constants.UserStatus `gorm:"column:status;type:varchar(20);default:pending_approval"`
	EmailVerified bool                 `gorm:"column:email_verified;default:false"`
	PhoneNumber   *string              `gorm:"column:phone_number"`
	VillageName   *string              `gorm:"column:village_name"`
	LastLogin     *time.Time           `gorm:"column:last_login"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
