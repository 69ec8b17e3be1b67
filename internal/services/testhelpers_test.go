package services

import (
	"testing"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/constants"
	gormModels "npu-collective/sabha/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&gormModels.User{},
		&gormModels.FinanceRecord{},
		&gormModels.UserProfile{},
		&gormModels.ContentSection{},
		&gormModels.ContentPost{},
		&gormModels.AuditLogEntry{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, role constants.Role) *gormModels.User {
	user := gormModels.User{
		ID:     uuid.New().String(),
		Email:  uuid.New().String() + "@example.org",
		Name:   "Test " + role.String(),
		Role:   role,
		Status: constants.UserActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return &user
}

func principalFor(user *gormModels.User) auth.PrincipalClaims {
	return &auth.SessionClaims{
		UserIDValue: user.ID,
		EmailValue:  user.Email,
		RoleValue:   user.Role,
	}
}

func auditCount(t *testing.T, db *gorm.DB, resourceType, resourceID string) int64 {
	var count int64
	q := db.Model(&gormModels.AuditLogEntry{}).Where("resource_type = ?", resourceType)
	if resourceID != "" {
		q = q.Where("resource_id = ?", resourceID)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("Failed to count audit entries: %v", err)
	}
	return count
}
