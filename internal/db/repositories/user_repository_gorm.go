package repositories

import (
	"context"
	"errors"
	"time"

	"npu-collective/sabha/internal/constants"
	gormModels "npu-collective/sabha/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

func (r *UserRepositoryGORM) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryGORM) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser creates the local user row on first authentication. New
// accounts come in as pending members; role changes are a separate,
// guarded operation.
func (r *UserRepositoryGORM) EnsureUser(ctx context.Context, id, email, name string) (*gormModels.User, error) {
	var existing *gormModels.User
	var err error
	if id != "" {
		existing, err = r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	if existing == nil {
		// OTP logins carry no provider id; the email is the identity.
		existing, err = r.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		// The login stamp is the caller's job (TouchLastLogin on the
		// login path); bearer requests must not write on every hit.
		return existing, nil
	}

	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now()
	user := gormModels.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      constants.RoleMember,
		Status:    constants.UserPendingApproval,
		LastLogin: &now,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
