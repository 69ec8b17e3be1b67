package services

import (
	"context"
	"errors"
	"strings"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/authz"
	"npu-collective/sabha/internal/constants"
	gormModels "npu-collective/sabha/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserMgmtService handles admin-side account operations. Accounts are
// never hard-deleted; suspension is the terminal removal state.
type UserMgmtService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewUserMgmtService(db *gorm.DB, audit *AuditService) *UserMgmtService {
	return &UserMgmtService{db: db, audit: audit}
}

// CreateUserInput is admin provisioning of an account ahead of first
// sign-in.
type CreateUserInput struct {
	Email       string
	Name        string
	Role        constants.Role
	PhoneNumber *string
	VillageName *string
}

func (s *UserMgmtService) CreateUser(ctx context.Context, principal auth.PrincipalClaims, input CreateUserInput) (*gormModels.User, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionUserCreate, authz.Target{}); err != nil {
		return nil, err
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, apperrors.NewValidation("email", "a valid email is required")
	}
	if input.Name == "" {
		return nil, apperrors.NewValidation("name", "name is required")
	}
	if input.Role == "" {
		input.Role = constants.RoleMember
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidation("role", "unknown role "+input.Role.String())
	}

	user := gormModels.User{
		ID:          uuid.New().String(),
		Email:       input.Email,
		Name:        input.Name,
		Role:        input.Role,
		Status:      constants.UserActive,
		PhoneNumber: input.PhoneNumber,
		VillageName: input.VillageName,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing gormModels.User
		err := tx.Where("email = ?", input.Email).First(&existing).Error
		if err == nil {
			return apperrors.NewValidation("email", "email already registered")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapStorage("users.create", err)
		}

		if err := tx.Create(&user).Error; err != nil {
			return apperrors.WrapStorage("users.create", err)
		}
		return s.audit.Record(tx, &actor.UserID,
			constants.ActionUserCreated, constants.ResourceUser,
			&user.ID, ChangeDetails(nil, user))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserMgmtService) UpdateRole(ctx context.Context, principal auth.PrincipalClaims, userID string, newRole constants.Role) (*gormModels.User, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionUserRoleChange, authz.Target{OwnerID: userID, NewRole: newRole}); err != nil {
		return nil, err
	}
	if !newRole.Valid() {
		return nil, apperrors.NewValidation("new_role", "unknown role "+newRole.String())
	}

	var updated gormModels.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.loadUser(tx, userID)
		if err != nil {
			return err
		}
		if user.Role == newRole {
			updated = *user
			return nil
		}

		before := *user
		user.Role = newRole
		if err := tx.Save(user).Error; err != nil {
			return apperrors.WrapStorage("users.update_role", err)
		}

		details := ChangeDetails(before, *user)
		details["new_role"] = newRole.String()
		updated = *user
		return s.audit.Record(tx, &actor.UserID,
			constants.ActionRoleUpdated, constants.ResourceUser,
			&user.ID, details)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *UserMgmtService) UpdateStatus(ctx context.Context, principal auth.PrincipalClaims, userID string, newStatus constants.UserStatus) (*gormModels.User, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionUserStatusChange, authz.Target{OwnerID: userID}); err != nil {
		return nil, err
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidation("new_status", "unknown status "+newStatus.String())
	}

	var updated gormModels.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.loadUser(tx, userID)
		if err != nil {
			return err
		}
		if user.Status == constants.UserSuspended {
			// Suspension is terminal.
			return apperrors.NewIllegalTransition("user_status",
				user.Status.String(), newStatus.String())
		}
		if user.Status == newStatus {
			updated = *user
			return nil
		}

		before := *user
		user.Status = newStatus
		if err := tx.Save(user).Error; err != nil {
			return apperrors.WrapStorage("users.update_status", err)
		}

		action := constants.ActionUserUpdated
		if newStatus == constants.UserSuspended {
			action = constants.ActionUserSuspended
		}
		updated = *user
		return s.audit.Record(tx, &actor.UserID,
			action, constants.ResourceUser,
			&user.ID, ChangeDetails(before, *user))
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SuspendUser is the removal path: the account stays on record, locked out.
func (s *UserMgmtService) SuspendUser(ctx context.Context, principal auth.PrincipalClaims, userID string) (*gormModels.User, error) {
	return s.UpdateStatus(ctx, principal, userID, constants.UserSuspended)
}

func (s *UserMgmtService) GetUser(ctx context.Context, userID string) (*gormModels.User, error) {
	var user gormModels.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("id", "user not found")
		}
		return nil, apperrors.WrapStorage("users.get", err)
	}
	return &user, nil
}

func (s *UserMgmtService) ListUsers(ctx context.Context) ([]gormModels.User, error) {
	var users []gormModels.User
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	if err != nil {
		return nil, apperrors.WrapStorage("users.list", err)
	}
	return users, nil
}

func (s *UserMgmtService) loadUser(tx *gorm.DB, id string) (*gormModels.User, error) {
	var user gormModels.User
	if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("id", "user not found")
		}
		return nil, apperrors.WrapStorage("users.load", err)
	}
	return &user, nil
}
