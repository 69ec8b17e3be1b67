package services

import (
	"context"
	"errors"
	"testing"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/constants"
	gormModels "npu-collective/sabha/internal/models/gorm"
)

func TestUserMgmtService_CreateUser(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	svc := NewUserMgmtService(db, NewAuditService())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, principalFor(admin), CreateUserInput{
		Email: "  Asha.Rao@Example.ORG ", Name: "Asha Rao",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Email != "asha.rao@example.org" {
		t.Errorf("email should be normalized, got %s", user.Email)
	}
	if user.Role != constants.RoleMember {
		t.Errorf("default role should be member, got %s", user.Role)
	}
	if user.Status != constants.UserActive {
		t.Errorf("created users start active, got %s", user.Status)
	}

	// The normalized email collides with the existing row.
	_, err = svc.CreateUser(ctx, principalFor(admin), CreateUserInput{
		Email: "ASHA.RAO@example.org", Name: "Duplicate",
	})
	var vErr *apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for duplicate email, got %v", err)
	}

	if got := auditCount(t, db, constants.ResourceUser, user.ID); got != 1 {
		t.Errorf("expected 1 audit entry for the created user, got %d", got)
	}
}

func TestUserMgmtService_UpdateRole(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	super := seedUser(t, db, constants.RoleSuperUser)
	member := seedUser(t, db, constants.RoleMember)
	svc := NewUserMgmtService(db, NewAuditService())
	ctx := context.Background()

	promoted, err := svc.UpdateRole(ctx, principalFor(admin), member.ID, constants.RoleSuperUser)
	if err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	if promoted.Role != constants.RoleSuperUser {
		t.Errorf("expected super_user, got %s", promoted.Role)
	}

	// Same role again is a no-op without a fresh audit entry.
	auditBefore := auditCount(t, db, constants.ResourceUser, member.ID)
	if _, err := svc.UpdateRole(ctx, principalFor(admin), member.ID, constants.RoleSuperUser); err != nil {
		t.Fatalf("no-op role update failed: %v", err)
	}
	if got := auditCount(t, db, constants.ResourceUser, member.ID); got != auditBefore {
		t.Error("no-op role update must not write an audit entry")
	}

	// A super_user may manage roles but never grant admin.
	_, err = svc.UpdateRole(ctx, principalFor(super), member.ID, constants.RoleAdmin)
	var authErr *apperrors.AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	if authErr.Reason != apperrors.ReasonSelfElevationForbidden {
		t.Errorf("expected self_elevation_forbidden, got %s", authErr.Reason)
	}

	if _, err := svc.UpdateRole(ctx, principalFor(super), member.ID, constants.RoleMember); err != nil {
		t.Errorf("super_user should manage non-admin roles: %v", err)
	}

	// Promoting to admin is an admin-only move.
	if _, err := svc.UpdateRole(ctx, principalFor(admin), member.ID, constants.RoleAdmin); err != nil {
		t.Errorf("admin should grant admin: %v", err)
	}

	var entry gormModels.AuditLogEntry
	err = db.Where("resource_id = ? AND action_type = ?", member.ID, constants.ActionRoleUpdated).
		Order("seq DESC").First(&entry).Error
	if err != nil {
		t.Fatalf("role audit entry not found: %v", err)
	}
	if entry.Details["new_role"] != constants.RoleAdmin.String() {
		t.Errorf("audit entry should record the new role, got %v", entry.Details["new_role"])
	}
}

func TestUserMgmtService_SuspensionIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	member := seedUser(t, db, constants.RoleMember)
	svc := NewUserMgmtService(db, NewAuditService())
	ctx := context.Background()

	suspended, err := svc.SuspendUser(ctx, principalFor(admin), member.ID)
	if err != nil {
		t.Fatalf("SuspendUser failed: %v", err)
	}
	if suspended.Status != constants.UserSuspended {
		t.Errorf("expected suspended, got %s", suspended.Status)
	}

	var entry gormModels.AuditLogEntry
	err = db.Where("resource_id = ? AND action_type = ?", member.ID, constants.ActionUserSuspended).
		First(&entry).Error
	if err != nil {
		t.Fatalf("suspension audit entry not found: %v", err)
	}

	// No way back out of suspended.
	for _, status := range []constants.UserStatus{constants.UserActive, constants.UserPendingApproval} {
		_, err := svc.UpdateStatus(ctx, principalFor(admin), member.ID, status)
		var illegalErr *apperrors.IllegalTransition
		if !errors.As(err, &illegalErr) {
			t.Errorf("suspended -> %s should be IllegalTransition, got %v", status, err)
		}
	}
}

func TestUserMgmtService_SuperUserManagesStatus(t *testing.T) {
	db := setupTestDB(t)
	super := seedUser(t, db, constants.RoleSuperUser)
	member := seedUser(t, db, constants.RoleMember)
	svc := NewUserMgmtService(db, NewAuditService())
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, principalFor(super), member.ID, constants.UserInactive)
	if err != nil {
		t.Fatalf("super_user status change failed: %v", err)
	}
	if updated.Status != constants.UserInactive {
		t.Errorf("expected inactive, got %s", updated.Status)
	}

	suspended, err := svc.SuspendUser(ctx, principalFor(super), member.ID)
	if err != nil {
		t.Fatalf("super_user suspend failed: %v", err)
	}
	if suspended.Status != constants.UserSuspended {
		t.Errorf("expected suspended, got %s", suspended.Status)
	}
}

func TestUserMgmtService_MemberDenied(t *testing.T) {
	db := setupTestDB(t)
	member := seedUser(t, db, constants.RoleMember)
	other := seedUser(t, db, constants.RoleMember)
	svc := NewUserMgmtService(db, NewAuditService())
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, principalFor(member), CreateUserInput{Email: "x@y.org", Name: "X"}); err == nil {
		t.Error("members cannot create users")
	}
	if _, err := svc.UpdateRole(ctx, principalFor(member), other.ID, constants.RoleSuperUser); err == nil {
		t.Error("members cannot change roles")
	}
	if _, err := svc.SuspendUser(ctx, principalFor(member), other.ID); err == nil {
		t.Error("members cannot suspend users")
	}
}
