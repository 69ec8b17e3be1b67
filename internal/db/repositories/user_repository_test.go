package repositories

import (
	"context"
	"testing"
	"time"

	"npu-collective/sabha/internal/constants"

	"github.com/google/uuid"
)

func TestUserRepository_FindUserById(t *testing.T) {
	db := setupReadDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	id := seedUserRow(t, db, "kavita@example.org", constants.RoleMember, constants.UserActive)

	user, err := repo.FindUserById(ctx, id)
	if err != nil {
		t.Fatalf("FindUserById failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected a user, got nil")
	}
	if user.Email != "kavita@example.org" {
		t.Errorf("expected kavita@example.org, got %s", user.Email)
	}
	if user.Role != constants.RoleMember {
		t.Errorf("expected member role, got %s", user.Role)
	}
	if user.Status != constants.UserActive {
		t.Errorf("expected active status, got %s", user.Status)
	}

	missing, err := repo.FindUserById(ctx, uuid.New().String())
	if err != nil {
		t.Fatalf("lookup of unknown id errored: %v", err)
	}
	if missing != nil {
		t.Error("unknown id should return nil, not a user")
	}
}

func TestUserRepository_FindUserByEmail(t *testing.T) {
	db := setupReadDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	id := seedUserRow(t, db, "suspended@example.org", constants.RoleMember, constants.UserSuspended)

	user, err := repo.FindUserByEmail(ctx, "suspended@example.org")
	if err != nil {
		t.Fatalf("FindUserByEmail failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected a user, got nil")
	}
	if user.ID != id {
		t.Errorf("expected id %s, got %s", id, user.ID)
	}
	if user.Status != constants.UserSuspended {
		t.Errorf("expected suspended status, got %s", user.Status)
	}

	missing, err := repo.FindUserByEmail(ctx, "nobody@example.org")
	if err != nil {
		t.Fatalf("lookup of unknown email errored: %v", err)
	}
	if missing != nil {
		t.Error("unknown email should return nil, not a user")
	}
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	db := setupReadDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	id := seedUserRow(t, db, "login@example.org", constants.RoleMember, constants.UserActive)

	before, err := repo.FindUserById(ctx, id)
	if err != nil {
		t.Fatalf("FindUserById failed: %v", err)
	}
	if before.LastLogin != nil {
		t.Fatal("fresh row should have no last_login")
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := repo.TouchLastLogin(ctx, id, at); err != nil {
		t.Fatalf("TouchLastLogin failed: %v", err)
	}

	after, err := repo.FindUserById(ctx, id)
	if err != nil {
		t.Fatalf("FindUserById failed: %v", err)
	}
	if after.LastLogin == nil {
		t.Fatal("last_login should be set after a touch")
	}
	if !after.LastLogin.Equal(at) {
		t.Errorf("expected last_login %v, got %v", at, after.LastLogin)
	}
	if !after.UpdatedAt.Equal(at) {
		t.Errorf("expected updated_at %v, got %v", at, after.UpdatedAt)
	}
}
