package services

import (
	"context"
	"testing"

	"npu-collective/sabha/internal/constants"
	gormModels "npu-collective/sabha/internal/models/gorm"
)

func TestNetworkingService_VisibleProfiles(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	alice := seedUser(t, db, constants.RoleMember)
	bob := seedUser(t, db, constants.RoleMember)
	carol := seedUser(t, db, constants.RoleMember)

	workflow := NewWorkflowService(db, NewAuditService())
	svc := NewNetworkingService(db)
	ctx := context.Background()

	// Alice hides her village; Bob leaves the map empty; Carol stays pending.
	aliceProfile, err := workflow.SubmitProfile(ctx, principalFor(alice), ProfileInput{
		FirstName:   "Alice",
		LastName:    "Iyer",
		VillageName: strPtr("Kolhapur"),
		Bio:         strPtr("weaver"),
		FieldVisibility: map[string]bool{
			"village_name": false,
			"bio":          true,
		},
	})
	if err != nil {
		t.Fatalf("SubmitProfile failed: %v", err)
	}
	bobProfile, err := workflow.SubmitProfile(ctx, principalFor(bob), ProfileInput{
		FirstName: "Bob", LastName: "Naik", VillageName: strPtr("Sangli"),
	})
	if err != nil {
		t.Fatalf("SubmitProfile failed: %v", err)
	}
	if _, err := workflow.SubmitProfile(ctx, principalFor(carol), ProfileInput{
		FirstName: "Carol", LastName: "Desai",
	}); err != nil {
		t.Fatalf("SubmitProfile failed: %v", err)
	}

	if _, err := workflow.ApproveProfile(ctx, principalFor(admin), aliceProfile.ID); err != nil {
		t.Fatalf("ApproveProfile failed: %v", err)
	}
	if _, err := workflow.ApproveProfile(ctx, principalFor(admin), bobProfile.ID); err != nil {
		t.Fatalf("ApproveProfile failed: %v", err)
	}

	visible, err := svc.VisibleProfiles(ctx)
	if err != nil {
		t.Fatalf("VisibleProfiles failed: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("only approved profiles should surface, got %d", len(visible))
	}

	byUser := map[string]map[string]interface{}{}
	for _, p := range visible {
		byUser[p.UserID] = p.Fields
	}
	if _, ok := byUser[carol.ID]; ok {
		t.Error("pending profile leaked into the directory")
	}

	aliceFields := byUser[alice.ID]
	if _, ok := aliceFields["village_name"]; ok {
		t.Error("hidden field must be omitted, not blanked")
	}
	if aliceFields["bio"] != "weaver" {
		t.Errorf("explicitly visible field missing: %v", aliceFields)
	}
	if aliceFields["first_name"] != "Alice" {
		t.Error("fields absent from the visibility map default to visible")
	}

	bobFields := byUser[bob.ID]
	if bobFields["village_name"] != "Sangli" {
		t.Error("empty visibility map means everything is visible")
	}
}

func TestNetworkingService_ApprovedThenResubmittedDisappears(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	member := seedUser(t, db, constants.RoleMember)

	workflow := NewWorkflowService(db, NewAuditService())
	svc := NewNetworkingService(db)
	ctx := context.Background()

	profile, err := workflow.SubmitProfile(ctx, principalFor(member), ProfileInput{FirstName: "Asha"})
	if err != nil {
		t.Fatalf("SubmitProfile failed: %v", err)
	}
	if _, err := workflow.ApproveProfile(ctx, principalFor(admin), profile.ID); err != nil {
		t.Fatalf("ApproveProfile failed: %v", err)
	}

	visible, err := svc.VisibleProfiles(ctx)
	if err != nil {
		t.Fatalf("VisibleProfiles failed: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible profile, got %d", len(visible))
	}

	// An edit puts the profile back in the queue and out of the directory.
	if _, err := workflow.SubmitProfile(ctx, principalFor(member), ProfileInput{
		FirstName: "Asha", Bio: strPtr("updated"),
	}); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	visible, err = svc.VisibleProfiles(ctx)
	if err != nil {
		t.Fatalf("VisibleProfiles failed: %v", err)
	}
	if len(visible) != 0 {
		t.Error("resubmitted profile must leave the directory until re-approved")
	}

	var reloaded gormModels.UserProfile
	if err := db.Where("id = ?", profile.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != constants.ProfilePending {
		t.Errorf("expected pending after resubmit, got %s", reloaded.Status)
	}
}
