package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/constants"
	gormModels "npu-collective/sabha/internal/models/gorm"
)

func TestWorkflowService_ProfileLifecycle(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	member := seedUser(t, db, constants.RoleMember)
	svc := NewWorkflowService(db, NewAuditService())
	ctx := context.Background()

	profile, err := svc.SubmitProfile(ctx, principalFor(member), ProfileInput{
		FirstName: "Asha", LastName: "Rao",
	})
	if err != nil {
		t.Fatalf("SubmitProfile failed: %v", err)
	}
	if profile.Status != constants.ProfilePending {
		t.Errorf("fresh submission should be pending, got %s", profile.Status)
	}

	approved, err := svc.ApproveProfile(ctx, principalFor(admin), profile.ID)
	if err != nil {
		t.Fatalf("ApproveProfile failed: %v", err)
	}
	if approved.Status != constants.ProfileApproved {
		t.Errorf("expected approved, got %s", approved.Status)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != admin.ID {
		t.Error("approval should record the approving admin")
	}
	if approved.ApprovedAt == nil {
		t.Error("approval should record the approval time")
	}

	// Re-approving an already approved profile is a no-op, not an error,
	// and must not add another audit entry.
	auditBefore := auditCount(t, db, constants.ResourceUserProfile, profile.ID)
	again, err := svc.ApproveProfile(ctx, principalFor(admin), profile.ID)
	if err != nil {
		t.Fatalf("re-approve should be a no-op, got %v", err)
	}
	if again.Status != constants.ProfileApproved {
		t.Errorf("re-approve changed status to %s", again.Status)
	}
	if got := auditCount(t, db, constants.ResourceUserProfile, profile.ID); got != auditBefore {
		t.Errorf("re-approve must not write an audit entry: %d -> %d", auditBefore, got)
	}

	// A self-edit after approval resubmits: back to pending, approver cleared.
	resubmitted, err := svc.SubmitProfile(ctx, principalFor(member), ProfileInput{
		FirstName: "Asha", LastName: "Rao", Bio: strPtr("moved to Pune"),
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if resubmitted.Status != constants.ProfilePending {
		t.Errorf("self-edit must reset to pending, got %s", resubmitted.Status)
	}
	if resubmitted.ApprovedBy != nil || resubmitted.ApprovedAt != nil {
		t.Error("self-edit must clear the approval stamp")
	}
	if resubmitted.ID != profile.ID {
		t.Error("resubmission should reuse the same profile row")
	}
}

func TestWorkflowService_ProfileRejection(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	member := seedUser(t, db, constants.RoleMember)
	svc := NewWorkflowService(db, NewAuditService())
	ctx := context.Background()

	profile, err := svc.SubmitProfile(ctx, principalFor(member), ProfileInput{FirstName: "Ravi"})
	if err != nil {
		t.Fatalf("SubmitProfile failed: %v", err)
	}

	rejected, err := svc.RejectProfile(ctx, principalFor(admin), profile.ID)
	if err != nil {
		t.Fatalf("RejectProfile failed: %v", err)
	}
	if rejected.Status != constants.ProfileRejected {
		t.Errorf("expected rejected, got %s", rejected.Status)
	}

	// Rejecting twice is an illegal transition, unlike re-approval.
	_, err = svc.RejectProfile(ctx, principalFor(admin), profile.ID)
	var illegalErr *apperrors.IllegalTransition
	if !errors.As(err, &illegalErr) {
		t.Fatalf("expected IllegalTransition on double reject, got %v", err)
	}

	// A rejected member can fix and resubmit.
	resubmitted, err := svc.SubmitProfile(ctx, principalFor(member), ProfileInput{FirstName: "Ravi", LastName: "Kumar"})
	if err != nil {
		t.Fatalf("resubmit after rejection failed: %v", err)
	}
	if resubmitted.Status != constants.ProfilePending {
		t.Errorf("resubmission should be pending, got %s", resubmitted.Status)
	}
}

func TestWorkflowService_ProfileAuthorization(t *testing.T) {
	db := setupTestDB(t)
	member := seedUser(t, db, constants.RoleMember)
	visitor := seedUser(t, db, constants.RoleVisitor)
	svc := NewWorkflowService(db, NewAuditService())
	ctx := context.Background()

	if _, err := svc.SubmitProfile(ctx, principalFor(visitor), ProfileInput{FirstName: "X"}); err == nil {
		t.Error("visitors cannot submit profiles")
	}

	profile, err := svc.SubmitProfile(ctx, principalFor(member), ProfileInput{FirstName: "Asha"})
	if err != nil {
		t.Fatalf("SubmitProfile failed: %v", err)
	}

	// Members cannot approve, not even their own.
	_, err = svc.ApproveProfile(ctx, principalFor(member), profile.ID)
	var authErr *apperrors.AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestWorkflowService_SectionUpsert(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	svc := NewWorkflowService(db, NewAuditService())
	ctx := context.Background()

	// A new slot cannot be born published.
	_, err := svc.UpsertSection(ctx, principalFor(admin), SectionInput{
		PageName: "home", SectionKey: "hero", Status: constants.ContentPublished,
	})
	var illegalErr *apperrors.IllegalTransition
	if !errors.As(err, &illegalErr) {
		t.Fatalf("expected IllegalTransition for new published slot, got %v", err)
	}

	section, err := svc.UpsertSection(ctx, principalFor(admin), SectionInput{
		PageName: "home", SectionKey: "hero", Title: strPtr("Welcome"),
	})
	if err != nil {
		t.Fatalf("UpsertSection failed: %v", err)
	}
	if section.Status != constants.ContentDraft {
		t.Errorf("new slot should be a draft, got %s", section.Status)
	}

	// Same (page, section_key) hits the same row.
	updated, err := svc.UpsertSection(ctx, principalFor(admin), SectionInput{
		PageName: "home", SectionKey: "hero", Title: strPtr("Welcome back"),
	})
	if err != nil {
		t.Fatalf("UpsertSection failed: %v", err)
	}
	if updated.ID != section.ID {
		t.Error("upsert for the same slot must reuse the row")
	}

	published, err := svc.PublishSection(ctx, principalFor(admin), section.ID)
	if err != nil {
		t.Fatalf("PublishSection failed: %v", err)
	}
	if published.Status != constants.ContentPublished {
		t.Errorf("expected published, got %s", published.Status)
	}

	// Editing a published slot drops it back to draft.
	edited, err := svc.UpsertSection(ctx, principalFor(admin), SectionInput{
		PageName: "home", SectionKey: "hero", Title: strPtr("Season greeting"),
	})
	if err != nil {
		t.Fatalf("edit of published slot failed: %v", err)
	}
	if edited.Status != constants.ContentDraft {
		t.Errorf("edit of published slot should reset to draft, got %s", edited.Status)
	}

	// Scheduling requires a future timestamp.
	past := time.Now().Add(-time.Hour)
	_, err = svc.UpsertSection(ctx, principalFor(admin), SectionInput{
		PageName: "home", SectionKey: "hero",
		Status: constants.ContentScheduled, ScheduledFor: &past,
	})
	var vErr *apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for past schedule, got %v", err)
	}
}

func TestWorkflowService_PostLifecycle(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	member := seedUser(t, db, constants.RoleMember)
	svc := NewWorkflowService(db, NewAuditService())
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, principalFor(member), PostInput{Title: "t", Content: "c"}); err == nil {
		t.Error("members cannot create posts")
	}

	post, err := svc.CreatePost(ctx, principalFor(admin), PostInput{
		Page: "news", Title: "Diwali drive", Content: "Details inside",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Status != constants.ContentDraft {
		t.Errorf("new post should be a draft, got %s", post.Status)
	}

	published, err := svc.PublishPost(ctx, principalFor(admin), post.ID)
	if err != nil {
		t.Fatalf("PublishPost failed: %v", err)
	}
	if published.Status != constants.ContentPublished || published.PublishedAt == nil {
		t.Error("publish should set status and published_at")
	}

	// Publishing again is illegal; the revision stays as-is.
	_, err = svc.PublishPost(ctx, principalFor(admin), post.ID)
	var illegalErr *apperrors.IllegalTransition
	if !errors.As(err, &illegalErr) {
		t.Fatalf("expected IllegalTransition on double publish, got %v", err)
	}

	// Editing a published post starts a fresh draft cycle.
	edited, err := svc.UpdatePost(ctx, principalFor(admin), post.ID, PostInput{
		Page: "news", Title: "Diwali drive (updated)", Content: "New details",
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if edited.Status != constants.ContentDraft {
		t.Errorf("edit of published post should reset to draft, got %s", edited.Status)
	}
	if edited.PublishedAt != nil {
		t.Error("edit of published post should clear published_at")
	}
}

func TestWorkflowService_SchedulePost(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	svc := NewWorkflowService(db, NewAuditService())
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, principalFor(admin), PostInput{
		Page: "news", Title: "AGM notice", Content: "Annual general meeting",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	_, err = svc.SchedulePost(ctx, principalFor(admin), post.ID, time.Now().Add(-time.Minute))
	var vErr *apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for past schedule, got %v", err)
	}

	at := time.Now().Add(time.Hour)
	scheduled, err := svc.SchedulePost(ctx, principalFor(admin), post.ID, at)
	if err != nil {
		t.Fatalf("SchedulePost failed: %v", err)
	}
	if scheduled.Status != constants.ContentScheduled {
		t.Errorf("expected scheduled, got %s", scheduled.Status)
	}
	if scheduled.ScheduledFor == nil {
		t.Error("scheduled post should carry its timestamp")
	}
}

func TestWorkflowService_PublishDueScheduled(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, constants.RoleAdmin)
	svc := NewWorkflowService(db, NewAuditService())
	ctx := context.Background()

	duePost, err := svc.CreatePost(ctx, principalFor(admin), PostInput{
		Page: "news", Title: "Due", Content: "should go out",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	futurePost, err := svc.CreatePost(ctx, principalFor(admin), PostInput{
		Page: "news", Title: "Future", Content: "not yet",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	soon := time.Now().Add(time.Minute)
	later := time.Now().Add(48 * time.Hour)
	if _, err := svc.SchedulePost(ctx, principalFor(admin), duePost.ID, soon); err != nil {
		t.Fatalf("SchedulePost failed: %v", err)
	}
	if _, err := svc.SchedulePost(ctx, principalFor(admin), futurePost.ID, later); err != nil {
		t.Fatalf("SchedulePost failed: %v", err)
	}

	dueSection, err := svc.UpsertSection(ctx, principalFor(admin), SectionInput{
		PageName: "home", SectionKey: "banner",
		Status: constants.ContentScheduled, ScheduledFor: &soon,
	})
	if err != nil {
		t.Fatalf("UpsertSection failed: %v", err)
	}

	// Run the sweep as if the near deadline has passed.
	now := time.Now().Add(2 * time.Minute)
	published, err := svc.PublishDueScheduled(ctx, now)
	if err != nil {
		t.Fatalf("PublishDueScheduled failed: %v", err)
	}
	if published != 2 {
		t.Errorf("expected 2 items published (post + section), got %d", published)
	}

	var post gormModels.ContentPost
	if err := db.Where("id = ?", duePost.ID).First(&post).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if post.Status != constants.ContentPublished || post.PublishedAt == nil {
		t.Error("due post should be published with published_at set")
	}

	var section gormModels.ContentSection
	if err := db.Where("id = ?", dueSection.ID).First(&section).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if section.Status != constants.ContentPublished {
		t.Error("due section should be published")
	}

	var future gormModels.ContentPost
	if err := db.Where("id = ?", futurePost.ID).First(&future).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if future.Status != constants.ContentScheduled {
		t.Error("not-yet-due post must stay scheduled")
	}

	// A second sweep at the same instant finds nothing: exactly-once.
	again, err := svc.PublishDueScheduled(ctx, now)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if again != 0 {
		t.Errorf("second sweep should publish nothing, got %d", again)
	}

	// The sweep audits as the system: no actor on the entry.
	var entry gormModels.AuditLogEntry
	err = db.Where("resource_id = ? AND action_type = ?", duePost.ID, constants.ActionContentPublished).
		First(&entry).Error
	if err != nil {
		t.Fatalf("publish audit entry not found: %v", err)
	}
	if entry.ActorUserID != nil {
		t.Error("scheduler publishes should have no actor")
	}
}

func strPtr(s string) *string { return &s }
