package services

import (
	"context"
	"errors"
	"time"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/authz"
	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/logging"
	gormModels "npu-collective/sabha/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowService runs the approval state machines: member profiles
// (pending -> approved/rejected, with resubmission) and content
// (draft -> published/scheduled). Transitions outside the tables fail
// with IllegalTransition and leave the entity untouched.
type WorkflowService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewWorkflowService(db *gorm.DB, audit *AuditService) *WorkflowService {
	return &WorkflowService{db: db, audit: audit}
}

// ProfileInput is the owner-supplied profile content.
type ProfileInput struct {
	FirstName       string
	LastName        string
	VillageName     *string
	CurrentLocation *string
	Bio             *string
	FieldVisibility map[string]bool
}

// contentTransitions is the closed table for sections and posts.
// published has no outgoing edges: edits start a fresh draft cycle.
var contentTransitions = map[constants.ContentStatus][]constants.ContentStatus{
	constants.ContentDraft:     {constants.ContentPublished, constants.ContentScheduled},
	constants.ContentScheduled: {constants.ContentPublished},
}

func contentTransitionAllowed(from, to constants.ContentStatus) bool {
	for _, next := range contentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

/* ---------- profiles ---------- */

// SubmitProfile creates or updates the caller's own profile. Any self-edit
// lands the profile back in the approval queue, even if it was approved
// before — resubmission, never a silent stay-approved.
func (s *WorkflowService) SubmitProfile(ctx context.Context, principal auth.PrincipalClaims, input ProfileInput) (*gormModels.UserProfile, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionProfileSubmit, authz.Target{OwnerID: actor.UserID}); err != nil {
		return nil, err
	}
	if input.FirstName == "" && input.LastName == "" {
		return nil, apperrors.NewValidation("first_name", "a name is required")
	}

	visibility := gormModels.JSONMap{}
	for field, visible := range input.FieldVisibility {
		visibility[field] = visible
	}

	var result gormModels.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing gormModels.UserProfile
		err := tx.Where("user_id = ?", actor.UserID).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile := gormModels.UserProfile{
				ID:              uuid.New().String(),
				UserID:          actor.UserID,
				FirstName:       input.FirstName,
				LastName:        input.LastName,
				VillageName:     input.VillageName,
				CurrentLocation: input.CurrentLocation,
				Bio:             input.Bio,
				FieldVisibility: visibility,
				Status:          constants.ProfilePending,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return apperrors.WrapStorage("workflow.profile_submit", err)
			}
			result = profile
			return s.audit.Record(tx, &actor.UserID,
				constants.ActionProfileSubmitted, constants.ResourceUserProfile,
				&profile.ID, ChangeDetails(nil, profile))

		case err != nil:
			return apperrors.WrapStorage("workflow.profile_submit", err)

		default:
			before := existing
			existing.FirstName = input.FirstName
			existing.LastName = input.LastName
			existing.VillageName = input.VillageName
			existing.CurrentLocation = input.CurrentLocation
			existing.Bio = input.Bio
			if len(visibility) > 0 {
				existing.FieldVisibility = visibility
			}
			existing.Status = constants.ProfilePending
			existing.ApprovedBy = nil
			existing.ApprovedAt = nil

			if err := tx.Save(&existing).Error; err != nil {
				return apperrors.WrapStorage("workflow.profile_submit", err)
			}
			result = existing
			return s.audit.Record(tx, &actor.UserID,
				constants.ActionProfileSubmitted, constants.ResourceUserProfile,
				&existing.ID, ChangeDetails(before, existing))
		}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ApproveProfile moves pending -> approved. Approving an already-approved
// profile is a no-op, not an error.
func (s *WorkflowService) ApproveProfile(ctx context.Context, principal auth.PrincipalClaims, profileID string) (*gormModels.UserProfile, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionProfileApprove, authz.Target{}); err != nil {
		return nil, err
	}

	var result gormModels.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.loadProfile(tx, profileID)
		if err != nil {
			return err
		}

		if profile.Status == constants.ProfileApproved {
			result = *profile
			return nil
		}
		if profile.Status != constants.ProfilePending {
			return apperrors.NewIllegalTransition("user_profile",
				profile.Status.String(), constants.ProfileApproved.String())
		}

		before := *profile
		now := time.Now()
		profile.Status = constants.ProfileApproved
		profile.ApprovedBy = &actor.UserID
		profile.ApprovedAt = &now

		if err := tx.Save(profile).Error; err != nil {
			return apperrors.WrapStorage("workflow.profile_approve", err)
		}
		result = *profile
		return s.audit.Record(tx, &actor.UserID,
			constants.ActionProfileApproved, constants.ResourceUserProfile,
			&profile.ID, ChangeDetails(before, *profile))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RejectProfile moves pending -> rejected. Rejected is terminal for staff;
// the owner reopens it by resubmitting.
func (s *WorkflowService) RejectProfile(ctx context.Context, principal auth.PrincipalClaims, profileID string) (*gormModels.UserProfile, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionProfileReject, authz.Target{}); err != nil {
		return nil, err
	}

	var result gormModels.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.loadProfile(tx, profileID)
		if err != nil {
			return err
		}

		if profile.Status != constants.ProfilePending {
			return apperrors.NewIllegalTransition("user_profile",
				profile.Status.String(), constants.ProfileRejected.String())
		}

		before := *profile
		profile.Status = constants.ProfileRejected
		profile.ApprovedBy = nil
		profile.ApprovedAt = nil

		if err := tx.Save(profile).Error; err != nil {
			return apperrors.WrapStorage("workflow.profile_reject", err)
		}
		result = *profile
		return s.audit.Record(tx, &actor.UserID,
			constants.ActionProfileRejected, constants.ResourceUserProfile,
			&profile.ID, ChangeDetails(before, *profile))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *WorkflowService) loadProfile(tx *gorm.DB, id string) (*gormModels.UserProfile, error) {
	var profile gormModels.UserProfile
	if err := tx.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("id", "profile not found")
		}
		return nil, apperrors.WrapStorage("workflow.profile_load", err)
	}
	return &profile, nil
}

/* ---------- content sections ---------- */

// SectionInput is the staff-supplied section content.
type SectionInput struct {
	PageName     string
	SectionKey   string
	Title        *string
	Content      *string
	MediaURLs    map[string]interface{}
	Status       constants.ContentStatus
	ScheduledFor *time.Time
}

// UpsertSection creates or overwrites the slot for (page_name,
// section_key). Editing a published slot drops it back to draft; the
// published revision is only replaced by an explicit publish.
func (s *WorkflowService) UpsertSection(ctx context.Context, principal auth.PrincipalClaims, input SectionInput) (*gormModels.ContentSection, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionContentUpdate, authz.Target{}); err != nil {
		return nil, err
	}
	if input.PageName == "" || input.SectionKey == "" {
		return nil, apperrors.NewValidation("section_key", "page_name and section_key are required")
	}

	targetStatus := input.Status
	if targetStatus == "" {
		targetStatus = constants.ContentDraft
	}
	switch targetStatus {
	case constants.ContentDraft, constants.ContentScheduled, constants.ContentPublished:
	default:
		return nil, apperrors.NewValidation("status", "unknown content status "+targetStatus.String())
	}
	if targetStatus == constants.ContentScheduled {
		if input.ScheduledFor == nil || !input.ScheduledFor.After(time.Now()) {
			return nil, apperrors.NewValidation("scheduled_for", "scheduled_for must be in the future")
		}
	}

	media := gormModels.JSONMap(input.MediaURLs)

	var result gormModels.ContentSection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing gormModels.ContentSection
		err := tx.Where("page_name = ? AND section_key = ?", input.PageName, input.SectionKey).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if targetStatus == constants.ContentPublished {
				// New slots start as drafts; publish is its own transition.
				return apperrors.NewIllegalTransition("content_section",
					"", constants.ContentPublished.String())
			}
			section := gormModels.ContentSection{
				ID:           uuid.New().String(),
				PageName:     input.PageName,
				SectionKey:   input.SectionKey,
				Title:        input.Title,
				Content:      input.Content,
				MediaURLs:    media,
				Status:       targetStatus,
				ScheduledFor: input.ScheduledFor,
				CreatedBy:    &actor.UserID,
				UpdatedBy:    &actor.UserID,
			}
			if err := tx.Create(&section).Error; err != nil {
				return apperrors.WrapStorage("workflow.section_upsert", err)
			}
			result = section
			return s.audit.Record(tx, &actor.UserID,
				constants.ActionContentCreated, constants.ResourceContentSection,
				&section.ID, ChangeDetails(nil, section))

		case err != nil:
			return apperrors.WrapStorage("workflow.section_upsert", err)

		default:
			before := existing
			existing.Title = input.Title
			existing.Content = input.Content
			existing.MediaURLs = media
			existing.UpdatedBy = &actor.UserID

			switch targetStatus {
			case constants.ContentDraft:
				existing.Status = constants.ContentDraft
				existing.ScheduledFor = nil
			case constants.ContentScheduled:
				if existing.Status == constants.ContentPublished {
					// Published content re-enters the cycle as a draft
					// first; schedule from there.
					return apperrors.NewIllegalTransition("content_section",
						existing.Status.String(), targetStatus.String())
				}
				existing.Status = constants.ContentScheduled
				existing.ScheduledFor = input.ScheduledFor
			case constants.ContentPublished:
				if !contentTransitionAllowed(existing.Status, constants.ContentPublished) {
					return apperrors.NewIllegalTransition("content_section",
						existing.Status.String(), targetStatus.String())
				}
				existing.Status = constants.ContentPublished
				existing.ScheduledFor = nil
			}

			if err := tx.Save(&existing).Error; err != nil {
				return apperrors.WrapStorage("workflow.section_upsert", err)
			}
			result = existing
			return s.audit.Record(tx, &actor.UserID,
				constants.ActionContentUpdated, constants.ResourceContentSection,
				&existing.ID, ChangeDetails(before, existing))
		}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PublishSection publishes the slot now, regardless of schedule.
func (s *WorkflowService) PublishSection(ctx context.Context, principal auth.PrincipalClaims, id string) (*gormModels.ContentSection, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionContentPublish, authz.Target{}); err != nil {
		return nil, err
	}

	var result gormModels.ContentSection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section gormModels.ContentSection
		if err := tx.Where("id = ?", id).First(&section).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewValidation("id", "content section not found")
			}
			return apperrors.WrapStorage("workflow.section_publish", err)
		}

		if !contentTransitionAllowed(section.Status, constants.ContentPublished) {
			return apperrors.NewIllegalTransition("content_section",
				section.Status.String(), constants.ContentPublished.String())
		}

		before := section
		section.Status = constants.ContentPublished
		section.ScheduledFor = nil
		section.UpdatedBy = &actor.UserID

		if err := tx.Save(&section).Error; err != nil {
			return apperrors.WrapStorage("workflow.section_publish", err)
		}
		result = section
		return s.audit.Record(tx, &actor.UserID,
			constants.ActionContentPublished, constants.ResourceContentSection,
			&section.ID, ChangeDetails(before, section))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

/* ---------- content posts ---------- */

// PostInput is the staff-supplied article content.
type PostInput struct {
	Page     string
	Title    string
	Slug     *string
	Content  string
	Category *string
	ImageURL *string
}

func (s *WorkflowService) CreatePost(ctx context.Context, principal auth.PrincipalClaims, input PostInput) (*gormModels.ContentPost, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionContentCreate, authz.Target{}); err != nil {
		return nil, err
	}
	if input.Title == "" || input.Content == "" {
		return nil, apperrors.NewValidation("title", "title and content are required")
	}

	post := gormModels.ContentPost{
		ID:       uuid.New().String(),
		Page:     input.Page,
		Title:    input.Title,
		Slug:     input.Slug,
		Content:  input.Content,
		Category: input.Category,
		ImageURL: input.ImageURL,
		Status:   constants.ContentDraft,
		AuthorID: actor.UserID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return apperrors.WrapStorage("workflow.post_create", err)
		}
		return s.audit.Record(tx, &actor.UserID,
			constants.ActionContentCreated, constants.ResourceContentPost,
			&post.ID, ChangeDetails(nil, post))
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost edits an article. Editing a published post starts a new
// draft cycle instead of mutating the published revision in place.
func (s *WorkflowService) UpdatePost(ctx context.Context, principal auth.PrincipalClaims, id string, input PostInput) (*gormModels.ContentPost, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionContentUpdate, authz.Target{}); err != nil {
		return nil, err
	}

	var result gormModels.ContentPost
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.loadPost(tx, id)
		if err != nil {
			return err
		}

		before := *post
		if input.Title != "" {
			post.Title = input.Title
		}
		if input.Content != "" {
			post.Content = input.Content
		}
		if input.Category != nil {
			post.Category = input.Category
		}
		if input.ImageURL != nil {
			post.ImageURL = input.ImageURL
		}
		if post.Status == constants.ContentPublished {
			post.Status = constants.ContentDraft
			post.PublishedAt = nil
		}
		post.UpdatedBy = &actor.UserID

		if err := tx.Save(post).Error; err != nil {
			return apperrors.WrapStorage("workflow.post_update", err)
		}
		result = *post
		return s.audit.Record(tx, &actor.UserID,
			constants.ActionContentUpdated, constants.ResourceContentPost,
			&post.ID, ChangeDetails(before, *post))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SchedulePost moves draft -> scheduled for a future timestamp.
func (s *WorkflowService) SchedulePost(ctx context.Context, principal auth.PrincipalClaims, id string, at time.Time) (*gormModels.ContentPost, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionContentPublish, authz.Target{}); err != nil {
		return nil, err
	}
	if !at.After(time.Now()) {
		return nil, apperrors.NewValidation("scheduled_for", "scheduled_for must be in the future")
	}

	var result gormModels.ContentPost
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.loadPost(tx, id)
		if err != nil {
			return err
		}

		if !contentTransitionAllowed(post.Status, constants.ContentScheduled) {
			return apperrors.NewIllegalTransition("content_post",
				post.Status.String(), constants.ContentScheduled.String())
		}

		before := *post
		post.Status = constants.ContentScheduled
		post.ScheduledFor = &at
		post.UpdatedBy = &actor.UserID

		if err := tx.Save(post).Error; err != nil {
			return apperrors.WrapStorage("workflow.post_schedule", err)
		}
		result = *post
		return s.audit.Record(tx, &actor.UserID,
			constants.ActionContentScheduled, constants.ResourceContentPost,
			&post.ID, ChangeDetails(before, *post))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PublishPost publishes the article now.
func (s *WorkflowService) PublishPost(ctx context.Context, principal auth.PrincipalClaims, id string) (*gormModels.ContentPost, error) {
	actor := actorOf(principal)
	if err := authz.Check(actor, authz.ActionContentPublish, authz.Target{}); err != nil {
		return nil, err
	}

	var result gormModels.ContentPost
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.loadPost(tx, id)
		if err != nil {
			return err
		}
		published, err := s.publishPostTx(tx, post, &actor.UserID)
		if err != nil {
			return err
		}
		result = *published
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *WorkflowService) publishPostTx(tx *gorm.DB, post *gormModels.ContentPost, actorID *string) (*gormModels.ContentPost, error) {
	if !contentTransitionAllowed(post.Status, constants.ContentPublished) {
		return nil, apperrors.NewIllegalTransition("content_post",
			post.Status.String(), constants.ContentPublished.String())
	}

	before := *post
	now := time.Now()
	post.Status = constants.ContentPublished
	post.ScheduledFor = nil
	post.PublishedAt = &now
	post.UpdatedBy = actorID

	if err := tx.Save(post).Error; err != nil {
		return nil, apperrors.WrapStorage("workflow.post_publish", err)
	}
	if err := s.audit.Record(tx, actorID,
		constants.ActionContentPublished, constants.ResourceContentPost,
		&post.ID, ChangeDetails(before, *post)); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *WorkflowService) loadPost(tx *gorm.DB, id string) (*gormModels.ContentPost, error) {
	var post gormModels.ContentPost
	if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("id", "content post not found")
		}
		return nil, apperrors.WrapStorage("workflow.post_load", err)
	}
	return &post, nil
}

/* ---------- scheduled publishing ---------- */

// PublishDueScheduled publishes every scheduled section and post whose
// time has come. Safe to call from every scheduler tick: a published row
// leaves the scheduled state, so reruns find nothing to do.
func (s *WorkflowService) PublishDueScheduled(ctx context.Context, now time.Time) (int, error) {
	published := 0

	var sections []gormModels.ContentSection
	err := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?",
			constants.ContentScheduled, now).
		Find(&sections).Error
	if err != nil {
		return 0, apperrors.WrapStorage("workflow.publish_due", err)
	}

	for i := range sections {
		section := sections[i]
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Re-check under the transaction; another tick may have won.
			var current gormModels.ContentSection
			if err := tx.Where("id = ? AND status = ?", section.ID, constants.ContentScheduled).
				First(&current).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return apperrors.WrapStorage("workflow.publish_due", err)
			}

			before := current
			current.Status = constants.ContentPublished
			current.ScheduledFor = nil
			if err := tx.Save(&current).Error; err != nil {
				return apperrors.WrapStorage("workflow.publish_due", err)
			}
			published++
			return s.audit.Record(tx, nil,
				constants.ActionContentPublished, constants.ResourceContentSection,
				&current.ID, ChangeDetails(before, current))
		})
		if err != nil {
			logging.Error("Scheduled section publish failed",
				"section_id", section.ID, "error", err.Error())
		}
	}

	var posts []gormModels.ContentPost
	err = s.db.WithContext(ctx).
		Where("status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?",
			constants.ContentScheduled, now).
		Find(&posts).Error
	if err != nil {
		return published, apperrors.WrapStorage("workflow.publish_due", err)
	}

	for i := range posts {
		post := posts[i]
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var current gormModels.ContentPost
			if err := tx.Where("id = ? AND status = ?", post.ID, constants.ContentScheduled).
				First(&current).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return apperrors.WrapStorage("workflow.publish_due", err)
			}

			if _, err := s.publishPostTx(tx, &current, nil); err != nil {
				return err
			}
			published++
			return nil
		})
		if err != nil {
			logging.Error("Scheduled post publish failed",
				"post_id", post.ID, "error", err.Error())
		}
	}

	return published, nil
}

/* ---------- reads ---------- */

func (s *WorkflowService) GetProfileByUser(ctx context.Context, userID string) (*gormModels.UserProfile, error) {
	var profile gormModels.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.WrapStorage("workflow.profile_get", err)
	}
	return &profile, nil
}

func (s *WorkflowService) ListPendingProfiles(ctx context.Context) ([]gormModels.UserProfile, error) {
	var profiles []gormModels.UserProfile
	err := s.db.WithContext(ctx).
		Where("status = ?", constants.ProfilePending).
		Order("updated_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, apperrors.WrapStorage("workflow.profile_list", err)
	}
	return profiles, nil
}

func (s *WorkflowService) ListSections(ctx context.Context, pageName string) ([]gormModels.ContentSection, error) {
	q := s.db.WithContext(ctx).Model(&gormModels.ContentSection{}).Order("page_name, section_key")
	if pageName != "" {
		q = q.Where("page_name = ?", pageName)
	}
	var sections []gormModels.ContentSection
	if err := q.Find(&sections).Error; err != nil {
		return nil, apperrors.WrapStorage("workflow.section_list", err)
	}
	return sections, nil
}

func (s *WorkflowService) ListPosts(ctx context.Context, page string, publishedOnly bool) ([]gormModels.ContentPost, error) {
	q := s.db.WithContext(ctx).Model(&gormModels.ContentPost{}).Order("created_at DESC")
	if page != "" {
		q = q.Where("page = ?", page)
	}
	if publishedOnly {
		q = q.Where("status = ?", constants.ContentPublished)
	}
	var posts []gormModels.ContentPost
	if err := q.Find(&posts).Error; err != nil {
		return nil, apperrors.WrapStorage("workflow.post_list", err)
	}
	return posts, nil
}
