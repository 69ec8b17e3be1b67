package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/common"
	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/models/dtos/requests"
	"npu-collective/sabha/internal/models/dtos/responses"
	gormModels "npu-collective/sabha/internal/models/gorm"
	"npu-collective/sabha/internal/services"
)

const publicContentCacheTTL = 60 * time.Second

func toSectionResponse(section *gormModels.ContentSection) *responses.ContentSectionResponse {
	return &responses.ContentSectionResponse{
		ID:           section.ID,
		PageName:     section.PageName,
		SectionKey:   section.SectionKey,
		Title:        section.Title,
		Content:      section.Content,
		Status:       section.Status.String(),
		ScheduledFor: section.ScheduledFor,
		UpdatedAt:    section.UpdatedAt,
	}
}

func toPostResponse(post *gormModels.ContentPost) *responses.ContentPostResponse {
	return &responses.ContentPostResponse{
		ID:           post.ID,
		Page:         post.Page,
		Title:        post.Title,
		Slug:         post.Slug,
		Content:      post.Content,
		Category:     post.Category,
		ImageURL:     post.ImageURL,
		Status:       post.Status.String(),
		ScheduledFor: post.ScheduledFor,
		PublishedAt:  post.PublishedAt,
		AuthorID:     post.AuthorID,
		UpdatedAt:    post.UpdatedAt,
	}
}

// UpsertSectionHandler handles PUT /api/v1/content/sections
func UpsertSectionHandler(workflow *services.WorkflowService, cache common.CacheInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.UpsertSectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		input := services.SectionInput{
			PageName:   req.PageName,
			SectionKey: req.SectionKey,
			Title:      req.Title,
			Content:    req.Content,
			Status:     constants.ContentStatus(req.Status),
		}
		if req.ScheduledFor != nil {
			at, err := time.Parse(time.RFC3339, *req.ScheduledFor)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "scheduled_for must be RFC3339")
				return
			}
			input.ScheduledFor = &at
		}

		section, err := workflow.UpsertSection(r.Context(), auth.GetPrincipal(r.Context()), input)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		cache.Delete(publicSectionsKey(section.PageName))
		respondWithSuccess(w, http.StatusOK, toSectionResponse(section))
	}
}

// PublishSectionHandler handles POST /api/v1/content/sections/{id}/publish
func PublishSectionHandler(workflow *services.WorkflowService, cache common.CacheInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, err := workflow.PublishSection(
			r.Context(), auth.GetPrincipal(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}

		cache.Delete(publicSectionsKey(section.PageName))
		respondWithSuccess(w, http.StatusOK, toSectionResponse(section))
	}
}

// ListSectionsHandler handles GET /api/v1/content/sections (staff view,
// drafts included)
func ListSectionsHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sections, err := workflow.ListSections(r.Context(), r.URL.Query().Get("page"))
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]responses.ContentSectionResponse, 0, len(sections))
		for i := range sections {
			out = append(out, *toSectionResponse(&sections[i]))
		}
		respondWithSuccess(w, http.StatusOK, &out)
	}
}

// PublicSectionsHandler handles GET /api/v1/public/sections. Published
// slots only, cached since this backs the landing pages.
func PublicSectionsHandler(workflow *services.WorkflowService, cache common.CacheInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")

		val, err := cache.GetOrSet(publicSectionsKey(page), publicContentCacheTTL, func() (any, error) {
			sections, err := workflow.ListSections(r.Context(), page)
			if err != nil {
				return nil, err
			}
			out := make([]responses.ContentSectionResponse, 0, len(sections))
			for i := range sections {
				if sections[i].Status != constants.ContentPublished {
					continue
				}
				out = append(out, *toSectionResponse(&sections[i]))
			}
			return out, nil
		})
		if err != nil {
			respondServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   val,
		})
	}
}

// CreatePostHandler handles POST /api/v1/content/posts
func CreatePostHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		post, err := workflow.CreatePost(r.Context(), auth.GetPrincipal(r.Context()), services.PostInput{
			Page:     req.Page,
			Title:    req.Title,
			Slug:     req.Slug,
			Content:  req.Content,
			Category: req.Category,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, toPostResponse(post))
	}
}

// UpdatePostHandler handles PATCH /api/v1/content/posts/{id}
func UpdatePostHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.UpdatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		input := services.PostInput{
			Category: req.Category,
			ImageURL: req.ImageURL,
		}
		if req.Title != nil {
			input.Title = *req.Title
		}
		if req.Content != nil {
			input.Content = *req.Content
		}

		post, err := workflow.UpdatePost(
			r.Context(), auth.GetPrincipal(r.Context()), chi.URLParam(r, "id"), input)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toPostResponse(post))
	}
}

// SchedulePostHandler handles POST /api/v1/content/posts/{id}/schedule
func SchedulePostHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ScheduleContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		at, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "scheduled_for must be RFC3339")
			return
		}

		post, err := workflow.SchedulePost(
			r.Context(), auth.GetPrincipal(r.Context()), chi.URLParam(r, "id"), at)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toPostResponse(post))
	}
}

// PublishPostHandler handles POST /api/v1/content/posts/{id}/publish
func PublishPostHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := workflow.PublishPost(
			r.Context(), auth.GetPrincipal(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toPostResponse(post))
	}
}

// ListPostsHandler handles GET /api/v1/content/posts (staff view)
func ListPostsHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := workflow.ListPosts(r.Context(), r.URL.Query().Get("page"), false)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]responses.ContentPostResponse, 0, len(posts))
		for i := range posts {
			out = append(out, *toPostResponse(&posts[i]))
		}
		respondWithSuccess(w, http.StatusOK, &out)
	}
}

// PublicPostsHandler handles GET /api/v1/public/posts. Published only.
func PublicPostsHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := workflow.ListPosts(r.Context(), r.URL.Query().Get("page"), true)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]responses.ContentPostResponse, 0, len(posts))
		for i := range posts {
			out = append(out, *toPostResponse(&posts[i]))
		}
		respondWithSuccess(w, http.StatusOK, &out)
	}
}

func publicSectionsKey(page string) string {
	return "public:sections:" + page
}