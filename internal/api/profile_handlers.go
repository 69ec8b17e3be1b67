package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/models/dtos/requests"
	"npu-collective/sabha/internal/models/dtos/responses"
	gormModels "npu-collective/sabha/internal/models/gorm"
	"npu-collective/sabha/internal/services"
)

func toProfileResponse(profile *gormModels.UserProfile) *responses.ProfileResponse {
	return &responses.ProfileResponse{
		ID:              profile.ID,
		UserID:          profile.UserID,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		VillageName:     profile.VillageName,
		CurrentLocation: profile.CurrentLocation,
		Bio:             profile.Bio,
		Status:          profile.Status.String(),
		ApprovedBy:      profile.ApprovedBy,
		ApprovedAt:      profile.ApprovedAt,
		UpdatedAt:       profile.UpdatedAt,
	}
}

// SubmitProfileHandler handles PUT /api/v1/profile
func SubmitProfileHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.SubmitProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		profile, err := workflow.SubmitProfile(r.Context(), auth.GetPrincipal(r.Context()), services.ProfileInput{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			VillageName:     req.VillageName,
			CurrentLocation: req.CurrentLocation,
			Bio:             req.Bio,
			FieldVisibility: req.FieldVisibility,
		})
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toProfileResponse(profile))
	}
}

// GetOwnProfileHandler handles GET /api/v1/profile
func GetOwnProfileHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetPrincipal(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		profile, err := workflow.GetProfileByUser(r.Context(), claims.UserID())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if profile == nil {
			respondWithError(w, http.StatusNotFound, "No profile on record")
			return
		}
		respondWithSuccess(w, http.StatusOK, toProfileResponse(profile))
	}
}

// ListPendingProfilesHandler handles GET /api/v1/profiles/pending
func ListPendingProfilesHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := workflow.ListPendingProfiles(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]responses.ProfileResponse, 0, len(profiles))
		for i := range profiles {
			out = append(out, *toProfileResponse(&profiles[i]))
		}
		respondWithSuccess(w, http.StatusOK, &out)
	}
}

// ApproveProfileHandler handles POST /api/v1/profiles/{id}/approve
func ApproveProfileHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := workflow.ApproveProfile(
			r.Context(), auth.GetPrincipal(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toProfileResponse(profile))
	}
}

// RejectProfileHandler handles POST /api/v1/profiles/{id}/reject
func RejectProfileHandler(workflow *services.WorkflowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := workflow.RejectProfile(
			r.Context(), auth.GetPrincipal(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toProfileResponse(profile))
	}
}

// MemberDirectoryHandler handles GET /api/v1/networking/directory
func MemberDirectoryHandler(networking *services.NetworkingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := networking.VisibleProfiles(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &profiles)
	}
}
