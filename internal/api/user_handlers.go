package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/models/dtos/requests"
	"npu-collective/sabha/internal/models/dtos/responses"
	gormModels "npu-collective/sabha/internal/models/gorm"
	"npu-collective/sabha/internal/services"
)

func toUserResponse(user *gormModels.User) *responses.UserResponse {
	return &responses.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role.String(),
		Status:      user.Status.String(),
		PhoneNumber: user.PhoneNumber,
		VillageName: user.VillageName,
		LastLogin:   user.LastLogin,
		CreatedAt:   user.CreatedAt,
	}
}

// CreateUserHandler handles POST /api/v1/users
func CreateUserHandler(userMgmt *services.UserMgmtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := userMgmt.CreateUser(r.Context(), auth.GetPrincipal(r.Context()), services.CreateUserInput{
			Email:       req.Email,
			Name:        req.Name,
			Role:        constants.Role(req.Role),
			PhoneNumber: req.PhoneNumber,
			VillageName: req.VillageName,
		})
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, toUserResponse(user))
	}
}

// ListUsersHandler handles GET /api/v1/users
func ListUsersHandler(userMgmt *services.UserMgmtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := userMgmt.ListUsers(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]responses.UserResponse, 0, len(users))
		for i := range users {
			out = append(out, *toUserResponse(&users[i]))
		}
		respondWithSuccess(w, http.StatusOK, &out)
	}
}

// GetUserHandler handles GET /api/v1/users/{id}
func GetUserHandler(userMgmt *services.UserMgmtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userMgmt.GetUser(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toUserResponse(user))
	}
}

// UpdateUserRoleHandler handles PUT /api/v1/users/{id}/role
func UpdateUserRoleHandler(userMgmt *services.UserMgmtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.UpdateRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := userMgmt.UpdateRole(
			r.Context(), auth.GetPrincipal(r.Context()),
			chi.URLParam(r, "id"), constants.Role(req.NewRole))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toUserResponse(user))
	}
}

// UpdateUserStatusHandler handles PUT /api/v1/users/{id}/status
func UpdateUserStatusHandler(userMgmt *services.UserMgmtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := userMgmt.UpdateStatus(
			r.Context(), auth.GetPrincipal(r.Context()),
			chi.URLParam(r, "id"), constants.UserStatus(req.NewStatus))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toUserResponse(user))
	}
}

// SuspendUserHandler handles POST /api/v1/users/{id}/suspend
func SuspendUserHandler(userMgmt *services.UserMgmtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userMgmt.SuspendUser(
			r.Context(), auth.GetPrincipal(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toUserResponse(user))
	}
}
