package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/common"
	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/db/repositories"
	"npu-collective/sabha/internal/logging"
	"npu-collective/sabha/internal/models/dtos/requests"
	"npu-collective/sabha/internal/models/dtos/responses"
	gormModels "npu-collective/sabha/internal/models/gorm"
	"npu-collective/sabha/internal/services"
)

// recordLoginAttempt writes the attempt to the trail; login failures are
// audit-worthy but must never block the response.
func recordLoginAttempt(db *gorm.DB, audit *services.AuditService, email string, success bool) {
	err := db.Transaction(func(tx *gorm.DB) error {
		return audit.Record(tx, nil, constants.ActionLoginAttempt, constants.ResourceUser, nil,
			gormModels.JSONMap{"email": email, "success": success})
	})
	if err != nil {
		logging.Error("Failed to record login attempt", "error", err)
	}
}

// IssueOTPHandler handles POST /api/v1/auth/otp. Always answers 200 so the
// endpoint cannot be used to probe which emails exist.
func IssueOTPHandler(otp *common.OTPService, users *repositories.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.IssueOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		email := strings.TrimSpace(strings.ToLower(req.Email))
		if email == "" || !strings.Contains(email, "@") {
			respondWithError(w, http.StatusBadRequest, "a valid email is required")
			return
		}

		// A suspended account gets the same 200 as everyone else, but no
		// code is minted for it.
		if known, err := users.FindUserByEmail(r.Context(), email); err == nil &&
			known != nil && known.Status == constants.UserSuspended {
			logging.Warn("OTP withheld for suspended account", "email", email)
			resp := responses.OTPIssuedResponse{
				Email:     email,
				ExpiresAt: time.Now().Add(common.OTPTTL),
			}
			respondWithSuccess(w, http.StatusOK, &resp)
			return
		}

		code, err := otp.IssueOTP(r.Context(), email)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		// Delivery goes out of band (mail worker); never in the response.
		logging.Info("OTP issued", "email", email, "code_len", len(code))

		resp := responses.OTPIssuedResponse{
			Email:     email,
			ExpiresAt: time.Now().Add(common.OTPTTL),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// VerifyOTPHandler handles POST /api/v1/auth/verify. A good code upserts
// the user, opens a session, and sets the cookie.
func VerifyOTPHandler(
	otp *common.OTPService,
	sessions *common.SessionService,
	userRepo *repositories.UserRepositoryGORM,
	users *repositories.UserRepository,
	audit *services.AuditService,
	db *gorm.DB,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		email := strings.TrimSpace(strings.ToLower(req.Email))

		if err := otp.VerifyOTP(r.Context(), email, req.Code); err != nil {
			recordLoginAttempt(db, audit, email, false)
			respondWithError(w, http.StatusUnauthorized, "invalid or expired code")
			return
		}

		user, err := userRepo.EnsureUser(r.Context(), "", email, "")
		if err != nil {
			respondServiceError(w, err)
			return
		}

		sessionID, err := sessions.CreateSession(r.Context(), user.ID, user.Email, user.Role)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		recordLoginAttempt(db, audit, email, true)

		if err := users.TouchLastLogin(r.Context(), user.ID, time.Now()); err != nil {
			logging.Warn("Failed to record last login", "user_id", user.ID, "error", err)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "sabha_session",
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(common.SessionTTL / time.Second),
		})

		resp := responses.SessionResponse{
			SessionID: sessionID,
			UserID:    user.ID,
			Role:      user.Role.String(),
			ExpiresAt: time.Now().Add(common.SessionTTL),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// LogoutHandler handles POST /api/v1/auth/logout
func LogoutHandler(sessions *common.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("sabha_session"); err == nil && cookie.Value != "" {
			_ = sessions.DeleteSession(r.Context(), cookie.Value)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "sabha_session",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})

		msg := "logged out"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// MeHandler handles GET /api/v1/auth/me
func MeHandler(userMgmt *services.UserMgmtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetPrincipal(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := userMgmt.GetUser(r.Context(), claims.UserID())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toUserResponse(user))
	}
}
