package middleware

import (
	"net/http"
	"strings"
	"time"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/common"
	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/db/repositories"
)

// AuthMiddleware resolves the caller into a principal. A session cookie
// wins over a bearer token. Bearer principals are upserted on first sight
// so the provider's identity always maps to a local user row. Session
// lookups stay on the sqlx read side; the upsert goes through the ORM.
func AuthMiddleware(users *repositories.UserRepository, accounts *repositories.UserRepositoryGORM, sessions *common.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var claims auth.PrincipalClaims

			if cookie, err := r.Cookie("sabha_session"); err == nil && cookie.Value != "" {
				session, err := sessions.GetSession(r.Context(), cookie.Value)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid session", http.StatusUnauthorized)
					return
				}
				// The stored role wins over the session snapshot: a demotion
				// or promotion applies on the next request, and a stale
				// session is rewritten in place.
				user, err := users.FindUserById(r.Context(), session.UserID)
				if err != nil || user == nil {
					http.Error(w, "Unauthorized. Account lookup failed", http.StatusUnauthorized)
					return
				}
				if user.Status == constants.UserSuspended {
					_ = sessions.DeleteSession(r.Context(), cookie.Value)
					http.Error(w, "Forbidden. Account suspended", http.StatusForbidden)
					return
				}
				if user.Role != session.Role {
					_ = sessions.UpdateRole(r.Context(), cookie.Value, user.Role)
				}

				// Sliding expiry: top the session back up once it is past
				// the halfway mark. Best effort; a failed refresh does not
				// fail the request.
				if time.Until(session.ExpiresAt) < common.SessionTTL/2 {
					_ = sessions.RefreshSession(r.Context(), cookie.Value)
				}
				claims = &auth.SessionClaims{
					UserIDValue: session.UserID,
					EmailValue:  session.Email,
					RoleValue:   user.Role,
				}
			} else if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				tokenClaims, err := auth.ParseBearerToken(strings.TrimPrefix(authHeader, "Bearer "))
				if err != nil {
					http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}

				// Token identity maps onto a local row; the stored role wins
				// over whatever the token carries.
				user, err := accounts.EnsureUser(r.Context(), tokenClaims.UserIDValue, tokenClaims.EmailValue, "")
				if err != nil {
					http.Error(w, "Unauthorized. Account lookup failed", http.StatusUnauthorized)
					return
				}
				tokenClaims.UserIDValue = user.ID
				tokenClaims.RoleValue = user.Role
				claims = tokenClaims
			} else {
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetPrincipal(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
