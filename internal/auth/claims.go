package auth

import "npu-collective/sabha/internal/constants"

// PrincipalClaims is the authenticated principal every core call consumes.
// The auth provider verifies credentials; the core only trusts the resolved
// user id and role.
type PrincipalClaims interface {
	UserID() string
	Email() string
	Role() constants.Role
	Source() string
}

// SessionClaims is a principal resolved from a server-side redis session.
type SessionClaims struct {
	UserIDValue string
	EmailValue  string
	RoleValue   constants.Role
}

func (c *SessionClaims) UserID() string { return c.UserIDValue }
func (c *SessionClaims) Email() string { return c.EmailValue }
func (c *SessionClaims) Role() constants.Role { return c.RoleValue }
func (c *SessionClaims) Source() string { return "SESSION" }

// TokenClaims is a principal resolved from a bearer token issued by the
// external auth provider.
type TokenClaims struct {
	UserIDValue string
	EmailValue  string
	RoleValue   constants.Role
}

func (c *TokenClaims) UserID() string { return c.UserIDValue }
func (c *TokenClaims) Email() string { return c.EmailValue }
func (c *TokenClaims) Role() constants.Role { return c.RoleValue }
func (c *TokenClaims) Source() string { return "JWT" }
