package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the Postgres ENUM 'user_role'
type Role string

const (
	RoleVisitor   Role = "visitor"
	RoleMember    Role = "member"
	RoleSuperUser Role = "super_user"
	RoleAdmin     Role = "admin"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// IsStaff reports whether the role grants the admin surface.
func (r Role) IsStaff() bool { return r == RoleAdmin || r == RoleSuperUser }

// Valid reports whether the value is one of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleVisitor, RoleMember, RoleSuperUser, RoleAdmin:
		return true
	}
	return false
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }
