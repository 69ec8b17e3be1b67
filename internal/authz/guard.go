package authz

import (
	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/constants"
)

// Action is the closed set of guarded operations.
type Action string

const (
	ActionFinanceCreate     Action = "finance.create"
	ActionFinanceUpdate     Action = "finance.update"
	ActionFinanceDelete     Action = "finance.delete"
	ActionFinanceTransition Action = "finance.transition"
	ActionFinanceReadAll    Action = "finance.read_all"
	ActionFinanceReadOwn    Action = "finance.read_own"
	ActionUserCreate        Action = "user.create"
	ActionUserRoleChange    Action = "user.role_change"
	ActionUserStatusChange  Action = "user.status_change"
	ActionProfileSubmit     Action = "profile.submit"
	ActionProfileApprove    Action = "profile.approve"
	ActionProfileReject     Action = "profile.reject"
	ActionContentCreate     Action = "content.create"
	ActionContentUpdate     Action = "content.update"
	ActionContentPublish    Action = "content.publish"
	ActionAuditRead         Action = "audit.read"
)

func (a Action) String() string { return string(a) }

// Actor is the resolved principal performing the action.
type Actor struct {
	UserID string
	Role   constants.Role
}

// Target carries the resource attributes the policy needs. OwnerID is the
// owning user of the resource (finance record owner, profile owner);
// NewRole is only set for role-change actions.
type Target struct {
	OwnerID string
	NewRole constants.Role
}

// Decision is the guard's verdict. Reason is a stable code, never free text.
type Decision struct {
	Allowed bool
	Reason  apperrors.DenyReason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason apperrors.DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize is the single source of truth for the role matrix. Every
// mutating call in the core consults it; no call site re-derives policy.
func Authorize(actor Actor, action Action, target Target) Decision {
	switch action {

	case ActionFinanceCreate, ActionFinanceUpdate, ActionFinanceDelete,
		ActionFinanceTransition, ActionFinanceReadAll:
		if actor.Role.IsStaff() {
			return allow()
		}
		return deny(apperrors.ReasonNotAuthorized)

	case ActionFinanceReadOwn:
		if actor.Role.IsStaff() {
			return allow()
		}
		if actor.Role == constants.RoleMember {
			if target.OwnerID == actor.UserID {
				return allow()
			}
			return deny(apperrors.ReasonNotOwner)
		}
		return deny(apperrors.ReasonNotAuthorized)

	case ActionUserCreate:
		if actor.Role == constants.RoleAdmin {
			return allow()
		}
		return deny(apperrors.ReasonNotAuthorized)

	case ActionUserRoleChange:
		switch actor.Role {
		case constants.RoleAdmin:
			return allow()
		case constants.RoleSuperUser:
			// A super_user may manage roles but never mint an admin.
			if target.NewRole == constants.RoleAdmin {
				return deny(apperrors.ReasonSelfElevationForbidden)
			}
			return allow()
		}
		return deny(apperrors.ReasonNotAuthorized)

	case ActionUserStatusChange:
		if actor.Role.IsStaff() {
			return allow()
		}
		return deny(apperrors.ReasonNotAuthorized)

	case ActionProfileSubmit:
		// Owners submit and edit their own profile. Staff roles go through
		// approve/reject, not through the owner path.
		if target.OwnerID == actor.UserID &&
			(actor.Role == constants.RoleMember || actor.Role.IsStaff()) {
			return allow()
		}
		if actor.Role == constants.RoleVisitor {
			return deny(apperrors.ReasonNotAuthorized)
		}
		return deny(apperrors.ReasonNotOwner)

	case ActionProfileApprove, ActionProfileReject,
		ActionContentCreate, ActionContentUpdate, ActionContentPublish,
		ActionAuditRead:
		if actor.Role.IsStaff() {
			return allow()
		}
		return deny(apperrors.ReasonNotAuthorized)
	}

	return deny(apperrors.ReasonNotAuthorized)
}

// Check wraps Authorize into the error the services return on denial.
func Check(actor Actor, action Action, target Target) error {
	if d := Authorize(actor, action, target); !d.Allowed {
		return apperrors.NewAuthorization(d.Reason, action.String())
	}
	return nil
}
