package authz

import (
	"errors"
	"testing"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/constants"
)

func TestAuthorize_LedgerMutationsStaffOnly(t *testing.T) {
	mutations := []Action{
		ActionFinanceCreate, ActionFinanceUpdate,
		ActionFinanceDelete, ActionFinanceTransition,
	}

	for _, action := range mutations {
		for _, role := range []constants.Role{constants.RoleAdmin, constants.RoleSuperUser} {
			d := Authorize(Actor{UserID: "u1", Role: role}, action, Target{})
			if !d.Allowed {
				t.Errorf("%s should be allowed for %s", action, role)
			}
		}
		for _, role := range []constants.Role{constants.RoleMember, constants.RoleVisitor} {
			d := Authorize(Actor{UserID: "u1", Role: role}, action, Target{})
			if d.Allowed {
				t.Errorf("%s should be denied for %s", action, role)
			}
			if d.Reason != apperrors.ReasonNotAuthorized {
				t.Errorf("%s denial for %s should carry not_authorized, got %s", action, role, d.Reason)
			}
		}
	}
}

func TestAuthorize_MemberReadsOwnRecordsOnly(t *testing.T) {
	member := Actor{UserID: "u1", Role: constants.RoleMember}

	if d := Authorize(member, ActionFinanceReadOwn, Target{OwnerID: "u1"}); !d.Allowed {
		t.Error("member should read their own records")
	}

	d := Authorize(member, ActionFinanceReadOwn, Target{OwnerID: "u2"})
	if d.Allowed {
		t.Error("member should not read another member's records")
	}
	if d.Reason != apperrors.ReasonNotOwner {
		t.Errorf("expected not_owner, got %s", d.Reason)
	}
}

func TestAuthorize_SuperUserCannotMintAdmin(t *testing.T) {
	superUser := Actor{UserID: "u1", Role: constants.RoleSuperUser}

	if d := Authorize(superUser, ActionUserRoleChange, Target{OwnerID: "u2", NewRole: constants.RoleMember}); !d.Allowed {
		t.Error("super_user should be able to set member role")
	}

	d := Authorize(superUser, ActionUserRoleChange, Target{OwnerID: "u2", NewRole: constants.RoleAdmin})
	if d.Allowed {
		t.Error("super_user must not elevate an account to admin")
	}
	if d.Reason != apperrors.ReasonSelfElevationForbidden {
		t.Errorf("expected self_elevation_forbidden, got %s", d.Reason)
	}

	admin := Actor{UserID: "u1", Role: constants.RoleAdmin}
	if d := Authorize(admin, ActionUserRoleChange, Target{OwnerID: "u2", NewRole: constants.RoleAdmin}); !d.Allowed {
		t.Error("admin should be able to set admin role")
	}
}

func TestAuthorize_ProfileOwnership(t *testing.T) {
	member := Actor{UserID: "u1", Role: constants.RoleMember}

	if d := Authorize(member, ActionProfileSubmit, Target{OwnerID: "u1"}); !d.Allowed {
		t.Error("member should submit their own profile")
	}

	d := Authorize(member, ActionProfileSubmit, Target{OwnerID: "u2"})
	if d.Allowed {
		t.Error("member must not edit another member's profile")
	}
	if d.Reason != apperrors.ReasonNotOwner {
		t.Errorf("expected not_owner, got %s", d.Reason)
	}

	for _, action := range []Action{ActionProfileApprove, ActionProfileReject} {
		if d := Authorize(member, action, Target{OwnerID: "u2"}); d.Allowed {
			t.Errorf("member must not %s", action)
		}
		staff := Actor{UserID: "u3", Role: constants.RoleSuperUser}
		if d := Authorize(staff, action, Target{OwnerID: "u2"}); !d.Allowed {
			t.Errorf("super_user should %s", action)
		}
	}
}

func TestAuthorize_ContentStaffOnly(t *testing.T) {
	for _, action := range []Action{ActionContentCreate, ActionContentUpdate, ActionContentPublish} {
		if d := Authorize(Actor{UserID: "u1", Role: constants.RoleMember}, action, Target{}); d.Allowed {
			t.Errorf("member must not %s", action)
		}
		if d := Authorize(Actor{UserID: "u1", Role: constants.RoleAdmin}, action, Target{}); !d.Allowed {
			t.Errorf("admin should %s", action)
		}
	}
}

func TestCheck_ReturnsTypedAuthorizationError(t *testing.T) {
	err := Check(Actor{UserID: "u1", Role: constants.RoleMember}, ActionFinanceCreate, Target{})
	if err == nil {
		t.Fatal("expected an error")
	}

	var authErr *apperrors.AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %T", err)
	}
	if authErr.Reason != apperrors.ReasonNotAuthorized {
		t.Errorf("expected not_authorized, got %s", authErr.Reason)
	}

	if err := Check(Actor{UserID: "u1", Role: constants.RoleAdmin}, ActionFinanceCreate, Target{}); err != nil {
		t.Errorf("admin check should pass, got %v", err)
	}
}
