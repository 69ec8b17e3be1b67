package constants

import (
	"database/sql/driver"
	"fmt"
)

// UserStatus mirrors the Postgres ENUM 'user_status'
type UserStatus string

const (
	UserActive          UserStatus = "active"
	UserInactive        UserStatus = "inactive"
	UserPendingApproval UserStatus = "pending_approval"
	UserSuspended       UserStatus = "suspended"
)

func (s UserStatus) String() string { return string(s) }

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserPendingApproval, UserSuspended:
		return true
	}
	return false
}

// TransactionType is the closed set of ledger transaction kinds.
type TransactionType string

const (
	TxContribution TransactionType = "contribution"
	TxDues         TransactionType = "dues"
	TxFine         TransactionType = "fine"
	TxDonation     TransactionType = "donation"
	TxAdjustment   TransactionType = "adjustment"
)

func (t TransactionType) String() string { return string(t) }

func (t TransactionType) Valid() bool {
	switch t {
	case TxContribution, TxDues, TxFine, TxDonation, TxAdjustment:
		return true
	}
	return false
}

// IsContributionLike groups types that count toward collected funds.
func (t TransactionType) IsContributionLike() bool {
	return t == TxContribution || t == TxDonation
}

// IsDueLike groups types that represent money owed to the organization.
func (t TransactionType) IsDueLike() bool {
	return t == TxDues || t == TxFine
}

// PaymentStatus is the lifecycle of a finance record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (p PaymentStatus) String() string { return string(p) }

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentCancelled:
		return true
	}
	return false
}

// ProfileStatus is the approval lifecycle of a member profile.
type ProfileStatus string

const (
	ProfilePending  ProfileStatus = "pending"
	ProfileApproved ProfileStatus = "approved"
	ProfileRejected ProfileStatus = "rejected"
)

func (p ProfileStatus) String() string { return string(p) }

// ContentStatus is the publishing lifecycle of sections and posts.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
	ContentScheduled ContentStatus = "scheduled"
)

func (c ContentStatus) String() string { return string(c) }

/* ---------- DB adapters ---------- */

func scanString(dst *string, src interface{}, what string) error {
	if src == nil {
		*dst = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*dst = v
	case []byte:
		*dst = string(v)
	default:
		return fmt.Errorf("%s: cannot scan type %T", what, src)
	}
	return nil
}

func (s *UserStatus) Scan(src interface{}) error {
	return scanString((*string)(s), src, "UserStatus")
}
func (s UserStatus) Value() (driver.Value, error) { return string(s), nil }

func (t *TransactionType) Scan(src interface{}) error {
	return scanString((*string)(t), src, "TransactionType")
}
func (t TransactionType) Value() (driver.Value, error) { return string(t), nil }

func (p *PaymentStatus) Scan(src interface{}) error {
	return scanString((*string)(p), src, "PaymentStatus")
}
func (p PaymentStatus) Value() (driver.Value, error) { return string(p), nil }

func (p *ProfileStatus) Scan(src interface{}) error {
	return scanString((*string)(p), src, "ProfileStatus")
}
func (p ProfileStatus) Value() (driver.Value, error) { return string(p), nil }

func (c *ContentStatus) Scan(src interface{}) error {
	return scanString((*string)(c), src, "ContentStatus")
}
func (c ContentStatus) Value() (driver.Value, error) { return string(c), nil }
