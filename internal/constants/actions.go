package constants

import "database/sql/driver"

// AuditAction is the closed vocabulary of audit log action types.
type AuditAction string

const (
	ActionUserCreated          AuditAction = "user_created"
	ActionUserUpdated          AuditAction = "user_updated"
	ActionRoleUpdated          AuditAction = "role_updated"
	ActionUserSuspended        AuditAction = "user_suspended"
	ActionProfileSubmitted     AuditAction = "profile_submitted"
	ActionProfileApproved      AuditAction = "profile_approved"
	ActionProfileRejected      AuditAction = "profile_rejected"
	ActionFinanceRecordCreated AuditAction = "finance_record_created"
	ActionFinanceRecordUpdated AuditAction = "finance_record_updated"
	ActionFinanceRecordDeleted AuditAction = "finance_record_deleted"
	ActionPaymentStatusUpdated AuditAction = "payment_status_updated"
	ActionContentCreated       AuditAction = "content_created"
	ActionContentUpdated       AuditAction = "content_updated"
	ActionContentPublished     AuditAction = "content_published"
	ActionContentScheduled     AuditAction = "content_scheduled"
	ActionLoginAttempt         AuditAction = "login_attempt"
)

func (a AuditAction) String() string { return string(a) }

// Scan implements the sql.Scanner interface
func (a *AuditAction) Scan(src interface{}) error {
	return scanString((*string)(a), src, "AuditAction")
}

// Value implements the driver.Valuer interface
func (a AuditAction) Value() (driver.Value, error) { return string(a), nil }

// Audit resource types
const (
	ResourceUser           = "user"
	ResourceUserProfile    = "user_profile"
	ResourceFinance        = "finance"
	ResourceContentSection = "content_section"
	ResourceContentPost    = "content_post"
	ResourceSystem         = "system"
)
