package apperrors

import (
	"fmt"

	"npu-collective/sabha/internal/constants"
)

// DenyReason is the stable machine-readable code carried by authorization
// failures. Callers and tests assert on the code, never on message text.
type DenyReason string

const (
	ReasonNotAuthorized          DenyReason = "not_authorized"
	ReasonSelfElevationForbidden DenyReason = "self_elevation_forbidden"
	ReasonNotOwner               DenyReason = "not_owner"
)

// ValidationError marks malformed or out-of-range input. Caller's fault,
// never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthorizationError marks a failed role or ownership check.
type AuthorizationError struct {
	Reason DenyReason
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to %s: %s", e.Action, e.Reason)
}

func NewAuthorization(reason DenyReason, action string) *AuthorizationError {
	return &AuthorizationError{Reason: reason, Action: action}
}

// IllegalTransition marks a state change outside the transition table.
// The entity is left unchanged.
type IllegalTransition struct {
	Entity string
	From   string
	To     string
}

func (e *IllegalTransition) Error() string {
	return fmt.Sprintf("illegal %s transition: %s -> %s", e.Entity, e.From, e.To)
}

func NewIllegalTransition(entity, from, to string) *IllegalTransition {
	return &IllegalTransition{Entity: entity, From: from, To: to}
}

// InvariantViolation marks an attempted mutation of an immutable field.
// Treated as a programming error and logged at error level.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Message }

func NewInvariant(message string) *InvariantViolation {
	return &InvariantViolation{Message: message}
}

// StorageError wraps a failure of the underlying store. Mutations are never
// retried; the mutation plus its audit write roll back as one unit.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func WrapStorage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// NewPaymentTransition is a convenience constructor for the ledger's
// payment status machine.
func NewPaymentTransition(from, to constants.PaymentStatus) *IllegalTransition {
	return NewIllegalTransition("payment_status", from.String(), to.String())
}
