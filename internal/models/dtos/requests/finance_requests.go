package requests

// CreateFinanceRecordRequest is the payload for a new ledger entry.
// Amount is in paise.
type CreateFinanceRecordRequest struct {
	UserID          string  `json:"user_id"`
	Amount          int64   `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	PaymentStatus   string  `json:"payment_status,omitempty"`
	TransactionDate string  `json:"transaction_date,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	PaymentMethod   *string `json:"payment_method,omitempty"`
	Description     *string `json:"description,omitempty"`
}

// UpdateFinanceRecordRequest is a partial patch. Nil fields are left as-is.
// user_id is intentionally absent: ownership is immutable.
type UpdateFinanceRecordRequest struct {
	Amount          *int64  `json:"amount,omitempty"`
	TransactionType *string `json:"transaction_type,omitempty"`
	TransactionDate *string `json:"transaction_date,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	PaymentMethod   *string `json:"payment_method,omitempty"`
	Description     *string `json:"description,omitempty"`
}

type TransitionPaymentStatusRequest struct {
	NewStatus string `json:"new_status"`
}
