package gorm

import (
	"time"

	"npu-collective/sabha/internal/constants"
)

// FinanceRecord is one row of the ledger. Amounts are integer paise so
// aggregates never drift the way floats do.
type FinanceRecord struct {
	ID              string                    `gorm:"column:id;primaryKey;type:uuid"`
	UserID          string                    `gorm:"column:user_id;type:uuid;not null;index"`
	Amount          int64                     `gorm:"column:amount;not null"`
	TransactionType constants.TransactionType `gorm:"column:transaction_type;type:varchar(20);not null;index"`
	PaymentStatus   constants.PaymentStatus   `gorm:"column:payment_status;type:varchar(20);default:pending;index"`
	TransactionDate time.Time                 `gorm:"column:transaction_date;not null"`
	DueDate         *time.Time                `gorm:"column:due_date"`
	PaymentMethod   *string                   `gorm:"column:payment_method"`
	ReceiptNumber   *string                   `gorm:"column:receipt_number;uniqueIndex"`
	Description     *string                   `gorm:"column:description"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (FinanceRecord) TableName() string {
	return "finance_records"
}
