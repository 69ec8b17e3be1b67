package entities

import "npu-collective/sabha/internal/constants"

// FinanceOverview is derived from the live ledger, never persisted as
// ground truth. All amounts are integer paise.
type FinanceOverview struct {
	TotalContributions   int64 `db:"total_contributions" json:"total_contributions"`
	TotalDuesCollected   int64 `db:"total_dues_collected" json:"total_dues_collected"`
	TotalOutstandingDues int64 `db:"total_outstanding_dues" json:"total_outstanding_dues"`
	TotalDonations       int64 `db:"total_donations" json:"total_donations"`
	TotalFines           int64 `db:"total_fines" json:"total_fines"`
	TotalExpenses        int64 `db:"total_expenses" json:"total_expenses"`
}

// NetBalance is contributions plus collected dues plus donations less
// expenses, matching the export summary line.
func (o FinanceOverview) NetBalance() int64 {
	return o.TotalContributions + o.TotalDuesCollected + o.TotalDonations - o.TotalExpenses
}

// MonthlyTypeSummary is one row of the monthly finance summary.
type MonthlyTypeSummary struct {
	TransactionType constants.TransactionType `db:"transaction_type" json:"transaction_type"`
	TotalAmount     int64                     `db:"total_amount" json:"total_amount"`
	PaidAmount      int64                     `db:"paid_amount" json:"paid_amount"`
	PendingAmount   int64                     `db:"pending_amount" json:"pending_amount"`
	CountRecords    int64                     `db:"count_records" json:"count_records"`
}
