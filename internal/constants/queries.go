package constants

const (
	GetUserById = `
	SELECT * FROM users WHERE id = $1
	`

	GetUserByEmail = `
	SELECT * FROM users WHERE email = $1
	`

	// get_monthly_finance_summary: per-type totals for one calendar month.
	GetMonthlyFinanceSummary = `
	SELECT
		transaction_type,
		COALESCE(SUM(amount), 0)                                            AS total_amount,
		COALESCE(SUM(amount) FILTER (WHERE payment_status = 'paid'), 0)     AS paid_amount,
		COALESCE(SUM(amount) FILTER (WHERE payment_status = 'pending'), 0)  AS pending_amount,
		COUNT(*)                                                            AS count_records
	FROM finance_records
	WHERE EXTRACT(YEAR FROM transaction_date) = $1
	  AND EXTRACT(MONTH FROM transaction_date) = $2
	GROUP BY transaction_type
	ORDER BY transaction_type
	`

	// Audit trail reads. The audit table is append-only; the total order is
	// created_at then insertion sequence.
	ListAuditEntriesBase = `
	SELECT id, actor_user_id, action_type, resource_type, resource_id, details, created_at
	FROM audit_logs
	`

	AuditEntriesOrder = ` ORDER BY created_at DESC, seq DESC`
)
