package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// AuditFilter narrows the trail listing. Zero values mean "no filter".
type AuditFilter struct {
	ActorUserID  string
	ActionType   string
	ResourceType string
	ResourceID   string
	From         *time.Time
	To           *time.Time
	Limit        int
}

// AuditRepository is the read side of the audit trail. Writes go through
// the audit service inside the mutating transaction; nothing ever updates
// or deletes a row here.
type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db}
}

func (r *AuditRepository) ListEntries(ctx context.Context, filter AuditFilter) ([]entities.AuditLogRow, error) {
	var (
		conds []string
		args  []interface{}
	)

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ActorUserID != "" {
		add("actor_user_id = $%d", filter.ActorUserID)
	}
	if filter.ActionType != "" {
		add("action_type = $%d", filter.ActionType)
	}
	if filter.ResourceType != "" {
		add("resource_type = $%d", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add("resource_id = $%d", filter.ResourceID)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}

	query := constants.ListAuditEntriesBase
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += constants.AuditEntriesOrder

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows := []entities.AuditLogRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountForResource returns how many audit entries exist for one resource.
func (r *AuditRepository) CountForResource(ctx context.Context, resourceType, resourceID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM audit_logs WHERE resource_type = $1 AND resource_id = $2`,
		resourceType, resourceID)
	return count, err
}
