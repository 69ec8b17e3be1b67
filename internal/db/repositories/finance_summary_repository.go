package repositories

import (
	"context"

	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// FinanceSummaryRepository serves the monthly rollup straight from
// Postgres. The live overview lives in the ledger service; this one is a
// reporting query only.
type FinanceSummaryRepository struct {
	db *sqlx.DB
}

func NewFinanceSummaryRepository(db *sqlx.DB) *FinanceSummaryRepository {
	return &FinanceSummaryRepository{db}
}

func (r *FinanceSummaryRepository) MonthlySummary(ctx context.Context, year, month int) ([]entities.MonthlyTypeSummary, error) {
	rows := []entities.MonthlyTypeSummary{}
	if err := r.db.SelectContext(ctx, &rows, constants.GetMonthlyFinanceSummary, year, month); err != nil {
		return nil, err
	}
	return rows, nil
}
