package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"npu-collective/sabha/internal/models/entities"
	gormModels "npu-collective/sabha/internal/models/gorm"
)

// ExportService renders ledger data for download. It is a pure projection:
// order and values come straight from the Ledger Engine, nothing is
// recomputed here except the summary lines it is handed.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

var exportHeaders = []string{
	"Date", "User Name", "User Email", "Transaction Type", "Amount",
	"Payment Status", "Due Date", "Receipt Number", "Description",
}

// ExportCSV writes records in the order given, then the overview summary
// block. Amounts render as rupees with two decimals from the ledger's
// integer paise.
func (s *ExportService) ExportCSV(records []gormModels.FinanceRecord, overview entities.FinanceOverview) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}

	for _, record := range records {
		row := []string{
			record.TransactionDate.Format("2006-01-02"),
			record.User.Name,
			record.User.Email,
			record.TransactionType.String(),
			formatPaise(record.Amount),
			record.PaymentStatus.String(),
			formatDate(record.DueDate),
			stringOrEmpty(record.ReceiptNumber),
			stringOrEmpty(record.Description),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	summary := [][]string{
		{""},
		{"--- SUMMARY ---"},
		{"Total Contributions", formatPaise(overview.TotalContributions)},
		{"Total Dues Collected", formatPaise(overview.TotalDuesCollected)},
		{"Outstanding Dues", formatPaise(overview.TotalOutstandingDues)},
		{"Total Donations", formatPaise(overview.TotalDonations)},
		{"Total Fines", formatPaise(overview.TotalFines)},
		{"Total Expenses", formatPaise(overview.TotalExpenses)},
		{"Net Balance", formatPaise(overview.NetBalance())},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename suggests the attachment name for today's report.
func (s *ExportService) Filename(now time.Time) string {
	return fmt.Sprintf("finance-report-%s.csv", now.Format("2006-01-02"))
}

func formatPaise(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s%d.%02d", sign, paise/100, paise%100)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
