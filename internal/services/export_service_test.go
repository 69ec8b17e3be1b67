package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"npu-collective/sabha/internal/models/entities"
	gormModels "npu-collective/sabha/internal/models/gorm"
)

func TestExportService_CSV(t *testing.T) {
	svc := NewExportService()

	receipt := "REC-abc"
	txDate, _ := time.Parse("2006-01-02", "2026-03-15")
	records := []gormModels.FinanceRecord{
		{
			TransactionDate: txDate,
			TransactionType: "dues",
			Amount:          250050,
			PaymentStatus:   "paid",
			ReceiptNumber:   &receipt,
			User:            gormModels.User{Name: "Asha Rao", Email: "asha@example.org"},
		},
		{
			TransactionDate: txDate,
			TransactionType: "expenses",
			Amount:          99,
			PaymentStatus:   "pending",
			User:            gormModels.User{Name: "Ops", Email: "ops@example.org"},
		},
	}
	overview := entities.FinanceOverview{
		TotalContributions:   100000,
		TotalDuesCollected:   250050,
		TotalOutstandingDues: 5000,
		TotalDonations:       0,
		TotalFines:           1500,
		TotalExpenses:        99,
	}

	out, err := svc.ExportCSV(records, overview)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if rows[0][0] != "Date" || rows[0][4] != "Amount" {
		t.Errorf("unexpected header row: %v", rows[0])
	}

	first := rows[1]
	if first[0] != "2026-03-15" {
		t.Errorf("date column: %s", first[0])
	}
	if first[4] != "2500.50" {
		t.Errorf("paise should render as rupees.2dp, got %s", first[4])
	}
	if first[7] != "REC-abc" {
		t.Errorf("receipt column: %s", first[7])
	}

	second := rows[2]
	if second[4] != "0.99" {
		t.Errorf("sub-rupee amount should keep leading zero, got %s", second[4])
	}
	if second[7] != "" {
		t.Errorf("missing receipt should render empty, got %s", second[7])
	}

	text := string(out)
	if !strings.Contains(text, "--- SUMMARY ---") {
		t.Error("summary marker missing")
	}
	// contributions + dues collected + donations - expenses
	if !strings.Contains(text, "Net Balance,3499.51") {
		t.Errorf("net balance line missing or wrong:\n%s", text)
	}
	if !strings.Contains(text, "Outstanding Dues,50.00") {
		t.Error("outstanding dues line missing or wrong")
	}
}

func TestExportService_EmptyLedger(t *testing.T) {
	svc := NewExportService()

	out, err := svc.ExportCSV(nil, entities.FinanceOverview{})
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "--- SUMMARY ---") {
		t.Error("empty export should still carry the summary block")
	}
	if !strings.Contains(text, "Net Balance,0.00") {
		t.Error("empty export should show a zero net balance")
	}
}

func TestExportService_Filename(t *testing.T) {
	svc := NewExportService()
	now, _ := time.Parse("2006-01-02", "2026-08-28")
	if got := svc.Filename(now); got != "finance-report-2026-08-28.csv" {
		t.Errorf("unexpected filename %s", got)
	}
}

func TestFormatPaise_Negative(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		100:    "1.00",
		-250:   "-2.50",
		-5:     "-0.05",
		123456: "1234.56",
	}
	for paise, want := range cases {
		if got := formatPaise(paise); got != want {
			t.Errorf("formatPaise(%d) = %s, want %s", paise, got, want)
		}
	}
}
