package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/db/repositories"
	"npu-collective/sabha/internal/models/dtos/requests"
	"npu-collective/sabha/internal/models/dtos/responses"
	gormModels "npu-collective/sabha/internal/models/gorm"
	"npu-collective/sabha/internal/services"
)

func toFinanceResponse(record *gormModels.FinanceRecord) *responses.FinanceRecordResponse {
	return &responses.FinanceRecordResponse{
		ID:              record.ID,
		UserID:          record.UserID,
		Amount:          record.Amount,
		TransactionType: record.TransactionType.String(),
		PaymentStatus:   record.PaymentStatus.String(),
		TransactionDate: record.TransactionDate,
		DueDate:         record.DueDate,
		PaymentMethod:   record.PaymentMethod,
		ReceiptNumber:   record.ReceiptNumber,
		Description:     record.Description,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", value)
	return t, err == nil
}

// CreateFinanceRecordHandler handles POST /api/v1/finance/records
func CreateFinanceRecordHandler(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateFinanceRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		input := services.CreateFinanceRecordInput{
			UserID:          req.UserID,
			Amount:          req.Amount,
			TransactionType: constants.TransactionType(req.TransactionType),
			PaymentStatus:   constants.PaymentStatus(req.PaymentStatus),
			PaymentMethod:   req.PaymentMethod,
			Description:     req.Description,
		}
		if req.TransactionDate != "" {
			t, ok := parseDate(req.TransactionDate)
			if !ok {
				respondWithError(w, http.StatusBadRequest, "transaction_date must be YYYY-MM-DD")
				return
			}
			input.TransactionDate = t
		}
		if req.DueDate != nil {
			t, ok := parseDate(*req.DueDate)
			if !ok {
				respondWithError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
				return
			}
			input.DueDate = &t
		}

		record, err := ledger.CreateRecord(r.Context(), auth.GetPrincipal(r.Context()), input)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, toFinanceResponse(record))
	}
}

// UpdateFinanceRecordHandler handles PATCH /api/v1/finance/records/{id}
func UpdateFinanceRecordHandler(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		// Decode into a raw map first so a user_id key is caught even
		// though the typed request has no such field.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		patch := services.FinanceRecordPatch{}
		if rawUserID, ok := raw["user_id"]; ok {
			var userID string
			_ = json.Unmarshal(rawUserID, &userID)
			patch.UserID = &userID
		}
		if rawAmount, ok := raw["amount"]; ok {
			var amount int64
			if err := json.Unmarshal(rawAmount, &amount); err != nil {
				respondWithError(w, http.StatusBadRequest, "amount must be an integer")
				return
			}
			patch.Amount = &amount
		}
		if rawType, ok := raw["transaction_type"]; ok {
			var s string
			if err := json.Unmarshal(rawType, &s); err != nil {
				respondWithError(w, http.StatusBadRequest, "transaction_type must be a string")
				return
			}
			txType := constants.TransactionType(s)
			patch.TransactionType = &txType
		}
		if rawDate, ok := raw["transaction_date"]; ok {
			var s string
			_ = json.Unmarshal(rawDate, &s)
			t, ok := parseDate(s)
			if !ok {
				respondWithError(w, http.StatusBadRequest, "transaction_date must be YYYY-MM-DD")
				return
			}
			patch.TransactionDate = &t
		}
		if rawDue, ok := raw["due_date"]; ok {
			// Explicit null (or "") clears the due date.
			var s *string
			_ = json.Unmarshal(rawDue, &s)
			if s == nil || *s == "" {
				patch.ClearDueDate = true
			} else {
				t, ok := parseDate(*s)
				if !ok {
					respondWithError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
					return
				}
				patch.DueDate = &t
			}
		}
		if rawMethod, ok := raw["payment_method"]; ok {
			var s string
			_ = json.Unmarshal(rawMethod, &s)
			patch.PaymentMethod = &s
		}
		if rawDesc, ok := raw["description"]; ok {
			var s *string
			_ = json.Unmarshal(rawDesc, &s)
			if s == nil {
				patch.ClearDescription = true
			} else {
				patch.Description = s
			}
		}

		record, err := ledger.UpdateRecord(r.Context(), auth.GetPrincipal(r.Context()), id, patch)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toFinanceResponse(record))
	}
}

// DeleteFinanceRecordHandler handles DELETE /api/v1/finance/records/{id}
func DeleteFinanceRecordHandler(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := ledger.DeleteRecord(r.Context(), auth.GetPrincipal(r.Context()), id); err != nil {
			respondServiceError(w, err)
			return
		}

		msg := "deleted"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// TransitionPaymentStatusHandler handles POST /api/v1/finance/records/{id}/status
func TransitionPaymentStatusHandler(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req requests.TransitionPaymentStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		record, err := ledger.TransitionPaymentStatus(
			r.Context(), auth.GetPrincipal(r.Context()), id,
			constants.PaymentStatus(req.NewStatus))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toFinanceResponse(record))
	}
}

// ListFinanceRecordsHandler handles GET /api/v1/finance/records
func ListFinanceRecordsHandler(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := services.RecordFilter{
			UserID:          r.URL.Query().Get("user_id"),
			TransactionType: constants.TransactionType(r.URL.Query().Get("transaction_type")),
			PaymentStatus:   constants.PaymentStatus(r.URL.Query().Get("payment_status")),
		}
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if limit, err := strconv.Atoi(limitStr); err == nil {
				filter.Limit = limit
			}
		}

		records, err := ledger.ListRecords(r.Context(), auth.GetPrincipal(r.Context()), filter)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]responses.FinanceRecordResponse, 0, len(records))
		for i := range records {
			out = append(out, *toFinanceResponse(&records[i]))
		}
		respondWithSuccess(w, http.StatusOK, &out)
	}
}

// GetFinanceRecordHandler handles GET /api/v1/finance/records/{id}
func GetFinanceRecordHandler(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		record, err := ledger.GetRecord(r.Context(), auth.GetPrincipal(r.Context()), id)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, toFinanceResponse(record))
	}
}

// FinanceOverviewHandler handles GET /api/v1/finance/overview
func FinanceOverviewHandler(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := ledger.ComputeOverview(r.Context(), services.OverviewScope{})
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, overview)
	}
}

// MyDuesHandler handles GET /api/v1/finance/my-dues
func MyDuesHandler(ledger *services.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetPrincipal(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		total, err := ledger.UserOutstandingDues(r.Context(), claims, claims.UserID())
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := map[string]int64{"outstanding_dues": total}
		respondWithSuccess(w, http.StatusOK, &out)
	}
}

// MonthlySummaryHandler handles GET /api/v1/finance/summary/{year}/{month}
func MonthlySummaryHandler(summaryRepo *repositories.FinanceSummaryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "year must be numeric")
			return
		}
		month, err := strconv.Atoi(chi.URLParam(r, "month"))
		if err != nil || month < 1 || month > 12 {
			respondWithError(w, http.StatusBadRequest, "month must be 1-12")
			return
		}

		summary, err := summaryRepo.MonthlySummary(r.Context(), year, month)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &summary)
	}
}

// ExportFinanceCSVHandler handles GET /api/v1/finance/export
func ExportFinanceCSVHandler(ledger *services.LedgerService, export *services.ExportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetPrincipal(r.Context())

		records, err := ledger.ListRecords(r.Context(), claims, services.RecordFilter{})
		if err != nil {
			respondServiceError(w, err)
			return
		}
		overview, err := ledger.ComputeOverview(r.Context(), services.OverviewScope{})
		if err != nil {
			respondServiceError(w, err)
			return
		}

		csvBytes, err := export.ExportCSV(records, *overview)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
		_, _ = w.Write(csvBytes)
	}
}
