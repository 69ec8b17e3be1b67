package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"npu-collective/sabha/internal/db/repositories"
	"npu-collective/sabha/internal/models/dtos/responses"
	"npu-collective/sabha/internal/models/entities"
)

func toAuditResponse(row *entities.AuditLogRow) (*responses.AuditLogResponse, error) {
	out := &responses.AuditLogResponse{
		ID:           row.ID,
		ActorUserID:  row.ActorUserID,
		ActionType:   row.ActionType.String(),
		ResourceType: row.ResourceType,
		ResourceID:   row.ResourceID,
		CreatedAt:    row.CreatedAt,
	}
	if len(row.Details) > 0 {
		if err := json.Unmarshal(row.Details, &out.Details); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListAuditEntriesHandler handles GET /api/v1/audit. Newest first; filters
// via query params.
func ListAuditEntriesHandler(auditRepo *repositories.AuditRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := repositories.AuditFilter{
			ActorUserID:  q.Get("actor_user_id"),
			ActionType:   q.Get("action_type"),
			ResourceType: q.Get("resource_type"),
			ResourceID:   q.Get("resource_id"),
		}
		if fromStr := q.Get("from"); fromStr != "" {
			from, err := time.Parse(time.RFC3339, fromStr)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "from must be RFC3339")
				return
			}
			filter.From = &from
		}
		if toStr := q.Get("to"); toStr != "" {
			to, err := time.Parse(time.RFC3339, toStr)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "to must be RFC3339")
				return
			}
			filter.To = &to
		}
		if limitStr := q.Get("limit"); limitStr != "" {
			if limit, err := strconv.Atoi(limitStr); err == nil {
				filter.Limit = limit
			}
		}

		rows, err := auditRepo.ListEntries(r.Context(), filter)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		out := make([]responses.AuditLogResponse, 0, len(rows))
		for i := range rows {
			entry, err := toAuditResponse(&rows[i])
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "corrupt audit details")
				return
			}
			out = append(out, *entry)
		}
		respondWithSuccess(w, http.StatusOK, &out)
	}
}
