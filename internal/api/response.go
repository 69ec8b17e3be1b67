package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/logging"
	"npu-collective/sabha/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    "success",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	resp := responses.APIResponse[any]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// respondServiceError maps core error types onto HTTP statuses. Invariant
// violations are server bugs and deliberately log before returning 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *apperrors.ValidationError
		authErr       *apperrors.AuthorizationError
		illegalErr    *apperrors.IllegalTransition
		invariantErr  *apperrors.InvariantViolation
		storageErr    *apperrors.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &authErr):
		respondWithError(w, http.StatusForbidden, authErr.Error())
	case errors.As(err, &illegalErr):
		respondWithError(w, http.StatusConflict, illegalErr.Error())
	case errors.As(err, &invariantErr):
		logging.Error("Invariant violation", "error", err)
		respondWithError(w, http.StatusInternalServerError, invariantErr.Error())
	case errors.As(err, &storageErr):
		logging.Error("Storage failure", "op", storageErr.Op, "error", err)
		respondWithError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		logging.Error("Unhandled error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}
