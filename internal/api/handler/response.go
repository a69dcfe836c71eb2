package handler

import (
	"coop-collections/internal/api/handler/dto"
	"coop-collections/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// statusFor maps a service error onto the HTTP status and the message shown to the caller.
func statusFor(err error) (int, string, string) {
	var validationError *apperrors.ValidationError

	switch {
	case errors.As(err, &validationError):
		return http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Resource not found.", ""
	case errors.Is(err, apperrors.ErrInvalidArgument),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidPaymentAmount),
		errors.Is(err, apperrors.ErrInvalidTerms):
		return http.StatusBadRequest, err.Error(), ""
	case errors.Is(err, apperrors.ErrAlreadyPaid),
		errors.Is(err, apperrors.ErrLoanFullyPaid),
		errors.Is(err, apperrors.ErrLoanNotApproved),
		errors.Is(err, apperrors.ErrLoanNotPending),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, err.Error(), ""
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", ""
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "Forbidden", ""
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "A dependency is temporarily unavailable. Try again shortly.", ""
	}
	return http.StatusInternalServerError, "An unexpected error occurred.", ""
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Default().Error("Unhandled internal error", "error", err)
	}
	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	})
}

func getIDFromURL(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, fmt.Errorf("%w: %s not found in URL path", apperrors.ErrInvalidArgument, param)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", apperrors.ErrInvalidArgument, param)
	}
	return id, nil
}
