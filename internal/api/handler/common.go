package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/validation"
	"github.com/sirupsen/logrus"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondStandardError writes the standard error envelope.
func respondStandardError(w http.ResponseWriter, status int, code, message, field string, details map[string]any) {
	respondJSON(w, status, &domain.StandardErrorResponse{
		Error: domain.StandardError{
			Code:    code,
			Message: message,
			Field:   field,
			Details: details,
		},
	})
}

// respondError writes a JSON error response with the code implied by status.
func respondError(w http.ResponseWriter, status int, message string) {
	respondStandardError(w, status, codeForStatus(status), message, "", nil)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return domain.ErrCodeResourceNotFound
	case http.StatusConflict:
		return domain.ErrCodeResourceAlreadyExists
	case http.StatusBadRequest:
		return domain.ErrCodeInvalidInput
	case http.StatusUnauthorized:
		return domain.ErrCodeUnauthorized
	case http.StatusPreconditionFailed:
		return domain.ErrCodePreconditionFailed
	}
	return domain.ErrCodeInternalError
}

// handleError converts domain errors to HTTP errors. Unexpected errors are
// logged and reported without detail.
func handleError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var verrs validation.ValidationErrors
	var invalidTag *domain.InvalidTagIDError

	switch {
	case errors.As(err, &verrs):
		respondValidationErrors(w, verrs)
	case errors.As(err, &invalidTag):
		respondStandardError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, invalidTag.Error(), "tagId", nil)
	case errors.Is(err, domain.ErrIncompatibleTag):
		respondStandardError(w, http.StatusConflict, domain.ErrCodeIncompatibleTag, err.Error(), "tagId", nil)
	case errors.Is(err, domain.ErrTooManyFavorites):
		respondStandardError(w, http.StatusBadRequest, domain.ErrCodeValidationError, err.Error(), "favs", nil)
	case errors.Is(err, domain.ErrNotFound):
		respondStandardError(w, http.StatusNotFound, domain.ErrCodeResourceNotFound, err.Error(), "", nil)
	case errors.Is(err, domain.ErrAlreadyExists):
		respondStandardError(w, http.StatusConflict, domain.ErrCodeResourceAlreadyExists, err.Error(), "", nil)
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrPreconditionFailed):
		respondError(w, http.StatusPreconditionFailed, "resource has been modified")
	default:
		log.WithError(err).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes JSON from request body.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}

// decodeAndValidate decodes the body into v and checks its struct tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(r, v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validation.Struct(v); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			respondValidationErrors(w, verrs)
			return false
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// splitList splits a comma-separated query value, dropping blanks.
func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// respondValidationErrors writes a JSON response for validation errors.
func respondValidationErrors(w http.ResponseWriter, errs validation.ValidationErrors) {
	field := ""
	if len(errs) == 1 {
		field = errs[0].Field
	}
	respondStandardError(w, http.StatusBadRequest, domain.ErrCodeValidationError, errs.Error(), field, errs.Fields())
}
