package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mexilacteos/itdesk/modules/itrequest/domain/aggregates/request"
	"github.com/mexilacteos/itdesk/pkg/composables"
	"github.com/mexilacteos/itdesk/pkg/serrors"
)

type apiError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Violations []string          `json:"violations,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func writeJSON[T any](w http.ResponseWriter, status int, payload T) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Code: code, Message: message})
}

// writeDomainError maps lifecycle and lookup failures onto HTTP statuses.
// Guard and transition refusals are conflicts, validation failures carry
// their violations, version races ask the client to re-read.
func writeDomainError(w http.ResponseWriter, err error) {
	var fieldErrs serrors.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := map[string]string{}
		for field, fe := range fieldErrs {
			fields[field] = fe.Message
		}
		writeJSON(w, http.StatusBadRequest, apiError{
			Code:    request.CodeValidationFailed,
			Message: "Request payload is invalid.",
			Fields:  fields,
		})
		return
	}

	if vErr, ok := request.AsValidationError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{
			Code:       vErr.Code,
			Message:    vErr.Message,
			Violations: vErr.Violations,
		})
		return
	}

	switch {
	case errors.Is(err, request.ErrNotFound):
		writeAPIError(w, http.StatusNotFound, "REQUEST_NOT_FOUND", "Request not found.")
	case errors.Is(err, request.ErrStaleVersion):
		writeAPIError(w, http.StatusConflict, "REQUEST_STALE_VERSION", "Request was modified concurrently, re-read and retry.")
	case errors.Is(err, request.ErrFolioTaken):
		writeAPIError(w, http.StatusConflict, "REQUEST_FOLIO_TAKEN", "Folio already exists.")
	case errors.Is(err, composables.ErrNoActor):
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Actor identity is required.")
	case request.IsIllegalTransition(err), request.IsImmutableFieldViolation(err):
		writeAPIError(w, http.StatusConflict, serrors.Code(err), errMessage(err))
	case request.IsValidationFailed(err), request.IsMissingAssignment(err):
		writeAPIError(w, http.StatusUnprocessableEntity, serrors.Code(err), errMessage(err))
	default:
		writeAPIError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error.")
	}
}

func errMessage(err error) string {
	var base *serrors.BaseError
	if errors.As(err, &base) {
		return base.Message
	}
	return err.Error()
}
