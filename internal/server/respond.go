package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcncl/jsonmodel/internal/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Type    errors.ErrorType  `json:"type"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, detail := describeError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	} else {
		s.log.Debug().Err(err).Msg("request rejected")
	}
	writeJSON(w, status, ErrorBody{Error: detail})
}

func describeError(err error) (int, ErrorDetail) {
	var valErrs validator.ValidationErrors
	if stderrors.As(err, &valErrs) {
		details := make(map[string]string, len(valErrs))
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			msg := formatValidationError(ve)
			details[ve.Field()] = msg
			messages = append(messages, ve.Field()+": "+msg)
		}
		return http.StatusBadRequest, ErrorDetail{
			Type:    errors.ErrorTypeInput,
			Message: strings.Join(messages, "; "),
			Details: details,
		}
	}

	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge, ErrorDetail{
			Type:    errors.ErrorTypeInput,
			Message: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
		}
	}

	detail := ErrorDetail{Type: errors.TypeOf(err), Message: err.Error()}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		detail.Message = appErr.Message
	}

	switch detail.Type {
	case errors.ErrorTypeStructure:
		return http.StatusUnprocessableEntity, detail
	case errors.ErrorTypeInput, errors.ErrorTypeParsing, errors.ErrorTypeOptions:
		return http.StatusBadRequest, detail
	case errors.ErrorTypeFetch:
		return http.StatusBadGateway, detail
	default:
		return http.StatusInternalServerError, detail
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "required_without":
		return fmt.Sprintf("required when %s is not set", ve.Param())
	case "excluded_with":
		return fmt.Sprintf("must not be set together with %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
