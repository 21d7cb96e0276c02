package httpx

import (
	"net/http"
)

// APIError is a failure rendered in the response envelope. Message is the
// only detail a client ever sees.
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// NewAPIError builds an APIError for status with message.
func NewAPIError(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message}
}

// WithMessage returns a copy carrying a different message.
func (e *APIError) WithMessage(message string) *APIError {
	cp := *e
	cp.Message = message
	return &cp
}

// Predefined errors, one per class of failure.
var (
	ErrBadRequest   = NewAPIError(http.StatusBadRequest, "Invalid request")
	ErrUnauthorized = NewAPIError(http.StatusUnauthorized, "Unauthorized request")
	ErrForbidden    = NewAPIError(http.StatusForbidden, "You do not have permission to perform this action")
	ErrNotFound     = NewAPIError(http.StatusNotFound, "Resource not found")
	ErrConflict     = NewAPIError(http.StatusConflict, "Resource already exists")
	ErrInternal     = NewAPIError(http.StatusInternalServerError, "Internal server error")
)

// WriteError writes err in the envelope. Data is always null and Success
// always false.
func WriteError(w http.ResponseWriter, err *APIError) {
	if err == nil {
		err = ErrInternal
	}
	out := *err
	out.Data = nil
	out.Success = false
	WriteJSON(w, out.StatusCode, out)
}
