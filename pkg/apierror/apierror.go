package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced by the client. Session-internal codes
// (DECODE_ERROR, TOKEN_EXPIRED, PROFILE_FETCH, STORAGE) never reach the
// user directly; the rest map onto messages the CLI prints.
const (
	CodeDecode       = "DECODE_ERROR"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeProfileFetch = "PROFILE_FETCH"
	CodeStorage      = "STORAGE"
	CodeAPI          = "API_ERROR"
	CodeValidation   = "VALIDATION"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeCEPNotFound  = "CEP_NOT_FOUND"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// FromStatus builds the error for a non-2xx backend response, keeping the
// server-provided message when there is one.
func FromStatus(status int, message string) *APIError {
	code := CodeAPI
	switch status {
	case http.StatusUnauthorized:
		code = CodeUnauthorized
	case http.StatusForbidden:
		code = CodeForbidden
	case http.StatusNotFound:
		code = CodeNotFound
	}

	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}

	return &APIError{Code: code, Message: message, HTTPStatus: status}
}

// As unwraps err into an *APIError when there is one in the chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code string) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}
