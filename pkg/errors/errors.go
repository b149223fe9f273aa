package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = NewError("NOT_FOUND", "resource not found", http.StatusNotFound)
	ErrValidation      = NewError("VALIDATION_ERROR", "validation failed", http.StatusBadRequest)
	ErrConflict        = NewError("CONFLICT", "resource conflict", http.StatusConflict)
	ErrUpstream        = NewError("UPSTREAM_FAILURE", "upstream service failure", http.StatusInternalServerError)
	ErrInternal        = NewError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	ErrFeatureDisabled = NewError("FEATURE_DISABLED", "feature disabled", http.StatusServiceUnavailable)
)

// Error is the application error carried from services up to the HTTP layer.
type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Cause   error
}

func NewError(code, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Details: make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Code so that errors.Is(err, ErrNotFound) holds for derived copies.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// PublicMessage is what callers see in the "error" field. Server-side
// failures expose the underlying cause, matching what operators expect
// when an upstream call breaks.
func (e *Error) PublicMessage() string {
	if e.Status >= http.StatusInternalServerError && e.Cause != nil && e.Code != ErrFeatureDisabled.Code {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *Error) WithCause(cause error) *Error {
	err := e.clone()
	err.Cause = cause
	return err
}

func (e *Error) WithMessage(message string) *Error {
	err := e.clone()
	err.Message = message
	return err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := e.clone()
	err.Details[key] = value
	return err
}

func (e *Error) clone() *Error {
	err := *e
	err.Details = make(map[string]interface{}, len(e.Details))
	for k, v := range e.Details {
		err.Details[k] = v
	}
	return &err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func ToHTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// ToErrorResponse renders err as the JSON body shared by every endpoint:
// {"error": ..., "error_code": ...} plus detail keys at the top level.
func ToErrorResponse(err error) map[string]interface{} {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = ErrInternal.WithCause(err)
	}

	response := make(map[string]interface{}, len(appErr.Details)+2)
	for k, v := range appErr.Details {
		response[k] = v
	}
	response["error"] = appErr.PublicMessage()
	response["error_code"] = appErr.Code

	return response
}
