package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// kindStatus maps engine error kinds onto HTTP statuses.
var kindStatus = map[domain.ErrorKind]int{
	domain.ErrNotFound:               http.StatusNotFound,
	domain.ErrForbidden:              http.StatusForbidden,
	domain.ErrInvalidTransition:      http.StatusConflict,
	domain.ErrAlreadyCompleted:       http.StatusConflict,
	domain.ErrConcurrentModification: http.StatusConflict,
	domain.ErrTransactionFailed:      http.StatusInternalServerError,
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var engineErr *domain.Error
	if errors.As(err, &engineErr) {
		status, ok := kindStatus[engineErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		var details map[string]any
		if engineErr.Reason != "" {
			details = map[string]any{"reason": engineErr.Reason}
		}
		return &DomainError{
			Code:       string(engineErr.Kind),
			Message:    engineErr.Message,
			HTTPStatus: status,
			Details:    details,
			Err:        engineErr.Err,
		}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
