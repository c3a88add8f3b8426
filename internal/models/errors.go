package models

import (
	"errors"
	"net/http"
)

// Error codes exposed to callers
const (
	CodeDomainError         = "DOMAIN_ERROR"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
)

// DomainError is an expected business-rule outcome. It carries a machine readable code and
// the HTTP status a boundary should answer with.
type DomainError struct {
	Code    string
	Status  int
	Message string
	Details map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches sentinels by code. Every DomainError is ErrDomain, and insufficient credits
// is also a conflict.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	switch t.Code {
	case e.Code, CodeDomainError:
		return true
	case CodeConflict:
		return e.Code == CodeInsufficientCredits
	}
	return false
}

// Sentinels for errors.Is
var (
	ErrDomain              = &DomainError{Code: CodeDomainError, Status: http.StatusBadRequest}
	ErrValidation          = &DomainError{Code: CodeValidationError, Status: http.StatusBadRequest}
	ErrNotFound            = &DomainError{Code: CodeNotFound, Status: http.StatusNotFound}
	ErrConflict            = &DomainError{Code: CodeConflict, Status: http.StatusConflict}
	ErrInsufficientCredits = &DomainError{Code: CodeInsufficientCredits, Status: http.StatusConflict}
	ErrUnauthorized        = &DomainError{Code: CodeUnauthorized, Status: http.StatusUnauthorized}
	ErrForbidden           = &DomainError{Code: CodeForbidden, Status: http.StatusForbidden}
)

func NewDomainError(message string) *DomainError {
	return &DomainError{Code: CodeDomainError, Status: http.StatusBadRequest, Message: message}
}

func NewValidationError(message string, details map[string]string) *DomainError {
	return &DomainError{Code: CodeValidationError, Status: http.StatusBadRequest, Message: message, Details: details}
}

func NewNotFoundError(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Status: http.StatusConflict, Message: message}
}

func NewInsufficientCreditsError(message string) *DomainError {
	return &DomainError{Code: CodeInsufficientCredits, Status: http.StatusConflict, Message: message}
}

func NewUnauthorizedError(message string) *DomainError {
	if message == "" {
		message = "Authentication required"
	}
	return &DomainError{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *DomainError {
	return &DomainError{Code: CodeForbidden, Status: http.StatusForbidden, Message: message}
}

// AsDomainError unwraps err into a *DomainError.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
