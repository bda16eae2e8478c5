package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidKind      ErrorCode = "INVALID_KIND"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeEmptyName        ErrorCode = "EMPTY_NAME"
	ErrCodeInvalidFilter    ErrorCode = "INVALID_FILTER"

	ErrCodeMissingCategory     ErrorCode = "MISSING_CATEGORY"
	ErrCodeUnexpectedCategory  ErrorCode = "UNEXPECTED_CATEGORY"
	ErrCodeMissingDestination  ErrorCode = "MISSING_DESTINATION"
	ErrCodeSameAccountTransfer ErrorCode = "SAME_ACCOUNT_TRANSFER"

	ErrCodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeAccountNotFound     ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeCategoryNotFound    ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeSubCategoryNotFound ErrorCode = "SUBCATEGORY_NOT_FOUND"

	ErrCodeDuplicateName  ErrorCode = "DUPLICATE_NAME"
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
)

// AppError is the single error shape crossing service boundaries. The
// HTTP layer maps it to a response; everything below it wraps causes.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Retryable  bool        `json:"retryable,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewInfrastructureError marks a storage-level failure. The enclosing
// atomic unit has already been rolled back by the time this surfaces;
// callers may retry the whole operation.
func NewInfrastructureError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeStorageFailure,
		Message:    message,
		Retryable:  true,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      ErrorType   `json:"type"`
		Code      ErrorCode   `json:"code"`
		Message   string      `json:"message"`
		Details   interface{} `json:"details,omitempty"`
		Retryable bool        `json:"retryable,omitempty"`
	}{
		Type:      e.Type,
		Code:      e.Code,
		Message:   e.Message,
		Details:   e.Details,
		Retryable: e.Retryable,
	})
}
