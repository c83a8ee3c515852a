package shared

import (
	"errors"
	"net/http"
)

const (
	ErrValidation        = "VALIDATION"
	ErrWrongState        = "WRONG_STATE"
	ErrForbidden         = "FORBIDDEN"
	ErrNotFound          = "NOT_FOUND"
	ErrGameFull          = "GAME_FULL"
	ErrDuplicate         = "DUPLICATE"
	ErrExpired           = "EXPIRED"
	ErrInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrAlreadyOwned      = "ALREADY_OWNED"
	ErrConflict          = "CONFLICT"
	ErrStorageFailure    = "STORAGE_FAILURE"
)

// AppError is the error envelope every service returns for expected,
// caller-recoverable outcomes. StorageFailure is the one unexpected kind.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

func NewValidationError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrValidation, Message: message}
}

func NewWrongStateError(message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: ErrWrongState, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Code: ErrForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrNotFound, Message: message}
}

func NewGameFullError(message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: ErrGameFull, Message: message}
}

func NewDuplicateError(message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: ErrDuplicate, Message: message}
}

func NewExpiredError(message string) *AppError {
	return &AppError{StatusCode: http.StatusGone, Code: ErrExpired, Message: message}
}

func NewInsufficientFundsError(message string, data interface{}) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrInsufficientFunds, Message: message, Data: data}
}

func NewAlreadyOwnedError(message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: ErrAlreadyOwned, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: ErrConflict, Message: message}
}

func NewStorageError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: ErrStorageFailure, Message: message, Err: err}
}
