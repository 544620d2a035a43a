package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"marketlens/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
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

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. Domain errors are classified
// so the code survives the wrap.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(FromDomain(err)),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is or wraps an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the outermost AppError code, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeColumnNotFound   = "COLUMN_NOT_FOUND"
	CodeMissingColumns   = "MISSING_COLUMNS"
	CodeEmptyDataset     = "EMPTY_DATASET"
	CodeNoValidPrices    = "NO_VALID_PRICES"
	CodeNoFeatureSource  = "NO_FEATURE_SOURCE"
	CodeUnsupportedInput = "UNSUPPORTED_INPUT"
)

// FromDomain classifies an error from the domain layer. Errors that are already
// AppErrors are returned unchanged; unrecognized errors become internal errors.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	code := CodeInternalError
	switch {
	case stderrors.Is(err, core.ErrColumnNotFound):
		code = CodeColumnNotFound
	case stderrors.Is(err, core.ErrMissingColumns):
		code = CodeMissingColumns
	case stderrors.Is(err, core.ErrEmptyDataset):
		code = CodeEmptyDataset
	case stderrors.Is(err, core.ErrNoValidPrices):
		code = CodeNoValidPrices
	case stderrors.Is(err, core.ErrNoFeatureSource):
		code = CodeNoFeatureSource
	case stderrors.Is(err, core.ErrUnknownStrategy), stderrors.Is(err, core.ErrInvalidOptions):
		code = CodeInvalidInput
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

// HTTPStatus maps an error code onto the status the HTTP layer responds with.
func HTTPStatus(code string) int {
	switch code {
	case CodeColumnNotFound, CodeMissingColumns, CodeEmptyDataset,
		CodeNoValidPrices, CodeNoFeatureSource:
		return http.StatusUnprocessableEntity
	case CodeInvalidInput, CodeUnsupportedInput:
		return http.StatusBadRequest
	case CodeExternalService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func UnsupportedInput(format string) *AppError {
	return New(CodeUnsupportedInput, fmt.Sprintf("unsupported input format %q", format))
}
