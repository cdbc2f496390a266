package domain

import (
	"errors"
	"net/http"
)

// Reserved error codes. The closed interval [ReservedMin, ReservedMax] belongs
// to the platform; business domains must pick codes outside of it.
const (
	ReservedMin int16 = -128
	ReservedMax int16 = 128

	CodeOK           int16 = 0
	CodeUnknown      int16 = -1
	CodeSystem       int16 = -2
	CodeValidation   int16 = -3
	CodeUnauthorized int16 = -4
	CodeForbidden    int16 = -5
	CodeNotFound     int16 = -10
	CodeConflict     int16 = -11
	CodeDatabase     int16 = -12
)

// CodedError is implemented by every failure that can cross the API boundary.
type CodedError interface {
	error
	HTTPStatus() int
	ErrorCode() int16
	ErrorMessage() string
}

// AppError is the general purpose CodedError carrying a code, a user facing
// message, an HTTP status and an optional wrapped cause.
type AppError struct {
	Code    int16  `json:"code"`
	Message string `json:"msg"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status to answer with, 500 when unset.
func (e *AppError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// ErrorCode returns the numeric error code.
func (e *AppError) ErrorCode() int16 { return e.Code }

// ErrorMessage returns the user facing message, without the wrapped cause.
func (e *AppError) ErrorMessage() string { return e.Message }

// Predefined reserved errors.
//
// To check whether an error matches one of these categories, use the
// corresponding helper function (IsNotFound, IsConflict, etc.) instead of
// errors.Is. The helpers compare codes through errors.As, so they also match
// freshly constructed instances and DatabaseError values of the same family.
var (
	ErrUnknown      = &AppError{Code: CodeUnknown, Message: "unknown error", Status: http.StatusInternalServerError}
	ErrSystem       = &AppError{Code: CodeSystem, Message: "internal server error", Status: http.StatusInternalServerError}
	ErrValidation   = &AppError{Code: CodeValidation, Message: "validation error", Status: http.StatusBadRequest}
	ErrUnauthorized = &AppError{Code: CodeUnauthorized, Message: "unauthorized", Status: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: CodeForbidden, Message: "forbidden", Status: http.StatusForbidden}
	ErrNotFound     = &AppError{Code: CodeNotFound, Message: "resource not found", Status: http.StatusNotFound}
	ErrConflict     = &AppError{Code: CodeConflict, Message: "resource already exists", Status: http.StatusConflict}
)

// NewAppError creates a new AppError with the given code, message and wrapped error.
// The status is derived from the reserved code table; business codes default to 500
// and should be built through an ErrorDomain instead.
func NewAppError(code int16, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  reservedStatus(code),
		Err:     err,
	}
}

// Validation is a shorthand for a validation error with a custom message.
func Validation(message string) *AppError {
	return NewAppError(CodeValidation, message, nil)
}

// IsReserved reports whether code lies in the platform reserved interval.
func IsReserved(code int16) bool {
	return code >= ReservedMin && code <= ReservedMax
}

// IsNotFound reports whether err carries the not found code.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsConflict reports whether err carries the conflict code.
func IsConflict(err error) bool {
	return hasCode(err, CodeConflict)
}

// IsValidation reports whether err carries the validation code.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsUnauthorized reports whether err carries the unauthorized code.
func IsUnauthorized(err error) bool {
	return hasCode(err, CodeUnauthorized)
}

func hasCode(err error, code int16) bool {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.ErrorCode() == code
	}
	return false
}

// AsCoded returns the CodedError carried by err. Errors outside the taxonomy
// are reported as ErrUnknown, wrapping the original for logging.
func AsCoded(err error) CodedError {
	if err == nil {
		return nil
	}
	var coded CodedError
	if errors.As(err, &coded) {
		return coded
	}
	return &AppError{Code: CodeUnknown, Message: ErrUnknown.Message, Status: http.StatusInternalServerError, Err: err}
}

// HTTPStatusCode maps an error to an HTTP status code.
func HTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	return AsCoded(err).HTTPStatus()
}

func reservedStatus(code int16) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
