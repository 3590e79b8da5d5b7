package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Authentication error codes
const (
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeRegistrationRejected = "REGISTRATION_REJECTED"
	ErrCodeSessionExpired       = "SESSION_EXPIRED"
)

// Analysis error codes
const (
	ErrCodeEmptyInput    = "EMPTY_INPUT"
	ErrCodeRequestFailed = "REQUEST_FAILED"
	ErrCodeParseFailure  = "PARSE_FAILURE"
)

// Supporting error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeCancelled         = "CANCELLED"
	ErrCodeBusy              = "BUSY"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeUnknown           = "UNKNOWN_ERROR"
)

// GenericRequestFailure is shown when the backend gives no structured detail.
const GenericRequestFailure = "Request failed. Please check your connection and try again."

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidCredentialsError creates an invalid credentials error
func NewInvalidCredentialsError(cause error) error {
	return NewDomainError(ErrCodeInvalidCredentials, "invalid username or password", cause)
}

// NewRegistrationRejectedError carries the server detail verbatim
func NewRegistrationRejectedError(detail string, cause error) error {
	return NewDomainError(ErrCodeRegistrationRejected, detail, cause)
}

// NewSessionExpiredError creates a session expired error
func NewSessionExpiredError(cause error) error {
	return NewDomainError(ErrCodeSessionExpired, "session expired, please log in again", cause)
}

// NewEmptyInputError creates an empty input error
func NewEmptyInputError() error {
	return NewDomainError(ErrCodeEmptyInput, "please enter some text to analyze", nil)
}

// NewRequestFailedError creates a request failure carrying the server detail
func NewRequestFailedError(detail string, cause error) error {
	if detail == "" {
		detail = GenericRequestFailure
	}
	return NewDomainError(ErrCodeRequestFailed, detail, cause)
}

// NewNetworkError reports a transport failure as a request failure
func NewNetworkError(cause error) error {
	return NewDomainError(ErrCodeRequestFailed, GenericRequestFailure, cause)
}

// NewParseFailureError creates a parse failure error
func NewParseFailureError(message string, cause error) error {
	return NewDomainError(ErrCodeParseFailure, message, cause)
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return NewDomainError(ErrCodeNotFound, message, nil)
}

// NewCancelledError reports an action the user declined
func NewCancelledError(message string) error {
	return NewDomainError(ErrCodeCancelled, message, nil)
}

// NewBusyError reports an operation already in flight
func NewBusyError(operation string) error {
	return NewDomainError(ErrCodeBusy, fmt.Sprintf("%s already in progress", operation), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// ErrorCode returns the code of the first DomainError in the chain, or "".
func ErrorCode(err error) string {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

// IsSessionExpired reports whether err means the session is no longer valid.
func IsSessionExpired(err error) bool {
	return IsCode(err, ErrCodeSessionExpired)
}

// UserMessage returns the message suitable for showing to the user.
func UserMessage(err error) string {
	var de DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
