// File: internal/services/sms/errors.go
package sms

import "fmt"

// ErrorType classifies SMS failures for retry decisions.
type ErrorType string

const (
	ErrTypeConfig     ErrorType = "config"
	ErrTypeValidation ErrorType = "validation"
	ErrTypeNetwork    ErrorType = "network"
	ErrTypeRateLimit  ErrorType = "rate_limit"
	ErrTypeProvider   ErrorType = "provider"
)

// SMSError is a typed error from the SMS layer.
type SMSError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *SMSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sms %s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("sms %s error: %s", e.Type, e.Message)
}

func (e *SMSError) Unwrap() error { return e.Cause }

// Retryable reports whether the failure is worth retrying.
func (e *SMSError) Retryable() bool {
	return e.Type == ErrTypeNetwork || e.Type == ErrTypeProvider
}
