package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSender indicates the sender address failed validation.
	ErrInvalidSender = errors.New("sender address is not valid")

	// ErrNoRecipients indicates the recipient source contained no rows.
	ErrNoRecipients = errors.New("no recipients found")

	// ErrRecipientSkipped indicates a recipient was skipped without a send attempt.
	ErrRecipientSkipped = errors.New("recipient skipped")

	// ErrSessionClosed indicates an operation on a session that was closed or abandoned.
	ErrSessionClosed = errors.New("session closed")

	// ErrNotAuthenticated indicates a send attempted before authentication succeeded.
	ErrNotAuthenticated = errors.New("session not authenticated")
)

// ValidationError represents a validation error with specific field information.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string

	// Message is the validation error message.
	Message string

	// Value is the invalid value (optional).
	Value interface{}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error in %s: %s (value: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Is implements error matching for errors.Is.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ConfigurationError reports a missing or malformed configuration source.
// It is fatal for a run.
type ConfigurationError struct {
	// Source names the file or record that could not be used.
	Source string

	// Message describes the problem.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error in %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Source, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// ProviderError represents an error reported by a relay driver.
type ProviderError struct {
	// Provider is the name of the relay that generated the error.
	Provider string

	// Code is the driver-specific error code.
	Code string

	// Message is the error message.
	Message string

	// StatusCode is the HTTP status code (for HTTP-based relays).
	StatusCode int

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s error [%s] (status: %d): %s",
			e.Provider, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s error [%s]: %s", e.Provider, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *ProviderError) Is(target error) bool {
	pe, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Provider == pe.Provider && e.Code == pe.Code
}

// ConnectionError reports that the relay could not be reached.
type ConnectionError struct {
	Relay string
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s relay: %v", e.Relay, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// AuthError reports that the relay rejected the channel upgrade or the credentials.
type AuthError struct {
	Relay    string
	Username string
	Cause    error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("cannot log in to %s relay as %s: %v", e.Relay, e.Username, e.Cause)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// SendError reports that one message could not be transmitted.
// It never terminates the session.
type SendError struct {
	Recipient string
	Cause     error
}

// Error implements the error interface.
func (e *SendError) Error() string {
	return fmt.Sprintf("cannot send email to %s: %v", e.Recipient, e.Cause)
}

// Unwrap returns the underlying error.
func (e *SendError) Unwrap() error {
	return e.Cause
}

// NoMatchError reports that a group filter matched no recipient after a full pass.
type NoMatchError struct {
	Group string
}

// Error implements the error interface.
func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no recipients assigned to [%s]", e.Group)
}

// NewProviderError creates a new provider error.
func NewProviderError(provider, code, message string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
	}
}

// WrapProviderError creates a provider error carrying its cause.
func WrapProviderError(provider, code string, cause error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Code:     code,
		Message:  cause.Error(),
		Cause:    cause,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewValidationErrorWithValue creates a new validation error with a value.
func NewValidationErrorWithValue(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(source, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// IsFatal reports whether err must abort a run before or instead of sending.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var (
		cfgErr  *ConfigurationError
		connErr *ConnectionError
		authErr *AuthError
		valErr  *ValidationError
	)
	return errors.As(err, &cfgErr) ||
		errors.As(err, &connErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &valErr) ||
		errors.Is(err, ErrInvalidSender) ||
		errors.Is(err, ErrNoRecipients)
}
