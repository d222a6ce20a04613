package outreach

import (
	"github.com/lattiq/outreach/internal/core"
)

// Sentinel errors, re-exported from the core package.
var (
	// ErrInvalidSender indicates the sender address failed validation.
	ErrInvalidSender = core.ErrInvalidSender

	// ErrNoRecipients indicates the recipient source held no rows.
	ErrNoRecipients = core.ErrNoRecipients

	// ErrRecipientSkipped marks a recipient that was passed over without a send attempt.
	ErrRecipientSkipped = core.ErrRecipientSkipped

	// ErrSessionClosed indicates the relay session has been closed.
	ErrSessionClosed = core.ErrSessionClosed

	// ErrNotAuthenticated indicates a send on a session that never logged in.
	ErrNotAuthenticated = core.ErrNotAuthenticated
)

// Error types and constructors.
type (
	ValidationError    = core.ValidationError
	ConfigurationError = core.ConfigurationError
	ProviderError      = core.ProviderError
	ConnectionError    = core.ConnectionError
	AuthError          = core.AuthError
	SendError          = core.SendError
	NoMatchError       = core.NoMatchError
)

var (
	NewValidationError          = core.NewValidationError
	NewValidationErrorWithValue = core.NewValidationErrorWithValue
	NewConfigurationError       = core.NewConfigurationError
	NewProviderError            = core.NewProviderError
	IsFatal                     = core.IsFatal
)

// BatchItemError represents an error for a specific item in a batch.
type BatchItemError struct {
	// Index is the position of the item in the batch.
	Index int

	// Email is the recipient address of the item.
	Email string

	// Error is the error that occurred for this item.
	Error error
}
