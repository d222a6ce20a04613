package core

import (
	"context"
	"mime"
	"strconv"
	"time"
)

// Relay is the contract every mail relay driver implements.
// A relay is driven through Connect, Authenticate, any number of Send calls
// and finally Close. Drivers are not safe for concurrent use; a single
// session owns a relay for the duration of a run.
type Relay interface {
	// Connect opens the transport channel to the relay.
	Connect(ctx context.Context) error

	// Authenticate upgrades the channel to an encrypted one where the
	// relay supports it and logs in with the given credentials.
	Authenticate(ctx context.Context, username, secret string) error

	// Send transmits one message over an authenticated channel.
	// A failed Send must leave the relay usable for the next message.
	Send(ctx context.Context, msg *Message) (*SendResult, error)

	// Close releases the channel.
	Close() error

	// Name returns the relay's name for identification and logging.
	Name() string
}

// ProviderSettings represents configuration settings for relay drivers.
type ProviderSettings map[string]string

// Get retrieves a configuration value by key.
func (ps ProviderSettings) Get(key string) string {
	return ps[key]
}

// Set sets a configuration value.
func (ps ProviderSettings) Set(key, value string) {
	ps[key] = value
}

// Bool reports whether the value stored under key is "true".
func (ps ProviderSettings) Bool(key string) bool {
	v, err := strconv.ParseBool(ps[key])
	return err == nil && v
}

// Address represents an email address with optional display name.
type Address struct {
	Name  string `json:"name"`  // Display name (optional)
	Email string `json:"email"` // Email address (required)
}

// String returns the formatted email address.
// If Name is provided, returns "Name <email@domain.com>"
// Otherwise returns just "email@domain.com"
func (a Address) String() string {
	if a.Name != "" {
		return mime.QEncoding.Encode("UTF-8", a.Name) + " <" + a.Email + ">"
	}
	return a.Email
}

// SenderProfile is the validated identity used as the From party and as the
// relay credential holder. Obtain one through NewSenderProfile.
type SenderProfile struct {
	name      string
	address   string
	secret    string
	classYear string
}

// NewSenderProfile returns a profile for the given identity, or
// ErrInvalidSender when the address does not pass IsValidAddress.
func NewSenderProfile(name, address, secret, classYear string) (*SenderProfile, error) {
	if !IsValidAddress(address) {
		return nil, ErrInvalidSender
	}
	return &SenderProfile{
		name:      name,
		address:   address,
		secret:    secret,
		classYear: classYear,
	}, nil
}

// Name returns the sender's display name.
func (s *SenderProfile) Name() string { return s.name }

// Address returns the sender's account address.
func (s *SenderProfile) Address() string { return s.address }

// Secret returns the relay credential.
func (s *SenderProfile) Secret() string { return s.secret }

// ClassYear returns the optional class year recorded for the sender.
func (s *SenderProfile) ClassYear() string { return s.classYear }

// String returns a representation of the profile that never includes the secret.
func (s *SenderProfile) String() string {
	return "{Name: " + s.name + ", Email: " + s.address + "}"
}

// Content is the outgoing message template: a literal subject and the raw
// HTML body prior to substitution.
type Content struct {
	Subject string
	Body    string
}

// Replacement is one placeholder/value pair applied to a template.
type Replacement struct {
	Pattern string
	Value   string
}

// String returns a representation of the replacement for logging.
func (r Replacement) String() string {
	return "{Text to replace: " + r.Pattern + ", Replacement: " + r.Value + "}"
}

// Recipient is one row of the roster.
type Recipient struct {
	// Email is the recipient address as it appeared in the source.
	Email string

	// Name is the recipient's display name (optional).
	Name string

	// Group is the handler assignment used for filtering (optional).
	Group string

	// Fields holds every column of the row keyed by header name.
	Fields map[string]string

	// Row is the 1-based data row number in the source.
	Row int
}

// Field returns the value of the named column, or "" if absent.
func (r Recipient) Field(column string) string {
	return r.Fields[column]
}

// Message is a ready-to-send email. It is built by Compose and treated as
// immutable afterwards.
type Message struct {
	From     Address
	To       Address
	Subject  string
	HTMLBody string
	TextBody string
}

// SendResult contains the result of sending a single message.
type SendResult struct {
	// MessageID is the identifier assigned by the relay, if any.
	MessageID string

	// Relay is the name of the relay that accepted the message.
	Relay string

	// Timestamp when the message was accepted by the relay.
	Timestamp time.Time
}
