package outreach

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lattiq/outreach/internal/logger"
)

// Config holds the complete outreach configuration.
type Config struct {
	// Relay contains the mail relay connection settings.
	Relay RelayConfig `mapstructure:"relay"`

	// Files points at the sender, content and replacement records.
	Files FilesConfig `mapstructure:"files"`

	// Roster names the recipient source columns.
	Roster RosterConfig `mapstructure:"roster"`

	// Content contains per-message rendering options.
	Content ContentConfig `mapstructure:"content"`

	// Logging contains logging configuration.
	Logging LoggingConfig `mapstructure:"log"`

	logger *zerolog.Logger
	relay  Relay
}

// RelayConfig contains the relay kind and its connection parameters.
type RelayConfig struct {
	// Type specifies the relay driver to use.
	Type RelayType `mapstructure:"type"`

	// Host is the SMTP submission host.
	Host string `mapstructure:"host"`

	// Port is the SMTP submission port.
	Port int `mapstructure:"port"`

	// StartTLS requires the channel to be upgraded before authenticating.
	StartTLS bool `mapstructure:"starttls"`

	// TLSSkipVerify disables certificate verification.
	// Only meant for local test relays.
	TLSSkipVerify bool `mapstructure:"tls_skip_verify"`

	// Timeout bounds each exchange with the relay.
	Timeout time.Duration `mapstructure:"timeout"`

	// Settings carries driver-specific values (region, api_key, domain, ...).
	Settings ProviderSettings `mapstructure:"settings"`
}

// RelayType represents the kind of mail relay.
type RelayType string

const (
	// RelaySMTP represents a generic SMTP submission server.
	RelaySMTP RelayType = "smtp"

	// RelayAWSSES represents Amazon Simple Email Service.
	RelayAWSSES RelayType = "aws_ses"

	// RelaySendGrid represents the SendGrid email service.
	RelaySendGrid RelayType = "sendgrid"

	// RelayMailgun represents the Mailgun email service.
	RelayMailgun RelayType = "mailgun"

	// RelayResend represents the Resend email service.
	RelayResend RelayType = "resend"

	// RelayLog logs messages instead of sending them.
	RelayLog RelayType = "log"
)

// String returns the string representation of the relay type.
func (rt RelayType) String() string {
	return string(rt)
}

// Valid checks if the relay type is supported.
func (rt RelayType) Valid() bool {
	switch rt {
	case RelaySMTP, RelayAWSSES, RelaySendGrid, RelayMailgun, RelayResend, RelayLog:
		return true
	default:
		return false
	}
}

// FilesConfig holds the paths of the JSON records read at startup.
type FilesConfig struct {
	SenderInfo       string `mapstructure:"sender_info"`
	EmailInfo        string `mapstructure:"email_info"`
	TextReplacements string `mapstructure:"text_replacements"`
}

// RosterConfig names the recipient source columns.
type RosterConfig struct {
	EmailColumn string `mapstructure:"email_column"`
	NameColumn  string `mapstructure:"name_column"`
	GroupColumn string `mapstructure:"group_column"`
}

// ContentConfig contains per-message rendering options.
type ContentConfig struct {
	// PlainText adds a text/plain alternative derived from the HTML body.
	PlainText bool `mapstructure:"plain_text"`

	// RecipientFields fills placeholders from recipient columns.
	RecipientFields []FieldReplacement `mapstructure:"recipient_fields"`
}

// FieldReplacement maps a placeholder to a roster column.
type FieldReplacement struct {
	Placeholder string `mapstructure:"placeholder"`
	Column      string `mapstructure:"column"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `mapstructure:"level"`

	// Format is the log format (console, json).
	Format string `mapstructure:"format"`

	// Output is where to write logs (stdout, stderr, or file path).
	Output string `mapstructure:"output"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Relay: RelayConfig{
			Type:     RelaySMTP,
			Host:     "smtp.gmail.com",
			Port:     587,
			StartTLS: true,
			Timeout:  30 * time.Second,
			Settings: ProviderSettings{},
		},
		Files: FilesConfig{
			SenderInfo:       "data/sender-info.json",
			EmailInfo:        "data/email-info.json",
			TextReplacements: "data/text-replacements.json",
		},
		Roster: RosterConfig{
			EmailColumn: "Email",
			NameColumn:  "Name",
			GroupColumn: "Volunteer assignment",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Validate checks if the configuration is valid and complete.
func (c *Config) Validate() error {
	if !c.Relay.Type.Valid() {
		return &ValidationError{
			Field:   "relay.type",
			Message: "invalid or unsupported relay type: " + string(c.Relay.Type),
		}
	}

	if c.Relay.Type == RelaySMTP {
		if c.Relay.Host == "" {
			return &ValidationError{Field: "relay.host", Message: "SMTP host is required"}
		}
		if c.Relay.Port <= 0 || c.Relay.Port > 65535 {
			return &ValidationError{
				Field:   "relay.port",
				Message: "port must be between 1 and 65535",
				Value:   c.Relay.Port,
			}
		}
	}

	if c.Relay.Timeout <= 0 {
		return &ValidationError{
			Field:   "relay.timeout",
			Message: "timeout must be greater than 0",
		}
	}

	if strings.TrimSpace(c.Roster.EmailColumn) == "" {
		return &ValidationError{Field: "roster.email_column", Message: "email column is required"}
	}

	for i, f := range c.Content.RecipientFields {
		if f.Placeholder == "" || f.Column == "" {
			return &ValidationError{
				Field:   "content.recipient_fields",
				Message: "placeholder and column are required",
				Value:   i,
			}
		}
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{
			Field:   "log.level",
			Message: "level must be one of debug, info, warn, error",
			Value:   c.Logging.Level,
		}
	}

	return nil
}
