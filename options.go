package outreach

import (
	"time"

	"github.com/rs/zerolog"
)

// Option is a functional option for configuring the outreach client.
type Option func(*Config)

// WithRelay sets the relay type and its driver settings.
func WithRelay(relayType RelayType, settings ProviderSettings) Option {
	return func(c *Config) {
		c.Relay.Type = relayType
		c.Relay.Settings = settings
	}
}

// WithSMTP points the client at an SMTP submission server.
func WithSMTP(host string, port int) Option {
	return func(c *Config) {
		c.Relay.Type = RelaySMTP
		c.Relay.Host = host
		c.Relay.Port = port
	}
}

// WithStartTLS enables or disables the STARTTLS upgrade before login.
func WithStartTLS(enabled bool) Option {
	return func(c *Config) {
		c.Relay.StartTLS = enabled
	}
}

// WithTimeout sets the relay exchange timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Relay.Timeout = timeout
	}
}

// WithAWSSES creates an AWS SES relay configuration.
func WithAWSSES(region string) Option {
	return WithRelay(RelayAWSSES, ProviderSettings{
		"region": region,
	})
}

// WithSendGrid creates a SendGrid relay configuration.
// An empty apiKey makes the sender's secret the key.
func WithSendGrid(apiKey string) Option {
	return WithRelay(RelaySendGrid, ProviderSettings{
		"api_key": apiKey,
	})
}

// WithMailgun creates a Mailgun relay configuration.
func WithMailgun(apiKey, domain string) Option {
	return WithRelay(RelayMailgun, ProviderSettings{
		"api_key": apiKey,
		"domain":  domain,
	})
}

// WithMailgunEU creates a Mailgun relay configuration for EU region.
func WithMailgunEU(apiKey, domain string) Option {
	return WithRelay(RelayMailgun, ProviderSettings{
		"api_key":  apiKey,
		"domain":   domain,
		"base_url": "https://api.eu.mailgun.net",
	})
}

// WithResend creates a Resend relay configuration.
func WithResend(apiKey string) Option {
	return WithRelay(RelayResend, ProviderSettings{
		"api_key": apiKey,
	})
}

// WithDryRun logs messages instead of sending them.
func WithDryRun() Option {
	return WithRelay(RelayLog, ProviderSettings{})
}

// WithRelayDriver makes the client use relay instead of building one from
// the relay configuration. The relay is used for a single run.
func WithRelayDriver(relay Relay) Option {
	return func(c *Config) {
		c.relay = relay
	}
}

// WithGroupColumn sets the roster column used for group filtering.
func WithGroupColumn(column string) Option {
	return func(c *Config) {
		c.Roster.GroupColumn = column
	}
}

// WithPlainText enables the text/plain alternative part.
func WithPlainText(enabled bool) Option {
	return func(c *Config) {
		c.Content.PlainText = enabled
	}
}

// WithRecipientField fills placeholder from the recipient's column.
func WithRecipientField(placeholder, column string) Option {
	return func(c *Config) {
		c.Content.RecipientFields = append(c.Content.RecipientFields, FieldReplacement{
			Placeholder: placeholder,
			Column:      column,
		})
	}
}

// WithLogging configures logging.
func WithLogging(level, format, output string) Option {
	return func(c *Config) {
		c.Logging.Level = level
		c.Logging.Format = format
		c.Logging.Output = output
	}
}

// WithLogger sets the logger used by the client.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.logger = &logger
	}
}
