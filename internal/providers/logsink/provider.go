// Package logsink provides a dry-run relay that writes messages to the log
// instead of delivering them.
package logsink

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/lattiq/outreach/internal/core"
)

const name = "log"

// Provider implements core.Relay by logging every message.
type Provider struct {
	log       zerolog.Logger
	connected bool
	sent      int
}

// NewProvider creates a dry-run relay that logs to log.
func NewProvider(log zerolog.Logger) *Provider {
	return &Provider{log: log.With().Str("relay", name).Logger()}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return name
}

// Connect marks the relay connected.
func (p *Provider) Connect(ctx context.Context) error {
	p.connected = true
	p.log.Debug().Msg("dry run: no relay connection is opened")
	return nil
}

// Authenticate accepts any credentials.
func (p *Provider) Authenticate(ctx context.Context, username, secret string) error {
	if !p.connected {
		return core.NewProviderError(name, "not_connected", "connect before authenticating")
	}
	p.log.Debug().Str("username", username).Msg("dry run: credentials not checked")
	return nil
}

// Send logs the message instead of sending it.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if !p.connected {
		return nil, core.NewProviderError(name, "not_connected", "connect before sending")
	}

	p.sent++
	id := "dry-run-" + strconv.Itoa(p.sent)
	p.log.Info().
		Str("message_id", id).
		Str("from", msg.From.String()).
		Str("to", msg.To.String()).
		Str("subject", msg.Subject).
		Str("body", msg.HTMLBody).
		Msg("email (dry run, not sent)")

	return &core.SendResult{
		MessageID: id,
		Relay:     name,
		Timestamp: time.Now(),
	}, nil
}

// Close marks the relay disconnected.
func (p *Provider) Close() error {
	p.connected = false
	return nil
}
