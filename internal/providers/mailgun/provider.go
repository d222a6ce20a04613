package mailgun

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/lattiq/outreach/internal/core"
	"github.com/lattiq/outreach/internal/providers"
)

const name = "mailgun"

// Provider implements core.Relay for Mailgun.
type Provider struct {
	settings core.ProviderSettings
	domain   string
	client   mailgun.Mailgun
}

// NewProvider creates a new Mailgun provider.
// Recognised settings: domain (required), api_key (falls back to the
// sender secret), base_url (for EU customers).
func NewProvider(settings core.ProviderSettings) (*Provider, error) {
	domain := settings.Get("domain")
	if domain == "" {
		return nil, core.NewValidationError("domain", "Mailgun domain is required")
	}

	return &Provider{settings: settings, domain: domain}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return name
}

// Connect is a no-op; Mailgun is reached per request over HTTPS.
func (p *Provider) Connect(ctx context.Context) error {
	return nil
}

// Authenticate binds the API key to a client. Mailgun checks the key on the
// first request, so a rejected key surfaces as a send error.
func (p *Provider) Authenticate(ctx context.Context, username, secret string) error {
	apiKey := providers.SecretOr(p.settings, "api_key", secret)
	if apiKey == "" {
		return core.NewProviderError(name, "auth_error", "Mailgun API key is required")
	}

	client := mailgun.NewMailgun(p.domain, apiKey)
	if baseURL := p.settings.Get("base_url"); baseURL != "" {
		client.SetAPIBase(baseURL)
	}
	p.client = client

	return nil
}

// Send sends a single email using Mailgun.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.client == nil {
		return nil, core.NewProviderError(name, "not_authenticated", "authenticate before sending")
	}

	message := mailgun.NewMessage(msg.From.String(), msg.Subject, msg.TextBody, msg.To.String())
	message.SetHTML(msg.HTMLBody)

	// Mailgun v4 returns the server message and the id
	_, id, err := p.client.Send(ctx, message)
	if err != nil {
		return nil, core.WrapProviderError(name, "send_failed", err)
	}

	return &core.SendResult{
		MessageID: id,
		Relay:     name,
		Timestamp: time.Now(),
	}, nil
}

// Close drops the client.
func (p *Provider) Close() error {
	p.client = nil
	return nil
}
