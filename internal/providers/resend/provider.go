package resend

import (
	"context"
	"time"

	"github.com/resend/resend-go/v3"

	"github.com/lattiq/outreach/internal/core"
	"github.com/lattiq/outreach/internal/providers"
)

const name = "resend"

// Provider implements core.Relay using the Resend API.
type Provider struct {
	settings core.ProviderSettings
	client   *resend.Client
}

// NewProvider creates a new Resend provider.
// Recognised settings: api_key (falls back to the sender secret).
func NewProvider(settings core.ProviderSettings) (*Provider, error) {
	return &Provider{settings: settings}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return name
}

// Connect is a no-op; Resend is reached per request over HTTPS.
func (p *Provider) Connect(ctx context.Context) error {
	return nil
}

// Authenticate binds the API key to a client.
func (p *Provider) Authenticate(ctx context.Context, username, secret string) error {
	apiKey := providers.SecretOr(p.settings, "api_key", secret)
	if apiKey == "" {
		return core.NewProviderError(name, "auth_error", "Resend API key is required")
	}
	p.client = resend.NewClient(apiKey)

	return nil
}

// Send sends a single email using the Resend API.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.client == nil {
		return nil, core.NewProviderError(name, "not_authenticated", "authenticate before sending")
	}

	resp, err := p.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From.String(),
		To:      []string{msg.To.Email},
		Subject: msg.Subject,
		Html:    msg.HTMLBody,
		Text:    msg.TextBody,
	})
	if err != nil {
		return nil, core.WrapProviderError(name, "send_error", err)
	}

	return &core.SendResult{
		MessageID: resp.Id,
		Relay:     name,
		Timestamp: time.Now(),
	}, nil
}

// Close drops the client.
func (p *Provider) Close() error {
	p.client = nil
	return nil
}
