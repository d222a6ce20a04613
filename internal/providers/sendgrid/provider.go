package sendgrid

import (
	"context"
	"net/url"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/lattiq/outreach/internal/core"
	"github.com/lattiq/outreach/internal/providers"
)

const (
	name        = "sendgrid"
	defaultHost = "https://api.sendgrid.com"
)

// Provider implements core.Relay for SendGrid.
type Provider struct {
	settings core.ProviderSettings
	host     string
	client   *sendgrid.Client
}

// NewProvider creates a new SendGrid provider.
// Recognised settings: api_key (falls back to the sender secret), host.
func NewProvider(settings core.ProviderSettings) (*Provider, error) {
	return &Provider{settings: settings}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return name
}

// Connect resolves the API endpoint. SendGrid is reached per request over
// HTTPS, so no channel is held open.
func (p *Provider) Connect(ctx context.Context) error {
	host := p.settings.Get("host")
	if host == "" {
		host = defaultHost
	}
	if u, err := url.Parse(host); err != nil || u.Scheme != "https" {
		return core.NewProviderError(name, "config_error", "host must be an https URL: "+host)
	}
	p.host = host

	return nil
}

// Authenticate checks the API key against the scopes endpoint.
func (p *Provider) Authenticate(ctx context.Context, username, secret string) error {
	if p.host == "" {
		return core.NewProviderError(name, "not_connected", "connect before authenticating")
	}

	apiKey := providers.SecretOr(p.settings, "api_key", secret)
	if apiKey == "" {
		return core.NewProviderError(name, "auth_error", "SendGrid API key is required")
	}

	response, err := sendgrid.MakeRequestWithContext(ctx, sendgrid.GetRequest(apiKey, "/v3/scopes", p.host))
	if err != nil {
		return core.WrapProviderError(name, "auth_error", err)
	}
	if response.StatusCode >= 400 {
		return &core.ProviderError{
			Provider:   name,
			Code:       "auth_error",
			Message:    "SendGrid rejected the API key: " + response.Body,
			StatusCode: response.StatusCode,
		}
	}

	p.client = sendgrid.NewSendClient(apiKey)

	return nil
}

// Send sends a single email using SendGrid.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.client == nil {
		return nil, core.NewProviderError(name, "not_authenticated", "authenticate before sending")
	}

	response, err := p.client.SendWithContext(ctx, buildMessage(msg))
	if err != nil {
		return nil, core.WrapProviderError(name, "send_error", err)
	}

	if response.StatusCode >= 400 {
		return nil, &core.ProviderError{
			Provider:   name,
			Code:       "api_error",
			Message:    "SendGrid API error: " + response.Body,
			StatusCode: response.StatusCode,
		}
	}

	// SendGrid reports the id in X-Message-Id
	messageID := "unknown"
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	return &core.SendResult{
		MessageID: messageID,
		Relay:     name,
		Timestamp: time.Now(),
	}, nil
}

// Close drops the client.
func (p *Provider) Close() error {
	p.client = nil
	p.host = ""
	return nil
}

func buildMessage(msg *core.Message) *mail.SGMailV3 {
	from := mail.NewEmail(msg.From.Name, msg.From.Email)
	to := mail.NewEmail(msg.To.Name, msg.To.Email)
	return mail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)
}
