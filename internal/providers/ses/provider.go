package ses

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/lattiq/outreach/internal/core"
	"github.com/lattiq/outreach/internal/providers"
)

const name = "aws_ses"

// Provider implements core.Relay for AWS SES.
type Provider struct {
	settings core.ProviderSettings
	cfg      *aws.Config
	client   *ses.Client
}

// NewProvider creates a new AWS SES provider.
// Recognised settings: region (required), access_key, secret_key,
// session_token, configuration_set.
func NewProvider(settings core.ProviderSettings) (*Provider, error) {
	if settings.Get("region") == "" {
		return nil, core.NewValidationError("region", "AWS region is required")
	}

	return &Provider{settings: settings}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return name
}

// Connect loads the AWS configuration for the region.
func (p *Provider) Connect(ctx context.Context) error {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(p.settings.Get("region")),
	)
	if err != nil {
		return core.WrapProviderError(name, "config_error", err)
	}
	p.cfg = &cfg

	return nil
}

// Authenticate installs static credentials when an access key is configured
// and checks them by reading the account's send quota. Without an access key
// the default credential chain is used and the secret is ignored.
func (p *Provider) Authenticate(ctx context.Context, username, secret string) error {
	if p.cfg == nil {
		return core.NewProviderError(name, "not_connected", "connect before authenticating")
	}

	cfg := p.cfg.Copy()
	if accessKey := p.settings.Get("access_key"); accessKey != "" {
		secretKey := providers.SecretOr(p.settings, "secret_key", secret)
		sessionToken := p.settings.Get("session_token")
		cfg.Credentials = aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     accessKey,
				SecretAccessKey: secretKey,
				SessionToken:    sessionToken,
			}, nil
		})
	}

	client := ses.NewFromConfig(cfg)
	if _, err := client.GetSendQuota(ctx, &ses.GetSendQuotaInput{}); err != nil {
		return core.WrapProviderError(name, "auth_error", err)
	}
	p.client = client

	return nil
}

// Send sends a single email using AWS SES.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.client == nil {
		return nil, core.NewProviderError(name, "not_authenticated", "authenticate before sending")
	}

	output, err := p.client.SendEmail(ctx, buildInput(msg, p.settings.Get("configuration_set")))
	if err != nil {
		return nil, core.WrapProviderError(name, "send_error", err)
	}

	return &core.SendResult{
		MessageID: aws.ToString(output.MessageId),
		Relay:     name,
		Timestamp: time.Now(),
	}, nil
}

// Close drops the client. SES holds no connection between requests.
func (p *Provider) Close() error {
	p.client = nil
	p.cfg = nil
	return nil
}

func buildInput(msg *core.Message, configSet string) *ses.SendEmailInput {
	input := &ses.SendEmailInput{
		Source: aws.String(msg.From.String()),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To.String()},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(msg.HTMLBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if msg.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(msg.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if configSet != "" {
		input.ConfigurationSetName = aws.String(configSet)
	}

	return input
}
