package outreach

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lattiq/outreach/internal/core"
	"github.com/lattiq/outreach/internal/providers/logsink"
	"github.com/lattiq/outreach/internal/providers/mailgun"
	"github.com/lattiq/outreach/internal/providers/resend"
	"github.com/lattiq/outreach/internal/providers/sendgrid"
	"github.com/lattiq/outreach/internal/providers/ses"
	"github.com/lattiq/outreach/internal/providers/smtp"
	"github.com/lattiq/outreach/internal/records"
	"github.com/lattiq/outreach/internal/roster"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Type aliases to re-export core types for the public API.
type (
	Relay            = core.Relay
	ProviderSettings = core.ProviderSettings
	Address          = core.Address
	SenderProfile    = core.SenderProfile
	Content          = core.Content
	Replacement      = core.Replacement
	Recipient        = core.Recipient
	Message          = core.Message
	SendResult       = core.SendResult
)

var (
	NewSenderProfile = core.NewSenderProfile
	IsValidAddress   = core.IsValidAddress
	Compose          = core.Compose
)

// Campaign is everything a single run sends.
type Campaign struct {
	// Sender is the authenticated identity messages are sent from.
	Sender *SenderProfile

	// Content holds the subject and the unrendered body.
	Content Content

	// Replacements are applied to the body in order, once per run.
	Replacements []Replacement

	// Recipients in source order.
	Recipients []Recipient

	// Group restricts the run to recipients assigned to it. Empty selects all.
	Group string
}

var _ Mailer = (*Client)(nil)

// Client implements the Mailer interface.
type Client struct {
	config   Config
	renderer *Renderer
	text     *bluemonday.Policy
	log      zerolog.Logger
	tracer   trace.Tracer
}

// New creates a new outreach client with the given configuration.
func New(config Config, opts ...Option) (*Client, error) {
	for _, opt := range opts {
		opt(&config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if config.logger != nil {
		log = *config.logger
	}

	client := &Client{
		config:   config,
		renderer: NewRenderer(log),
		log:      log,
		tracer:   otel.Tracer("github.com/lattiq/outreach"),
	}

	if config.Content.PlainText {
		client.text = bluemonday.StrictPolicy()
	}

	return client, nil
}

// LoadCampaign reads the sender, content and replacement records named by
// the files configuration. Recipients and the group filter are left empty.
func (c *Client) LoadCampaign() (*Campaign, error) {
	files := c.config.Files

	sender, err := records.LoadSender(files.SenderInfo)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Stringer("sender", sender).Msg("Sender information loaded")

	content, err := records.LoadContent(files.EmailInfo)
	if err != nil {
		return nil, err
	}

	replacements, err := records.LoadReplacements(files.TextReplacements)
	if err != nil {
		return nil, err
	}
	for _, r := range replacements {
		c.log.Debug().Stringer("replacement", r).Msg("Text replacement loaded")
	}

	return &Campaign{
		Sender:       sender,
		Content:      content,
		Replacements: replacements,
	}, nil
}

// LoadRecipients reads the recipients CSV at path using the configured
// roster columns.
func (c *Client) LoadRecipients(path string) ([]Recipient, error) {
	return roster.Load(path, roster.Columns{
		Email: c.config.Roster.EmailColumn,
		Name:  c.config.Roster.NameColumn,
		Group: c.config.Roster.GroupColumn,
	})
}

// Run renders the campaign body, opens one relay session and sends to every
// selected recipient. Setup failures (no recipients, no sender, connection
// or login refused) are returned as errors; per-recipient failures are only
// counted in the Summary. A group filter that selects nobody returns the
// Summary together with a *NoMatchError.
func (c *Client) Run(ctx context.Context, campaign *Campaign) (*Summary, error) {
	runID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "outreach.Client.Run", trace.WithAttributes(
		attribute.String("outreach.run_id", runID),
		attribute.String("outreach.group", campaign.Group),
		attribute.Int("outreach.recipients", len(campaign.Recipients)),
	))
	defer span.End()

	log := c.log.With().Str("run_id", runID).Logger()

	if len(campaign.Recipients) == 0 {
		err := NewConfigurationError("recipients", "recipient list is empty", ErrNoRecipients)
		span.RecordError(err)
		span.SetStatus(codes.Error, "no recipients")
		return nil, err
	}

	if campaign.Sender == nil {
		span.RecordError(ErrInvalidSender)
		span.SetStatus(codes.Error, "no sender")
		return nil, ErrInvalidSender
	}

	body := c.renderer.Render(campaign.Content.Body, campaign.Replacements)

	relay, err := c.relay(log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "relay setup failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("outreach.relay", relay.Name()))

	session, err := Open(ctx, relay, campaign.Sender.Address(), campaign.Sender.Secret(), log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session setup failed")
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect from relay")
		}
	}()

	summary, err := Dispatch(ctx, campaign.Recipients, campaign.Group, func(ctx context.Context, r Recipient) error {
		return c.sendOne(ctx, log, session, campaign, body, r)
	})
	if summary != nil {
		summary.RunID = runID
		span.SetAttributes(
			attribute.Int("outreach.sent", summary.Sent),
			attribute.Int("outreach.failed", summary.Failed),
			attribute.Int("outreach.skipped", summary.Skipped),
		)
		log.Info().
			Int("total", summary.Total).
			Int("matched", summary.Matched).
			Int("sent", summary.Sent).
			Int("failed", summary.Failed).
			Int("skipped", summary.Skipped).
			Msg("Run finished")
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return summary, err
	}

	span.SetStatus(codes.Ok, "run finished")
	return summary, nil
}

func (c *Client) sendOne(ctx context.Context, log zerolog.Logger, session *Session, campaign *Campaign, body string, r Recipient) error {
	log = log.With().Int("row", r.Row).Str("to", r.Email).Logger()

	if !IsValidAddress(r.Email) {
		log.Warn().Msg("Recipient address is not valid, skipping")
		return fmt.Errorf("%w: invalid address %q", ErrRecipientSkipped, r.Email)
	}

	body = c.personalize(body, r)
	msg := Compose(campaign.Sender, campaign.Content.Subject, body, r.Email)
	if c.text != nil {
		msg = msg.WithText(c.plainText(body))
	}

	log.Info().Str("name", r.Name).Msg("Sending email...")

	result, err := session.Send(ctx, &msg)
	if err != nil {
		log.Error().Err(err).Msg("Email not sent")
		return err
	}

	log.Debug().Str("message_id", result.MessageID).Msg("Email successfully sent")
	return nil
}

// personalize fills the configured recipient placeholders.
func (c *Client) personalize(body string, r Recipient) string {
	fields := c.config.Content.RecipientFields
	if len(fields) == 0 {
		return body
	}

	replacements := make([]Replacement, 0, len(fields))
	for _, f := range fields {
		replacements = append(replacements, Replacement{Pattern: f.Placeholder, Value: r.Field(f.Column)})
	}

	return c.renderer.Render(body, replacements)
}

func (c *Client) plainText(body string) string {
	return strings.TrimSpace(html.UnescapeString(c.text.Sanitize(body)))
}

func (c *Client) relay(log zerolog.Logger) (Relay, error) {
	if c.config.relay != nil {
		return c.config.relay, nil
	}

	relay, err := createRelay(c.config.Relay, log)
	if err != nil {
		return nil, NewConfigurationError("relay", "failed to create relay", err)
	}
	return relay, nil
}

// createRelay creates a relay driver based on the relay configuration.
func createRelay(config RelayConfig, log zerolog.Logger) (Relay, error) {
	settings := ProviderSettings{}
	for k, v := range config.Settings {
		settings.Set(k, v)
	}
	if settings.Get("timeout") == "" && config.Timeout > 0 {
		settings.Set("timeout", config.Timeout.String())
	}

	switch config.Type {
	case RelaySMTP:
		settings.Set("host", config.Host)
		settings.Set("port", strconv.Itoa(config.Port))
		settings.Set("starttls", strconv.FormatBool(config.StartTLS))
		settings.Set("tls_skip_verify", strconv.FormatBool(config.TLSSkipVerify))
		p, err := smtp.NewProvider(settings)
		if err != nil {
			return nil, err
		}
		return p, nil
	case RelayAWSSES:
		p, err := ses.NewProvider(settings)
		if err != nil {
			return nil, err
		}
		return p, nil
	case RelaySendGrid:
		p, err := sendgrid.NewProvider(settings)
		if err != nil {
			return nil, err
		}
		return p, nil
	case RelayMailgun:
		p, err := mailgun.NewProvider(settings)
		if err != nil {
			return nil, err
		}
		return p, nil
	case RelayResend:
		p, err := resend.NewProvider(settings)
		if err != nil {
			return nil, err
		}
		return p, nil
	case RelayLog:
		return logsink.NewProvider(log), nil
	default:
		return nil, fmt.Errorf("unsupported relay type: %s", config.Type)
	}
}
