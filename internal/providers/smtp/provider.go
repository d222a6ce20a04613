package smtp

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/lattiq/outreach/internal/core"
	"github.com/lattiq/outreach/internal/providers"
)

const name = "smtp"

// Client is the subset of *smtp.Client driven by the provider.
type Client interface {
	Extension(ext string) (bool, string)
	StartTLS(config *tls.Config) error
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Reset() error
	Quit() error
	Close() error
}

// DialFunc opens a connection to addr and returns a client greeting host.
type DialFunc func(ctx context.Context, addr, host string, timeout time.Duration) (Client, error)

// Option configures a Provider.
type Option func(*Provider)

// WithDialer replaces the network dialer, mostly for tests.
func WithDialer(dial DialFunc) Option {
	return func(p *Provider) {
		p.dial = dial
	}
}

// Provider implements core.Relay for an SMTP submission server.
// The session is kept open between messages.
type Provider struct {
	host       string
	port       string
	startTLS   bool
	skipVerify bool
	timeout    time.Duration
	dial       DialFunc
	client     Client
}

// NewProvider creates a new SMTP provider.
// Recognised settings: host, port, starttls (default true),
// tls_skip_verify, timeout (Go duration, default 30s).
func NewProvider(settings core.ProviderSettings, opts ...Option) (*Provider, error) {
	host := settings.Get("host")
	if host == "" {
		return nil, core.NewValidationError("host", "SMTP host is required")
	}

	port := settings.Get("port")
	if port == "" {
		return nil, core.NewValidationError("port", "SMTP port is required")
	}

	// Validate port number
	if _, err := strconv.Atoi(port); err != nil {
		return nil, core.NewValidationErrorWithValue("port", "invalid port number", port)
	}

	timeout, err := providers.Duration(settings, "timeout", providers.DefaultTimeout)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		host:       host,
		port:       port,
		startTLS:   settings.Get("starttls") != "false",
		skipVerify: settings.Bool("tls_skip_verify"),
		timeout:    timeout,
		dial:       dial,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return name
}

// Connect dials the server and reads its greeting.
func (p *Provider) Connect(ctx context.Context) error {
	if p.client != nil {
		return core.NewProviderError(name, "already_connected", "connection already open")
	}

	c, err := p.dial(ctx, net.JoinHostPort(p.host, p.port), p.host, p.timeout)
	if err != nil {
		return core.WrapProviderError(name, "connect_error", err)
	}
	p.client = c

	return nil
}

// Authenticate issues STARTTLS (unless disabled) and logs in with PLAIN auth.
func (p *Provider) Authenticate(ctx context.Context, username, secret string) error {
	if p.client == nil {
		return core.NewProviderError(name, "not_connected", "connect before authenticating")
	}

	if p.startTLS {
		if ok, _ := p.client.Extension("STARTTLS"); !ok {
			return core.NewProviderError(name, "starttls_unsupported", "server does not offer STARTTLS")
		}
		if err := p.client.StartTLS(p.tlsConfig()); err != nil {
			return core.WrapProviderError(name, "starttls_error", err)
		}
	}

	if ok, _ := p.client.Extension("AUTH"); !ok {
		return core.NewProviderError(name, "auth_unsupported", "server does not offer AUTH")
	}
	if err := p.client.Auth(smtp.PlainAuth("", username, secret, p.host)); err != nil {
		return core.WrapProviderError(name, "auth_error", err)
	}

	return nil
}

// Send transmits one message. On failure the transaction is reset so the
// connection can carry the next message.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if p.client == nil {
		return nil, core.NewProviderError(name, "not_connected", "connect before sending")
	}

	messageID := uuid.NewString() + "@" + p.host
	m, err := buildMessage(msg, messageID)
	if err != nil {
		return nil, core.WrapProviderError(name, "message_build_error", err)
	}

	if err := p.transmit(msg.From.Email, msg.To.Email, m); err != nil {
		_ = p.client.Reset()
		return nil, core.WrapProviderError(name, "send_error", err)
	}

	return &core.SendResult{
		MessageID: messageID,
		Relay:     name,
		Timestamp: time.Now(),
	}, nil
}

// Close sends QUIT and drops the connection.
func (p *Provider) Close() error {
	if p.client == nil {
		return nil
	}

	c := p.client
	p.client = nil
	if err := c.Quit(); err != nil {
		_ = c.Close()
		return core.WrapProviderError(name, "quit_error", err)
	}

	return nil
}

func (p *Provider) transmit(from, to string, m *mail.Msg) error {
	if err := p.client.Mail(from); err != nil {
		return err
	}
	if err := p.client.Rcpt(to); err != nil {
		return err
	}

	w, err := p.client.Data()
	if err != nil {
		return err
	}
	if _, err := m.WriteTo(w); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

func (p *Provider) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         p.host,
		InsecureSkipVerify: p.skipVerify, // #nosec G402 -- opt-in for local relays only
		MinVersion:         tls.VersionTLS12,
	}
}

// buildMessage encodes msg as an RFC 5322 message.
func buildMessage(msg *core.Message, messageID string) (*mail.Msg, error) {
	m := mail.NewMsg()

	if msg.From.Name != "" {
		if err := m.FromFormat(msg.From.Name, msg.From.Email); err != nil {
			return nil, err
		}
	} else if err := m.From(msg.From.Email); err != nil {
		return nil, err
	}
	if err := m.To(msg.To.Email); err != nil {
		return nil, err
	}

	m.Subject(msg.Subject)
	m.SetGenHeader(mail.HeaderMessageID, "<"+messageID+">")

	if msg.TextBody != "" {
		m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	} else {
		m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	}

	return m, nil
}
