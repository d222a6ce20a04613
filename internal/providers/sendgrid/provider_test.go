package sendgrid

import (
	"context"
	"testing"

	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattiq/outreach/internal/core"
)

func TestProvider_ConnectRejectsPlainHTTP(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(core.ProviderSettings{"host": "http://api.sendgrid.com"})
	require.NoError(t, err)

	err = p.Connect(context.Background())
	assert.ErrorIs(t, err, &core.ProviderError{Provider: "sendgrid", Code: "config_error"})
}

func TestProvider_AuthenticateRequiresKey(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(core.ProviderSettings{})
	require.NoError(t, err)
	require.NoError(t, p.Connect(context.Background()))

	err = p.Authenticate(context.Background(), "alice@x.org", "")
	assert.ErrorIs(t, err, &core.ProviderError{Provider: "sendgrid", Code: "auth_error"})
}

func TestProvider_SendRequiresAuthentication(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(core.ProviderSettings{})
	require.NoError(t, err)

	_, err = p.Send(context.Background(), &core.Message{})
	assert.ErrorIs(t, err, &core.ProviderError{Provider: "sendgrid", Code: "not_authenticated"})
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	m := buildMessage(&core.Message{
		From:     core.Address{Email: "alice@x.org"},
		To:       core.Address{Email: "bob@y.org"},
		Subject:  "Hi",
		HTMLBody: "<p>Hello World</p>",
	})

	assert.Equal(t, "alice@x.org", m.From.Address)
	assert.Equal(t, "Hi", m.Subject)
	require.Len(t, m.Personalizations, 1)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "bob@y.org", m.Personalizations[0].To[0].Address)
}

func TestProvider_AuthenticateHonoursContext(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(core.ProviderSettings{"api_key": "SG.key"})
	require.NoError(t, err)
	require.NoError(t, p.Connect(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.Authenticate(ctx, "alice@x.org", "")
	assert.ErrorIs(t, err, &core.ProviderError{Provider: "sendgrid", Code: "auth_error"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider_SendHonoursContext(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(core.ProviderSettings{})
	require.NoError(t, err)
	p.client = sendgrid.NewSendClient("SG.key")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Send(ctx, &core.Message{
		From:     core.Address{Email: "alice@x.org"},
		To:       core.Address{Email: "bob@y.org"},
		Subject:  "Hi",
		HTMLBody: "<p>Hi</p>",
	})
	assert.ErrorIs(t, err, &core.ProviderError{Provider: "sendgrid", Code: "send_error"})
	assert.ErrorIs(t, err, context.Canceled)
}
