package mailgun

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattiq/outreach/internal/core"
)

func TestNewProvider_RequiresDomain(t *testing.T) {
	t.Parallel()

	_, err := NewProvider(core.ProviderSettings{})
	require.ErrorIs(t, err, &core.ValidationError{})
}

func TestProvider_Authenticate(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(core.ProviderSettings{"domain": "mg.x.org"})
	require.NoError(t, err)
	require.NoError(t, p.Connect(context.Background()))

	err = p.Authenticate(context.Background(), "alice@x.org", "")
	assert.ErrorIs(t, err, &core.ProviderError{Provider: "mailgun", Code: "auth_error"})

	require.NoError(t, p.Authenticate(context.Background(), "alice@x.org", "key-123"))
	require.NoError(t, p.Close())

	_, err = p.Send(context.Background(), &core.Message{})
	assert.ErrorIs(t, err, &core.ProviderError{Provider: "mailgun", Code: "not_authenticated"})
}
