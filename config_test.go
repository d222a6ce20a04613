package outreach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, RelaySMTP, cfg.Relay.Type)
	assert.Equal(t, "smtp.gmail.com", cfg.Relay.Host)
	assert.Equal(t, 587, cfg.Relay.Port)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  []Option
		field string
	}{
		{name: "unknown relay", opts: []Option{WithRelay("pigeon", nil)}, field: "relay.type"},
		{name: "missing host", opts: []Option{WithSMTP("", 587)}, field: "relay.host"},
		{name: "port out of range", opts: []Option{WithSMTP("smtp.x.org", 70000)}, field: "relay.port"},
		{name: "zero timeout", opts: []Option{WithTimeout(0)}, field: "relay.timeout"},
		{name: "bad recipient field", opts: []Option{WithRecipientField("[NAME]", "")}, field: "content.recipient_fields"},
		{name: "bad log level", opts: []Option{WithLogging("loud", "json", "stderr")}, field: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			for _, opt := range tt.opts {
				opt(&cfg)
			}

			err := cfg.Validate()
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithMailgunEU("key", "mg.x.org"),
		WithTimeout(5 * time.Second),
		WithGroupColumn("Team"),
		WithPlainText(true),
	} {
		opt(&cfg)
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, RelayMailgun, cfg.Relay.Type)
	assert.Equal(t, "https://api.eu.mailgun.net", cfg.Relay.Settings.Get("base_url"))
	assert.Equal(t, 5*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, "Team", cfg.Roster.GroupColumn)
	assert.True(t, cfg.Content.PlainText)
}

func TestRelayType_Valid(t *testing.T) {
	t.Parallel()

	for _, rt := range []RelayType{RelaySMTP, RelayAWSSES, RelaySendGrid, RelayMailgun, RelayResend, RelayLog} {
		assert.True(t, rt.Valid(), rt.String())
	}
	assert.False(t, RelayType("gmail_api").Valid())
}
