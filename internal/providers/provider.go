// Package providers holds the relay drivers and the settings helpers they share.
package providers

import (
	"time"

	"github.com/lattiq/outreach/internal/core"
)

// DefaultTimeout bounds a single relay exchange when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Duration parses the setting stored under key, falling back to def when unset.
func Duration(settings core.ProviderSettings, key string, def time.Duration) (time.Duration, error) {
	raw := settings.Get(key)
	if raw == "" {
		return def, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, core.NewValidationErrorWithValue(key, "must be a positive duration", raw)
	}

	return d, nil
}

// SecretOr returns the setting stored under key, or secret when unset.
// API relays accept their key either in the relay settings or as the
// sender's secret.
func SecretOr(settings core.ProviderSettings, key, secret string) string {
	if v := settings.Get(key); v != "" {
		return v
	}
	return secret
}
