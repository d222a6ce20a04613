// Package config loads the outreach configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lattiq/outreach"
)

// EnvPrefix prefixes every environment override, e.g. OUTREACH_RELAY_HOST.
const EnvPrefix = "OUTREACH"

// Load reads configuration from file and environment variables.
// An empty path searches for outreach.yaml in the working directory and
// ./config; a missing file there is not an error. An explicit path must exist.
func Load(path string) (outreach.Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("outreach")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return outreach.Config{}, outreach.NewConfigurationError(configSource(path), "failed to read config file", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := outreach.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return outreach.Config{}, outreach.NewConfigurationError(configSource(path), "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return outreach.Config{}, outreach.NewConfigurationError(configSource(path), fmt.Sprintf("invalid configuration: %v", err), err)
	}

	return cfg, nil
}

func configSource(path string) string {
	if path == "" {
		return "config"
	}
	return path
}

func setDefaults(v *viper.Viper) {
	d := outreach.DefaultConfig()

	// Relay defaults
	v.SetDefault("relay.type", string(d.Relay.Type))
	v.SetDefault("relay.host", d.Relay.Host)
	v.SetDefault("relay.port", d.Relay.Port)
	v.SetDefault("relay.starttls", d.Relay.StartTLS)
	v.SetDefault("relay.tls_skip_verify", d.Relay.TLSSkipVerify)
	v.SetDefault("relay.timeout", d.Relay.Timeout.String())

	// Driver settings read from the environment
	for _, key := range []string{"region", "access_key", "secret_key", "configuration_set", "session_token", "api_key", "domain", "base_url"} {
		v.SetDefault("relay.settings."+key, "")
	}

	// Data file defaults
	v.SetDefault("files.sender_info", d.Files.SenderInfo)
	v.SetDefault("files.email_info", d.Files.EmailInfo)
	v.SetDefault("files.text_replacements", d.Files.TextReplacements)

	// Roster defaults
	v.SetDefault("roster.email_column", d.Roster.EmailColumn)
	v.SetDefault("roster.name_column", d.Roster.NameColumn)
	v.SetDefault("roster.group_column", d.Roster.GroupColumn)

	// Content defaults
	v.SetDefault("content.plain_text", d.Content.PlainText)

	// Log defaults
	v.SetDefault("log.level", d.Logging.Level)
	v.SetDefault("log.format", d.Logging.Format)
	v.SetDefault("log.output", d.Logging.Output)
}
