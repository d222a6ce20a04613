// Package records loads the JSON records that describe a run: who sends,
// what is sent, and which placeholders are filled in.
package records

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"github.com/yuin/goldmark"

	"github.com/lattiq/outreach/internal/core"
)

type senderRecord struct {
	Name        string `mapstructure:"name"`
	ClassYear   string `mapstructure:"class-year"`
	Email       string `mapstructure:"email"`
	AppPassword string `mapstructure:"app-password"`
}

type contentRecord struct {
	Subject          string `mapstructure:"subject"`
	BodyTemplateFile string `mapstructure:"body-template-file"`
}

// LoadSender reads the sender record at path.
// A missing or malformed file, or one without the name, email or
// app-password key, is a *core.ConfigurationError; an address that fails
// validation yields core.ErrInvalidSender and no profile.
func LoadSender(path string) (*core.SenderProfile, error) {
	var rec senderRecord
	if err := readJSON(path, &rec, "name", "email", "app-password"); err != nil {
		return nil, err
	}

	if rec.AppPassword == "" {
		return nil, core.NewConfigurationError(path, `missing required key "app-password"`, nil)
	}

	return core.NewSenderProfile(rec.Name, rec.Email, rec.AppPassword, rec.ClassYear)
}

// LoadContent reads the content record at path and the body template it
// names. Bodies in .md files are converted to HTML.
func LoadContent(path string) (core.Content, error) {
	var rec contentRecord
	if err := readJSON(path, &rec, "subject", "body-template-file"); err != nil {
		return core.Content{}, err
	}

	if rec.BodyTemplateFile == "" {
		return core.Content{}, core.NewConfigurationError(path, `missing required key "body-template-file"`, nil)
	}

	body, err := os.ReadFile(rec.BodyTemplateFile)
	if err != nil {
		return core.Content{}, core.NewConfigurationError(rec.BodyTemplateFile, "failed to read body template", err)
	}

	if strings.EqualFold(filepath.Ext(rec.BodyTemplateFile), ".md") {
		var buf bytes.Buffer
		if err := goldmark.Convert(body, &buf); err != nil {
			return core.Content{}, core.NewConfigurationError(rec.BodyTemplateFile, "failed to render markdown body", err)
		}
		body = buf.Bytes()
	}

	return core.Content{Subject: rec.Subject, Body: string(body)}, nil
}

// LoadReplacements reads the replacement record at path: a JSON object whose
// keys are placeholders and whose values replace them, in file order.
func LoadReplacements(path string) ([]core.Replacement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewConfigurationError(path, "failed to read file", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, core.NewConfigurationError(path, "malformed JSON", nil)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, core.NewConfigurationError(path, "expected a JSON object of placeholder to value", nil)
	}

	var (
		replacements []core.Replacement
		parseErr     error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "" {
			parseErr = core.NewConfigurationError(path, "empty placeholder", nil)
			return false
		}
		if value.Type != gjson.String {
			parseErr = core.NewConfigurationError(path, fmt.Sprintf("value for %q must be a string", key.String()), nil)
			return false
		}
		replacements = append(replacements, core.Replacement{Pattern: key.String(), Value: value.String()})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return replacements, nil
}

// readJSON decodes the JSON record at path into out. Every key in required
// must be present, though it may hold an empty value.
func readJSON(path string, out interface{}, required ...string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return core.NewConfigurationError(path, "failed to read file", err)
		}
		return core.NewConfigurationError(path, "malformed JSON", err)
	}

	for _, key := range required {
		if !v.IsSet(key) {
			return core.NewConfigurationError(path, fmt.Sprintf("missing required key %q", key), nil)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return core.NewConfigurationError(path, "unexpected field types", err)
	}

	return nil
}
