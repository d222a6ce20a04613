package records

import (
	"github.com/spf13/viper"

	"github.com/lattiq/outreach/internal/core"
)

// WriteSender writes a sender record to path, replacing any existing file.
func WriteSender(path, name, classYear, email, appPassword string) error {
	if !core.IsValidAddress(email) {
		return core.ErrInvalidSender
	}

	v := viper.New()
	v.Set("name", name)
	v.Set("class-year", classYear)
	v.Set("email", email)
	v.Set("app-password", appPassword)

	return write(v, path)
}

// WriteContent writes a content record to path, replacing any existing file.
func WriteContent(path, subject, bodyTemplateFile string) error {
	v := viper.New()
	v.Set("subject", subject)
	v.Set("body-template-file", bodyTemplateFile)

	return write(v, path)
}

func write(v *viper.Viper, path string) error {
	v.SetConfigType("json")
	if err := v.WriteConfigAs(path); err != nil {
		return core.NewConfigurationError(path, "failed to write record", err)
	}
	return nil
}
