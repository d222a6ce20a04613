package outreach

import (
	"strings"

	"github.com/rs/zerolog"
)

// Renderer applies ordered literal text replacements to a message body.
type Renderer struct {
	log zerolog.Logger
}

// NewRenderer creates a renderer that reports unmatched patterns to log.
func NewRenderer(log zerolog.Logger) *Renderer {
	return &Renderer{log: log}
}

// Render substitutes every occurrence of each pattern with its value, in
// the given order. Each step sees the output of the previous one, so a
// later pattern can match text introduced by an earlier value.
// A pattern that does not occur is logged and skipped.
func (r *Renderer) Render(body string, replacements []Replacement) string {
	rendered := body
	for _, rep := range replacements {
		rendered = r.apply(rendered, rep)
	}

	r.log.Debug().Int("replacements", len(replacements)).Msg("Text replacements done")

	return rendered
}

func (r *Renderer) apply(text string, rep Replacement) string {
	// An empty pattern would match between every character.
	if rep.Pattern == "" || !strings.Contains(text, rep.Pattern) {
		r.log.Info().Str("pattern", rep.Pattern).Msg("Text to replace not found in template")
		return text
	}

	return strings.ReplaceAll(text, rep.Pattern, rep.Value)
}
