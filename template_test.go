package outreach

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		replacements []Replacement
		want         string
	}{
		{
			name: "no replacements",
			body: "<p>Hello</p>",
			want: "<p>Hello</p>",
		},
		{
			name:         "every occurrence",
			body:         "{X} and {X}",
			replacements: []Replacement{{Pattern: "{X}", Value: "y"}},
			want:         "y and y",
		},
		{
			name: "later pattern sees earlier value",
			body: "Hi NAME",
			replacements: []Replacement{
				{Pattern: "NAME", Value: "FIRST"},
				{Pattern: "FIRST", Value: "Ann"},
			},
			want: "Hi Ann",
		},
		{
			name: "order matters",
			body: "Hi NAME",
			replacements: []Replacement{
				{Pattern: "FIRST", Value: "Ann"},
				{Pattern: "NAME", Value: "FIRST"},
			},
			want: "Hi FIRST",
		},
		{
			name:         "missing pattern",
			body:         "Hi there",
			replacements: []Replacement{{Pattern: "{DATE}", Value: "Monday"}},
			want:         "Hi there",
		},
		{
			name:         "empty pattern",
			body:         "abc",
			replacements: []Replacement{{Pattern: "", Value: "-"}},
			want:         "abc",
		},
		{
			name:         "value removes pattern",
			body:         "a[[x]]b",
			replacements: []Replacement{{Pattern: "[[x]]", Value: ""}},
			want:         "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(zerolog.Nop())
			assert.Equal(t, tt.want, r.Render(tt.body, tt.replacements))
		})
	}
}

func TestRenderer_LogsMissingPattern(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(zerolog.New(&buf))

	got := r.Render("Dear {NAME}", []Replacement{
		{Pattern: "{NAME}", Value: "Ann"},
		{Pattern: "{DATE}", Value: "Monday"},
	})

	assert.Equal(t, "Dear Ann", got)
	assert.Contains(t, buf.String(), "Text to replace not found in template")
	assert.Contains(t, buf.String(), `"pattern":"{DATE}"`)
	assert.NotContains(t, buf.String(), `"pattern":"{NAME}"`)
}

func TestRenderer_RenderIsIdempotent(t *testing.T) {
	r := NewRenderer(zerolog.Nop())
	replacements := []Replacement{{Pattern: "[NAME]", Value: "World"}}

	once := r.Render("Hello [NAME], [NAME]!", replacements)
	twice := r.Render(once, replacements)

	assert.Equal(t, "Hello World, World!", once)
	assert.Equal(t, once, twice)
}
