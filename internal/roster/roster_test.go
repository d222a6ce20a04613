package roster

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattiq/outreach/internal/core"
)

const volunteers = `Name,Email,Volunteer assignment,Shift
Alice,a@x.org,Kitchen,early
Bob,bob-at-x,Kitchen,late
Carl,c@x.org,Door,early
`

func TestRead(t *testing.T) {
	t.Parallel()

	recipients, err := Read(strings.NewReader(volunteers), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, recipients, 3)

	assert.Equal(t, core.Recipient{
		Email: "a@x.org",
		Name:  "Alice",
		Group: "Kitchen",
		Fields: map[string]string{
			"Name":                 "Alice",
			"Email":                "a@x.org",
			"Volunteer assignment": "Kitchen",
			"Shift":                "early",
		},
		Row: 1,
	}, recipients[0])
	assert.Equal(t, "bob-at-x", recipients[1].Email)
	assert.Equal(t, 3, recipients[2].Row)
	assert.Equal(t, "early", recipients[2].Field("Shift"))
}

func TestRead_ByteOrderMark(t *testing.T) {
	t.Parallel()

	recipients, err := Read(strings.NewReader("\ufeffEmail,Name\na@x.org,Alice\n"), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "a@x.org", recipients[0].Email)
	assert.Empty(t, recipients[0].Group)
}

func TestRead_OptionalColumnsAndShortRows(t *testing.T) {
	t.Parallel()

	recipients, err := Read(strings.NewReader("Email,Name,Volunteer assignment\na@x.org\n"), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "a@x.org", recipients[0].Email)
	assert.Empty(t, recipients[0].Name)
	assert.Empty(t, recipients[0].Group)
}

func TestRead_CustomColumns(t *testing.T) {
	t.Parallel()

	cols := Columns{Email: "Address", Name: "Who", Group: "Team"}
	recipients, err := Read(strings.NewReader("Who,Address,Team\nAlice,a@x.org,Red\n"), cols)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "Alice", recipients[0].Name)
	assert.Equal(t, "Red", recipients[0].Group)
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		noRecipients bool
	}{
		{name: "empty", input: "", noRecipients: true},
		{name: "header only", input: "Email,Name\n", noRecipients: true},
		{name: "no email column", input: "Name,Mail\nAlice,a@x.org\n"},
		{name: "empty email value", input: "Email,Name\n,Alice\n"},
		{name: "bad quoting", input: "Email,Name\n\"a@x.org,Alice\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), DefaultColumns())
			require.Error(t, err)

			var configErr *core.ConfigurationError
			assert.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.noRecipients, errors.Is(err, core.ErrNoRecipients))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recipients.csv")
	require.NoError(t, os.WriteFile(path, []byte(volunteers), 0o600))

	recipients, err := Load(path, DefaultColumns())
	require.NoError(t, err)
	assert.Len(t, recipients, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := Load(path, DefaultColumns())

	var configErr *core.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, path, configErr.Source)
}

func TestLoad_SourceIsPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := Load(path, DefaultColumns())

	assert.ErrorIs(t, err, core.ErrNoRecipients)
	var configErr *core.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, path, configErr.Source)
}
