// Package roster reads recipient lists from CSV files.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/lattiq/outreach/internal/core"
)

// Columns names the header cells recipients are read from.
type Columns struct {
	Email string
	Name  string
	Group string
}

// DefaultColumns returns the column names of the volunteer spreadsheet export.
func DefaultColumns() Columns {
	return Columns{
		Email: "Email",
		Name:  "Name",
		Group: "Volunteer assignment",
	}
}

// Load reads the recipients in the CSV file at path.
func Load(path string, cols Columns) ([]core.Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewConfigurationError(path, "failed to open recipients file", err)
	}
	defer f.Close()

	recipients, err := Read(f, cols)
	if err != nil {
		var configErr *core.ConfigurationError
		if errors.As(err, &configErr) {
			configErr.Source = path
		}
		return nil, err
	}

	return recipients, nil
}

// Read parses recipients from r. The first record is the header row; a
// leading UTF-8 byte order mark is dropped. Rows may be shorter or longer
// than the header. A source with no data rows yields core.ErrNoRecipients.
func Read(r io.Reader, cols Columns) ([]core.Recipient, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.NewConfigurationError("recipients", "recipients file is empty", core.ErrNoRecipients)
	}
	if err != nil {
		return nil, core.NewConfigurationError("recipients", "malformed CSV header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	if _, ok := index[cols.Email]; !ok {
		return nil, core.NewConfigurationError("recipients", fmt.Sprintf("missing %q column", cols.Email), nil)
	}

	var recipients []core.Recipient
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.NewConfigurationError("recipients", fmt.Sprintf("malformed CSV at row %d", row), err)
		}

		fields := make(map[string]string, len(header))
		for name, i := range index {
			if i < len(record) {
				fields[name] = record[i]
			}
		}

		recipient := core.Recipient{
			Email:  fields[cols.Email],
			Name:   fields[cols.Name],
			Group:  fields[cols.Group],
			Fields: fields,
			Row:    row,
		}
		if recipient.Email == "" {
			return nil, core.NewConfigurationError("recipients", fmt.Sprintf("row %d has no %q value", row, cols.Email), nil)
		}

		recipients = append(recipients, recipient)
	}

	if len(recipients) == 0 {
		return nil, core.NewConfigurationError("recipients", "no recipients found", core.ErrNoRecipients)
	}

	return recipients, nil
}
