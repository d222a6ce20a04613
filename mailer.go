package outreach

import (
	"context"
)

// Public interfaces for the outreach library
type (
	// Mailer runs a campaign against a recipient list.
	// A Mailer is not safe for concurrent runs.
	Mailer interface {
		// Run sends the campaign to every recipient selected by its group
		// filter over a single relay session. Per-recipient failures are
		// reported in the Summary and never abort the run.
		Run(ctx context.Context, campaign *Campaign) (*Summary, error)
	}
)
