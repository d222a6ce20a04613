package outreach

import (
	"context"
	"errors"
)

// SendFunc delivers the message for a single recipient.
// Returning an error wrapping ErrRecipientSkipped counts the recipient as
// skipped; any other error counts it as failed.
type SendFunc func(ctx context.Context, recipient Recipient) error

// Summary reports the outcome of a run.
type Summary struct {
	// RunID identifies the run in logs.
	RunID string

	// Group is the filter the run was restricted to, empty for none.
	Group string

	// Total is the number of recipient rows read.
	Total int

	// Matched is the number of rows selected by the group filter.
	Matched int

	Sent    int
	Failed  int
	Skipped int

	// Failures lists every failed recipient in encounter order.
	Failures []BatchItemError
}

// NoMatch reports whether a group filter was given and selected no rows.
func (s *Summary) NoMatch() bool {
	return s.Group != "" && s.Matched == 0
}

// Dispatch calls send for every recipient selected by group, in order.
// An empty group selects every recipient; otherwise the recipient's group
// must equal it exactly. A failure for one recipient never stops the pass.
//
// Dispatch returns ErrNoRecipients for an empty list without calling send,
// a *NoMatchError together with the summary when group selected nobody, and
// the context error if ctx is cancelled between recipients.
func Dispatch(ctx context.Context, recipients []Recipient, group string, send SendFunc) (*Summary, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	summary := &Summary{
		Group: group,
		Total: len(recipients),
	}

	for i, recipient := range recipients {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if group != "" && recipient.Group != group {
			continue
		}
		summary.Matched++

		err := send(ctx, recipient)
		switch {
		case err == nil:
			summary.Sent++
		case errors.Is(err, ErrRecipientSkipped):
			summary.Skipped++
		default:
			summary.Failed++
			summary.Failures = append(summary.Failures, BatchItemError{
				Index: i,
				Email: recipient.Email,
				Error: err,
			})
		}
	}

	if summary.NoMatch() {
		return summary, &NoMatchError{Group: group}
	}

	return summary, nil
}
