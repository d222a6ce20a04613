// Package outreach sends one personalised HTML email to each member of a
// recipient list over a single authenticated relay session.
//
// A run loads the sender profile, the message content and an ordered list of
// text replacements, renders the body once, opens one session with the relay
// and walks the recipient list in order. A recipient group filter narrows
// the run to the rows whose group column equals the filter exactly.
// Per-recipient failures are logged and counted; they never abort the run.
//
// # Basic Usage
//
//	sender, err := outreach.NewSenderProfile("Pat Doe", "pat@example.com", appPassword, "2026")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := outreach.New(outreach.DefaultConfig(),
//		outreach.WithSMTP("smtp.gmail.com", 587),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	summary, err := client.Run(ctx, &outreach.Campaign{
//		Sender:       sender,
//		Content:      content,
//		Replacements: replacements,
//		Recipients:   recipients,
//		Group:        "Kitchen",
//	})
//
// # Supported Relays
//
//   - Generic SMTP with STARTTLS (the default, smtp.gmail.com:587)
//   - AWS SES
//   - SendGrid
//   - Mailgun
//   - Resend
//   - A log relay for dry runs
package outreach
