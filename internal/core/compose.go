package core

// Compose builds the message sent to one recipient. The recipient address is
// not validated here; callers check it before composing.
func Compose(sender *SenderProfile, subject, body, to string) Message {
	return Message{
		From:     Address{Email: sender.Address()},
		To:       Address{Email: to},
		Subject:  subject,
		HTMLBody: body,
	}
}

// WithText returns a copy of m carrying a plain-text alternative body.
func (m Message) WithText(text string) Message {
	m.TextBody = text
	return m
}
