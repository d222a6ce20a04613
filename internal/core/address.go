package core

import "regexp"

// addressPattern accepts exactly one "@", a non-empty local part and a domain
// containing at least one "." with text on both sides.
var addressPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidAddress performs a conservative syntactic check of an email address.
// It does not verify that the domain or mailbox exists.
func IsValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}
