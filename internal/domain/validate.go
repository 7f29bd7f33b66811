package domain

import (
	"net/mail"
	"strings"
)

// ValidEmail reports whether s looks like a single deliverable address.
// Display names ("A <a@b.c>") are rejected; the ledger stores bare addresses.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}
