package service

import (
	"net/mail"
	"strings"
)

const (
	minUsernameLength = 3
	minPasswordLength = 4
	minFullNameLength = 3
)

func normaliseEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func normaliseUsername(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// normalisePassword trims surrounding whitespace. Every path that hashes or
// compares a password goes through it, so " pass1234 " and "pass1234" are
// the same credential.
func normalisePassword(s string) string { return strings.TrimSpace(s) }

func checkEmail(p *problems, email string) {
	switch {
	case email == "":
		p.add("Email is required")
	case !validEmail(email):
		p.add("Email is not valid")
	}
}

// validEmail accepts a bare addr-spec only, no display names.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}

// checkPassword expects an already normalised password.
func checkPassword(p *problems, field, password string) {
	switch {
	case password == "":
		p.add(field + " is required")
	case len(password) < minPasswordLength:
		p.add(field + " must be at least 4 characters")
	}
}
