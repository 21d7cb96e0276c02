package service

import "strings"

// Links builds the URLs that go out in emails.
type Links struct {
	// BaseURL is the public origin of this API, e.g. https://api.tms.example.
	BaseURL string
	// ResetPasswordURL is the frontend page that takes the reset token as
	// its last path segment. Falls back to the API reset route.
	ResetPasswordURL string
}

func (l Links) base() string { return strings.TrimRight(l.BaseURL, "/") }

func (l Links) VerifyEmail(token string) string {
	return l.base() + "/api/v1/auth/verify-email/" + token
}

func (l Links) Logout() string {
	return l.base() + "/api/v1/auth/logout"
}

func (l Links) ResetPassword(token string) string {
	if l.ResetPasswordURL != "" {
		return strings.TrimRight(l.ResetPasswordURL, "/") + "/" + token
	}
	return l.base() + "/api/v1/auth/reset-password/" + token
}
