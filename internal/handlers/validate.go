package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for form fields.
const (
	maxUsernameLen = 80
	maxTitleLen    = 300
	maxBodyLen     = 100_000
)

// validateContent checks content form inputs and returns the first error found.
func validateContent(title, body string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateRegistration checks registration form inputs and returns the
// first error found.
func validateRegistration(username, password, confirm string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 80 characters)."
	}
	if password == "" {
		return "Password is required."
	}
	if password != confirm {
		return "Passwords do not match."
	}
	return ""
}
