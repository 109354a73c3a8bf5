// Package validation checks and limits what SSH clients send to the arcade
// server.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxUsernameLen bounds usernames shown in the status line.
const MaxUsernameLen = 24

// GuestName replaces usernames that fail validation.
const GuestName = "guest"

var validUsernameChars = regexp.MustCompile(`^[a-zA-Z0-9\-_.]+$`)

// ValidateUsername checks an SSH username for display and returns it
// trimmed.
func ValidateUsername(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("username contains invalid UTF-8 characters")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("username cannot be empty")
	}
	if len(trimmed) > MaxUsernameLen {
		return "", fmt.Errorf("username too long: %d characters (max %d)", len(trimmed), MaxUsernameLen)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("username contains control characters")
		}
	}
	if !validUsernameChars.MatchString(trimmed) {
		return "", fmt.Errorf("username contains invalid characters (only letters, digits, '-', '_' and '.' allowed)")
	}
	return trimmed, nil
}

// DisplayName returns the validated username or GuestName.
func DisplayName(name string) string {
	if valid, err := ValidateUsername(name); err == nil {
		return valid
	}
	return GuestName
}

// ClientKey identifies a remote client by host, ignoring the port.
func ClientKey(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
