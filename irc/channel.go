package irc

import "strings"

// ChannelName returns the canonical channel form of s: lowercase with a
// leading '#'. Idempotent.
func ChannelName(s string) string {
	s = strings.ToLower(s)
	if !strings.HasPrefix(s, "#") {
		return "#" + s
	}
	return s
}

// LoginName returns the login form of s: lowercase with the leading '#'
// stripped. Idempotent.
func LoginName(s string) string {
	return strings.TrimPrefix(strings.ToLower(s), "#")
}
