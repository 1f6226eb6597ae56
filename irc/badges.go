package irc

import (
	"strconv"
	"strings"
)

// BadgeLevel is a badge version number. Valid is false when the wire value
// was absent or not an integer; the decode never fails outright.
type BadgeLevel struct {
	Level int
	Valid bool
}

// Badges maps badge name to level, as carried by the badges and badge-info tags.
type Badges map[string]BadgeLevel

// ParseBadges decodes a comma-separated name/level list such as
// "subscriber/12,premium/1". It is total over all string inputs: a missing
// slash or non-numeric level degrades to an invalid BadgeLevel rather than an
// error. The empty string decodes to an empty map — the literal split would
// yield a single entry keyed by "", which no caller wants.
func ParseBadges(s string) Badges {
	b := Badges{}
	if s == "" {
		return b
	}
	for _, entry := range strings.Split(s, ",") {
		name, level, _ := strings.Cut(entry, "/")
		n, err := strconv.Atoi(level)
		if err != nil {
			b[name] = BadgeLevel{}
			continue
		}
		b[name] = BadgeLevel{Level: n, Valid: true}
	}
	return b
}
