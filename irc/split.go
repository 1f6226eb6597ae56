package irc

import "strings"

// SplitLine splits s into a head that fits within limit bytes and the
// remaining tail. The split prefers the last space inside the window, and
// that space belongs to neither half. When the window holds no space at all,
// the head is hard-cut at limit-1 bytes, sacrificing one character to keep
// the head under the limit at the cost of a possible mid-word break.
//
// The caller owns what happens to the tail: re-split it, queue it, pace it.
// limit must be positive.
func SplitLine(s string, limit int) (head, tail string) {
	if len(s) <= limit {
		return s, ""
	}
	if i := strings.LastIndexByte(s[:limit], ' '); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s[:limit-1], s[limit:]
}
