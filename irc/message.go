package irc

import (
	"errors"
	"fmt"
	"strings"
)

// Parse failure causes. Branch with errors.Is.
var (
	ErrUnterminatedTags   = errors.New("unterminated tag block")
	ErrUnterminatedPrefix = errors.New("unterminated prefix")
	ErrMissingCommand     = errors.New("missing command")
)

// ParseError reports a malformed wire line. It wraps one of the cause
// sentinels above and keeps the offending line for diagnostics.
type ParseError struct {
	Line  string
	Cause error
}

func (e *ParseError) Error() string { return fmt.Sprintf("malformed irc line: %v", e.Cause) }
func (e *ParseError) Unwrap() error { return e.Cause }

// TagValue is the value of a single message tag. The wire format collapses a
// bare key and a key with an explicit empty value into the same thing, so the
// rule is: a tag value is the flag variant iff no non-empty string follows '='.
type TagValue struct {
	Text string
	Flag bool
}

// Message is one tokenized protocol line. It is a plain value, produced fresh
// per Parse call and never mutated afterwards; Raw keeps the original input
// byte-for-byte for diagnostics.
type Message struct {
	Raw     string
	Tags    map[string]TagValue
	Prefix  string
	Command string
	Params  []string
}

// Tag returns the text of a tag, or "" when the tag is absent or a bare flag.
func (m *Message) Tag(key string) string { return m.Tags[key].Text }

// Parse tokenizes a single protocol line: optional @-led tag block, optional
// :-led prefix, mandatory command, then space-delimited params where a :-led
// param consumes the rest of the line verbatim (the trailing rule).
//
// It runs one forward scan over the line with no backtracking and allocates
// only the output structures. Malformed lines come back as a *ParseError
// value so a long-lived read loop can count and skip them; Parse never panics.
func Parse(line string) (*Message, error) {
	msg := &Message{Raw: line, Tags: map[string]TagValue{}}
	pos := 0

	// Tag block, terminated by the first space.
	if pos < len(line) && line[pos] == '@' {
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			return nil, &ParseError{Line: line, Cause: ErrUnterminatedTags}
		}
		for _, entry := range strings.Split(line[1:sp], ";") {
			key, val, _ := strings.Cut(entry, "=")
			if val == "" {
				msg.Tags[key] = TagValue{Flag: true}
			} else {
				msg.Tags[key] = TagValue{Text: val}
			}
		}
		pos = skipSpaces(line, sp)
	}

	// Prefix, terminated by the next space.
	if pos < len(line) && line[pos] == ':' {
		sp := strings.IndexByte(line[pos:], ' ')
		if sp < 0 {
			return nil, &ParseError{Line: line, Cause: ErrUnterminatedPrefix}
		}
		msg.Prefix = line[pos+1 : pos+sp]
		pos = skipSpaces(line, pos+sp)
	}

	// Command. A line with no command token is a failure, not a message with
	// an empty command.
	sp := strings.IndexByte(line[pos:], ' ')
	if sp < 0 {
		if pos == len(line) {
			return nil, &ParseError{Line: line, Cause: ErrMissingCommand}
		}
		msg.Command = line[pos:]
		return msg, nil
	}
	if sp == 0 {
		return nil, &ParseError{Line: line, Cause: ErrMissingCommand}
	}
	msg.Command = line[pos : pos+sp]
	pos = skipSpaces(line, pos+sp)

	// Params. A ':' starts the trailing param, which may contain spaces and
	// is always last.
	for pos < len(line) {
		if line[pos] == ':' {
			msg.Params = append(msg.Params, line[pos+1:])
			break
		}
		sp := strings.IndexByte(line[pos:], ' ')
		if sp < 0 {
			msg.Params = append(msg.Params, line[pos:])
			break
		}
		msg.Params = append(msg.Params, line[pos:pos+sp])
		pos = skipSpaces(line, pos+sp)
	}
	return msg, nil
}

// skipSpaces advances past the space run starting at i.
func skipSpaces(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}
