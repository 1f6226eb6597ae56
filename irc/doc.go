// Package irc implements the wire-level pieces of the Twitch chat protocol:
// a single-pass line tokenizer, a badge-list decoder, an outgoing line
// splitter, and channel name canonicalization.
//
// Everything here is a pure function over its input: no I/O, no state kept
// between calls, safe to call concurrently from any number of goroutines.
// Protocol semantics (whether a command is recognized, what its params mean)
// are the caller's concern; this package only deals in shape.
package irc
