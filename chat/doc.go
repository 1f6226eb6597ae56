// Package chat contains the ingestion pipeline and the outgoing sender.
//
// The Ingestor owns the read loop: it dials a transport, performs the login
// handshake, joins the configured channels, and feeds every inbound line to
// the irc tokenizer. PRIVMSG lines become stored chat messages, PING lines
// get an immediate PONG, and malformed lines are counted and skipped — a bad
// line on the wire must never take the loop down. When the connection drops,
// the Ingestor reconnects with capped exponential backoff until its context
// is canceled.
//
// The Sender is the outgoing half: it builds PRIVMSG lines for a channel,
// splitting payloads that exceed the protocol line budget at word boundaries
// and pacing consecutive writes to stay under the chat rate limit.
//
// Credentials: the handshake requires a bot username and an OAuth token with
// chat:read/chat:edit scopes, supplied through config.
package chat
