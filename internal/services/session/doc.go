// Package session decides which key protects each message.
//
// The Resolver inspects the key ledger, the per-session ephemeral
// bookkeeping and the relay's sequence numbers, and calls the handshake
// engine when a session starts or advances. It never writes anything
// itself: every decision comes back as a Resolution whose Commit applies
// the ledger write and the session-state update together, so callers can
// defer it until the relay has accepted a send or decryption has succeeded.
package session
