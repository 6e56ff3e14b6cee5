package types

import (
	"sort"
	"strings"
)

// Username represents a relay-registered identity.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// SignedPreKeyID uniquely identifies a signed pre-key.
type SignedPreKeyID string

// String returns the string form of the identifier.
func (id SignedPreKeyID) String() string { return string(id) }

// SessionID names the conversation between two users. It does not depend on
// which side computes it.
type SessionID string

// String returns the string form of the session identifier.
func (id SessionID) String() string { return string(id) }

// sessionSeparator cannot appear in a valid username.
const sessionSeparator = "|"

// NewSessionID joins the unordered pair (a, b) into a stable SessionID.
func NewSessionID(a, b Username) SessionID {
	pair := []string{a.String(), b.String()}
	sort.Strings(pair)
	return SessionID(strings.Join(pair, sessionSeparator))
}

// ValidUsername reports whether u can be used as a session participant.
func ValidUsername(u Username) bool {
	return u != "" && !strings.Contains(u.String(), sessionSeparator) &&
		!strings.ContainsAny(u.String(), "/ \t\n")
}

// MessageNumber is the per-conversation sequence number assigned by the relay.
// It doubles as the Key Ledger index.
type MessageNumber uint64
