package types

// SessionState is the per-conversation protocol bookkeeping.
//
// A session only ever moves from not Established to Established; later
// ratchet steps replace the ephemeral material but never reset it.
type SessionState struct {
	Established              bool           `json:"established"`
	LastKnownRemoteEphemeral *X25519Public  `json:"last_known_remote_ephemeral,omitempty"`
	LocalEphemeralPrivate    *X25519Private `json:"local_ephemeral_private,omitempty"`
}
