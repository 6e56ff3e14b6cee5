package interfaces

import domaintypes "sealchat/internal/domain/types"

// SessionContext carries everything the protocol core needs about the local
// user. It is built once by the caller and passed explicitly to every
// resolver and handshake call.
type SessionContext struct {
	Local        domaintypes.Username
	Identity     domaintypes.Identity
	SignedPreKey domaintypes.X25519Private

	Ledger    KeyLedger
	Sessions  SessionStateStore
	Transport Transport
}
