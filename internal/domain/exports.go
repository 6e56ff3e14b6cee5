package domain

import (
	interfaces "sealchat/internal/domain/interfaces"
	types "sealchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username         = types.Username
	Fingerprint      = types.Fingerprint
	SignedPreKeyID   = types.SignedPreKeyID
	SessionID        = types.SessionID
	MessageNumber    = types.MessageNumber
	Identity         = types.Identity
	X25519KeyPair    = types.X25519KeyPair
	PreKeyBundle     = types.PreKeyBundle
	Message          = types.Message
	DecryptedMessage = types.DecryptedMessage
	FailedMessage    = types.FailedMessage
	SessionState     = types.SessionState
	AccountProfile   = types.AccountProfile
	X25519Public     = types.X25519Public
	X25519Private    = types.X25519Private
	Ed25519Public    = types.Ed25519Public
	Ed25519Private   = types.Ed25519Private
	SymmetricKey     = types.SymmetricKey
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService   = interfaces.IdentityService
	PreKeyService     = interfaces.PreKeyService
	HandshakeEngine   = interfaces.HandshakeEngine
	MessageService    = interfaces.MessageService
	Transport         = interfaces.Transport
	Primitives        = interfaces.Primitives
	IdentityStore     = interfaces.IdentityStore
	PreKeyStore       = interfaces.PreKeyStore
	PreKeyBundleStore = interfaces.PreKeyBundleStore
	AccountStore      = interfaces.AccountStore
	KeyValueStore     = interfaces.KeyValueStore
	SessionStateStore = interfaces.SessionStateStore
	KeyLedger         = interfaces.KeyLedger
	SessionContext    = interfaces.SessionContext
)

// NewSessionID joins the unordered pair (a, b) into a stable SessionID.
func NewSessionID(a, b Username) SessionID { return types.NewSessionID(a, b) }

// SymmetricKeySize is the length of every root and chain key.
const SymmetricKeySize = types.SymmetricKeySize
