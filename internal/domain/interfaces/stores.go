package interfaces

import domaintypes "sealchat/internal/domain/types"

// IdentityStore persists your long-term identity keys.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.Identity) error
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
}

// PreKeyStore manages signed pre-keys on disk.
type PreKeyStore interface {
	SaveSignedPreKey(
		id domaintypes.SignedPreKeyID,
		priv domaintypes.X25519Private,
		pub domaintypes.X25519Public,
		sig []byte,
	) error
	LoadSignedPreKey(
		id domaintypes.SignedPreKeyID,
	) (
		priv domaintypes.X25519Private,
		pub domaintypes.X25519Public,
		sig []byte,
		ok bool,
		err error,
	)

	// Current signed pre-key selection
	SetCurrentSignedPreKeyID(id domaintypes.SignedPreKeyID) error
	CurrentSignedPreKeyID() (domaintypes.SignedPreKeyID, bool, error)
}

// PreKeyBundleStore caches the last bundle you registered.
type PreKeyBundleStore interface {
	SavePreKeyBundle(bundle domaintypes.PreKeyBundle) error
	LoadPreKeyBundle(username domaintypes.Username) (domaintypes.PreKeyBundle, bool, error)
}

// AccountStore persists per-relay account profiles.
type AccountStore interface {
	SaveAccountProfile(profile domaintypes.AccountProfile) error
	LoadAccountProfile(serverURL string) (domaintypes.AccountProfile, bool, error)
}

// KeyValueStore is the durable string-keyed store that backs the key ledger
// and session state.
type KeyValueStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Close() error
}

// SessionStateStore keeps per-conversation ephemeral bookkeeping.
type SessionStateStore interface {
	LoadSessionState(id domaintypes.SessionID) (domaintypes.SessionState, error)
	SaveSessionState(id domaintypes.SessionID, state domaintypes.SessionState) error
}

// KeyLedger is the append-only, message-number-indexed store of symmetric
// keys for each session. An index, once written, is never overwritten.
type KeyLedger interface {
	Put(id domaintypes.SessionID, index domaintypes.MessageNumber, key domaintypes.SymmetricKey) error
	Get(id domaintypes.SessionID, index domaintypes.MessageNumber) (domaintypes.SymmetricKey, error)
	GetLatest(id domaintypes.SessionID) (domaintypes.SymmetricKey, error)
	Len(id domaintypes.SessionID) (int, error)
}
