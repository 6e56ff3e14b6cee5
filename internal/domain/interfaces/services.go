package interfaces

import (
	"context"
	"time"

	domaintypes "sealchat/internal/domain/types"
)

// IdentityService creates, retrieves, and inspects your identity keys.
type IdentityService interface {
	GenerateIdentity(passphrase string) (
		domaintypes.Identity,
		domaintypes.Fingerprint,
		error,
	)
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
	FingerprintIdentity(passphrase string) (domaintypes.Fingerprint, error)
}

// PreKeyService generates and assembles your pre-key bundles.
type PreKeyService interface {
	GenerateAndStoreSignedPreKey(passphrase string) (domaintypes.X25519Public, error)
	LoadPreKeyBundle(
		passphrase string,
		username domaintypes.Username,
	) (domaintypes.PreKeyBundle, error)
	CurrentSignedPreKey() (domaintypes.X25519Private, error)
}

// HandshakeEngine bootstraps and advances session keys.
type HandshakeEngine interface {
	Initiate(
		ctx context.Context,
		sc *SessionContext,
		ephemeral domaintypes.X25519KeyPair,
		remote domaintypes.Username,
	) (domaintypes.SymmetricKey, error)
	Respond(
		ctx context.Context,
		sc *SessionContext,
		remote domaintypes.Username,
		remoteEphemeral domaintypes.X25519Public,
	) (domaintypes.SymmetricKey, error)
	ContinueChain(
		localEphemeral domaintypes.X25519Private,
		remoteEphemeral domaintypes.X25519Public,
	) (domaintypes.SymmetricKey, error)
}

// MessageService encrypts, sends, fetches and decrypts messages.
type MessageService interface {
	Send(
		ctx context.Context,
		sc *SessionContext,
		to domaintypes.Username,
		plaintext []byte,
	) (domaintypes.Message, error)
	Receive(
		ctx context.Context,
		sc *SessionContext,
		message domaintypes.Message,
	) (domaintypes.DecryptedMessage, error)
	ReceivePending(
		ctx context.Context,
		sc *SessionContext,
		limit int,
	) ([]domaintypes.DecryptedMessage, []domaintypes.FailedMessage, error)
	History(
		ctx context.Context,
		sc *SessionContext,
		peer domaintypes.Username,
	) ([]domaintypes.DecryptedMessage, []domaintypes.FailedMessage, error)
	Listen(
		ctx context.Context,
		sc *SessionContext,
		interval time.Duration,
		handler func(domaintypes.DecryptedMessage, error),
	) error
}
