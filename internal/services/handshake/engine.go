package handshake

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"sealchat/internal/domain"
	"sealchat/internal/protocol/x3dh"
)

var errNoIdentity = errors.New("no local identity")

// Engine implements domain.HandshakeEngine on top of a primitive provider.
type Engine struct {
	p   domain.Primitives
	log zerolog.Logger
}

// New returns an Engine using p for every cryptographic operation.
func New(p domain.Primitives, log zerolog.Logger) *Engine {
	return &Engine{p: p, log: log.With().Str("component", "handshake").Logger()}
}

// Initiate fetches and verifies remote's bundle and derives the initiator's
// root key with the given ephemeral pair.
func (e *Engine) Initiate(
	ctx context.Context,
	sc *domain.SessionContext,
	ephemeral domain.X25519KeyPair,
	remote domain.Username,
) (domain.SymmetricKey, error) {
	bundle, err := e.verifiedBundle(ctx, sc, "initiate", remote)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	key, err := x3dh.InitiatorRootKey(
		e.p,
		sc.Identity.XPriv,
		ephemeral.Private,
		bundle.IdentityKey,
		bundle.SignedPreKey,
	)
	if err != nil {
		return domain.SymmetricKey{}, &domain.HandshakeError{Op: "initiate", Peer: remote, Err: err}
	}
	e.log.Debug().
		Str("local", sc.Local.String()).
		Str("remote", remote.String()).
		Str("spk_id", bundle.SignedPreKeyID.String()).
		Msg("Derived initiator root key")
	return key, nil
}

// Respond derives the responder's root key for an initial message carrying
// remoteEphemeral.
func (e *Engine) Respond(
	ctx context.Context,
	sc *domain.SessionContext,
	remote domain.Username,
	remoteEphemeral domain.X25519Public,
) (domain.SymmetricKey, error) {
	if sc.SignedPreKey == (domain.X25519Private{}) {
		return domain.SymmetricKey{}, &domain.HandshakeError{Op: "respond", Peer: remote, Err: domain.ErrNoSignedPreKey}
	}
	bundle, err := e.verifiedBundle(ctx, sc, "respond", remote)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	key, err := x3dh.ResponderRootKey(
		e.p,
		sc.SignedPreKey,
		sc.Identity.XPriv,
		bundle.IdentityKey,
		remoteEphemeral,
	)
	if err != nil {
		return domain.SymmetricKey{}, &domain.HandshakeError{Op: "respond", Peer: remote, Err: err}
	}
	e.log.Debug().
		Str("local", sc.Local.String()).
		Str("remote", remote.String()).
		Msg("Derived responder root key")
	return key, nil
}

// ContinueChain derives the next session key from a single DH between
// ephemeral keys. Both sides obtain the same key.
func (e *Engine) ContinueChain(
	localEphemeral domain.X25519Private,
	remoteEphemeral domain.X25519Public,
) (domain.SymmetricKey, error) {
	key, err := x3dh.ChainKey(e.p, localEphemeral, remoteEphemeral)
	if err != nil {
		return domain.SymmetricKey{}, &domain.HandshakeError{Op: "continue", Err: err}
	}
	return key, nil
}

func (e *Engine) verifiedBundle(
	ctx context.Context,
	sc *domain.SessionContext,
	op string,
	remote domain.Username,
) (domain.PreKeyBundle, error) {
	if sc.Identity.XPriv == (domain.X25519Private{}) {
		return domain.PreKeyBundle{}, &domain.HandshakeError{Op: op, Peer: remote, Err: errNoIdentity}
	}
	bundle, err := sc.Transport.FetchPreKeyBundle(ctx, remote)
	if err != nil {
		return domain.PreKeyBundle{}, &domain.HandshakeError{Op: op, Peer: remote, Err: err}
	}
	if err := x3dh.VerifySignedPreKey(e.p, bundle); err != nil {
		e.log.Warn().
			Str("remote", remote.String()).
			Str("spk_id", bundle.SignedPreKeyID.String()).
			Msg("Signed pre-key signature did not verify")
		return domain.PreKeyBundle{}, &domain.HandshakeError{Op: op, Peer: remote, Err: err}
	}
	return bundle, nil
}

// Compile-time assertion that Engine implements domain.HandshakeEngine.
var _ domain.HandshakeEngine = (*Engine)(nil)
