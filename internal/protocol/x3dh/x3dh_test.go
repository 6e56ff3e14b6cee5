package x3dh_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/protocol/x3dh"
)

// makeIdentity creates a domain.Identity with fresh X25519 and Ed25519 pairs.
func makeIdentity(t *testing.T) domain.Identity {
	t.Helper()
	xPriv, xPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	edPriv, edPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	return domain.Identity{XPub: xPub, XPriv: xPriv, EdPub: edPub, EdPriv: edPriv}
}

func makePair(t *testing.T) (domain.X25519Private, domain.X25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	return priv, pub
}

func TestInitiatorAndResponderRoot_Match(t *testing.T) {
	var p crypto.Provider

	// Alice is initiator, Bob is responder.
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	spkPriv, spkPub := makePair(t)
	ephPriv, ephPub := makePair(t)

	rootInitiator, err := x3dh.InitiatorRootKey(p, alice.XPriv, ephPriv, bob.XPub, spkPub)
	require.NoError(t, err)

	rootResponder, err := x3dh.ResponderRootKey(p, spkPriv, bob.XPriv, alice.XPub, ephPub)
	require.NoError(t, err)

	require.Equal(t, rootInitiator, rootResponder)
	require.NotEqual(t, domain.SymmetricKey{}, rootInitiator)
}

func TestInitiatorAndResponderRoot_WrongCounterpartDiffers(t *testing.T) {
	var p crypto.Provider

	alice := makeIdentity(t)
	bob := makeIdentity(t)
	mallory := makeIdentity(t)
	spkPriv, spkPub := makePair(t)
	ephPriv, ephPub := makePair(t)

	rootInitiator, err := x3dh.InitiatorRootKey(p, alice.XPriv, ephPriv, bob.XPub, spkPub)
	require.NoError(t, err)

	// Bob believes the message came from Mallory.
	rootResponder, err := x3dh.ResponderRootKey(p, spkPriv, bob.XPriv, mallory.XPub, ephPub)
	require.NoError(t, err)

	require.NotEqual(t, rootInitiator, rootResponder)
}

func TestChainKey_DeterministicAndSymmetric(t *testing.T) {
	var p crypto.Provider
	aPriv, aPub := makePair(t)
	bPriv, bPub := makePair(t)

	k1, err := x3dh.ChainKey(p, aPriv, bPub)
	require.NoError(t, err)
	k2, err := x3dh.ChainKey(p, aPriv, bPub)
	require.NoError(t, err)
	k3, err := x3dh.ChainKey(p, bPriv, aPub)
	require.NoError(t, err)

	require.Equal(t, k1, k2)
	require.Equal(t, k1, k3)
}

func TestVerifySignedPreKey(t *testing.T) {
	var p crypto.Provider
	bob := makeIdentity(t)
	_, spkPub := makePair(t)

	bundle := domain.PreKeyBundle{
		Username:              "bob",
		IdentityKey:           bob.XPub,
		SigningKey:            bob.EdPub,
		SignedPreKeyID:        "spk-test",
		SignedPreKey:          spkPub,
		SignedPreKeySignature: crypto.SignEd25519(bob.EdPriv, spkPub[:]),
	}
	require.NoError(t, x3dh.VerifySignedPreKey(p, bundle))

	bundle.SignedPreKeySignature[0] ^= 1
	require.ErrorIs(t, x3dh.VerifySignedPreKey(p, bundle), domain.ErrInvalidSignature)
}
