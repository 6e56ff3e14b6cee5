package handshake_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/services/handshake"
	"sealchat/internal/testkit"
)

func newEngine() *handshake.Engine { return handshake.New(crypto.Provider{}, zerolog.Nop()) }

func TestInitiateRespond_Agree(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	e := newEngine()

	eph, err := crypto.Provider{}.GenerateX25519()
	require.NoError(t, err)

	ka, err := e.Initiate(ctx, alice, eph, "bob")
	require.NoError(t, err)
	kb, err := e.Respond(ctx, bob, "alice", eph.Public)
	require.NoError(t, err)
	require.Equal(t, ka, kb)
}

func TestRespond_WrongCounterpart(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	testkit.NewUser(t, hub, "carol")
	e := newEngine()

	eph, err := crypto.Provider{}.GenerateX25519()
	require.NoError(t, err)

	ka, err := e.Initiate(ctx, alice, eph, "bob")
	require.NoError(t, err)
	kb, err := e.Respond(ctx, bob, "carol", eph.Public)
	require.NoError(t, err)
	require.NotEqual(t, ka, kb)
}

func TestInitiate_InvalidSignature(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	testkit.NewUser(t, hub, "bob")

	bundle, err := hub.FetchPreKeyBundle(ctx, "bob")
	require.NoError(t, err)
	bundle.SignedPreKeySignature[0] ^= 0xff
	require.NoError(t, hub.RegisterPreKeyBundle(ctx, bundle))

	eph, err := crypto.Provider{}.GenerateX25519()
	require.NoError(t, err)

	_, err = newEngine().Initiate(ctx, alice, eph, "bob")
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	var herr *domain.HandshakeError
	require.ErrorAs(t, err, &herr)
	require.Equal(t, "initiate", herr.Op)
}

func TestInitiate_UnknownPeer(t *testing.T) {
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")

	_, err := newEngine().Initiate(context.Background(), alice, domain.X25519KeyPair{}, "nobody")
	require.ErrorIs(t, err, domain.ErrUnknownUser)
}

func TestRespond_NoSignedPreKey(t *testing.T) {
	hub := testkit.NewHub()
	bob := testkit.NewUser(t, hub, "bob")
	testkit.NewUser(t, hub, "alice")
	bob.SignedPreKey = domain.X25519Private{}

	_, err := newEngine().Respond(context.Background(), bob, "alice", domain.X25519Public{9})
	require.ErrorIs(t, err, domain.ErrNoSignedPreKey)
}

func TestContinueChain_Symmetric(t *testing.T) {
	p := crypto.Provider{}
	a, err := p.GenerateX25519()
	require.NoError(t, err)
	b, err := p.GenerateX25519()
	require.NoError(t, err)

	e := newEngine()
	k1, err := e.ContinueChain(a.Private, b.Public)
	require.NoError(t, err)
	k2, err := e.ContinueChain(b.Private, a.Public)
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	again, err := e.ContinueChain(a.Private, b.Public)
	require.NoError(t, err)
	require.Equal(t, k1, again)
}

func TestContinueChain_LowOrderPoint(t *testing.T) {
	p := crypto.Provider{}
	a, err := p.GenerateX25519()
	require.NoError(t, err)

	_, err = newEngine().ContinueChain(a.Private, domain.X25519Public{})
	var herr *domain.HandshakeError
	require.ErrorAs(t, err, &herr)
}
