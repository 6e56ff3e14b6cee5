// Package testkit builds registered users against an in-memory relay for
// service tests.
package testkit

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/relay"
	"sealchat/internal/services/ledger"
	"sealchat/internal/store"
)

// NewUser generates an identity and signed prekey for name, registers the
// bundle with t and returns a session context with file-backed state.
func NewUser(tb testing.TB, t domain.Transport, name domain.Username) *domain.SessionContext {
	tb.Helper()

	xPriv, xPub, err := crypto.GenerateX25519()
	require.NoError(tb, err)
	edPriv, edPub, err := crypto.GenerateEd25519()
	require.NoError(tb, err)
	spkPriv, spkPub, err := crypto.GenerateX25519()
	require.NoError(tb, err)

	bundle := domain.PreKeyBundle{
		Username:              name,
		IdentityKey:           xPub,
		SigningKey:            edPub,
		SignedPreKeyID:        "spk-1",
		SignedPreKey:          spkPub,
		SignedPreKeySignature: crypto.SignEd25519(edPriv, spkPub.Slice()),
	}
	require.NoError(tb, t.RegisterPreKeyBundle(context.Background(), bundle))

	kv := store.NewKVFileStore(tb.TempDir())
	return &domain.SessionContext{
		Local:        name,
		Identity:     domain.Identity{XPub: xPub, XPriv: xPriv, EdPub: edPub, EdPriv: edPriv},
		SignedPreKey: spkPriv,
		Ledger:       ledger.New(kv, zerolog.Nop()),
		Sessions:     store.NewSessionStateStore(kv),
		Transport:    t,
	}
}

// NewHub returns a quiet in-memory relay.
func NewHub() *relay.Hub { return relay.NewHub(zerolog.Nop()) }
