package seal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/protocol/seal"
)

func TestNonce_UniquePerNumber(t *testing.T) {
	require.Len(t, seal.Nonce(0), crypto.NonceSize)
	require.NotEqual(t, seal.Nonce(1), seal.Nonce(2))
	require.Equal(t, seal.Nonce(7), seal.Nonce(7))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	var p crypto.Provider
	key := domain.SymmetricKey{4, 2}
	eph := domain.X25519Public{1}
	m := domain.Message{From: "alice", To: "bob", Number: 3, SenderEphemeral: &eph}

	require.NoError(t, seal.Seal(p, key, &m, []byte("hi")))

	pt, err := seal.Open(p, key, m)
	require.NoError(t, err)
	require.Equal(t, "hi", string(pt))
}

func TestOpen_HeaderIsAuthenticated(t *testing.T) {
	var p crypto.Provider
	key := domain.SymmetricKey{4, 2}
	m := domain.Message{From: "alice", To: "bob", Number: 3}
	require.NoError(t, seal.Seal(p, key, &m, []byte("hi")))

	moved := m
	moved.Number = 4
	_, err := seal.Open(p, key, moved)
	require.ErrorIs(t, err, domain.ErrDecryptionFailure)

	flagged := m
	flagged.Initial = true
	_, err = seal.Open(p, key, flagged)
	require.ErrorIs(t, err, domain.ErrDecryptionFailure)
}
