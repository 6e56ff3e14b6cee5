package identity_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sealchat/internal/services/identity"
	"sealchat/internal/store"
)

const strongPass = "Correct-Horse-9"

func TestGenerateIdentity_WeakPassphrase(t *testing.T) {
	svc := identity.New(store.NewIdentityFileStore(t.TempDir()), zerolog.Nop())
	for _, p := range []string{"", "short1!A", "alllowercase-123", "NoDigitsHere!!", "NoSymbols12345"} {
		_, _, err := svc.GenerateIdentity(p)
		require.ErrorIs(t, err, identity.ErrWeakPassphrase, p)
	}
}

func TestGenerateIdentity_LoadAndFingerprint(t *testing.T) {
	svc := identity.New(store.NewIdentityFileStore(t.TempDir()), zerolog.Nop())

	id, fp, err := svc.GenerateIdentity(strongPass)
	require.NoError(t, err)
	require.Len(t, fp.String(), 24)

	loaded, err := svc.LoadIdentity(strongPass)
	require.NoError(t, err)
	require.Equal(t, id, loaded)

	again, err := svc.FingerprintIdentity(strongPass)
	require.NoError(t, err)
	require.Equal(t, fp, again)

	_, err = svc.LoadIdentity("Wrong-Horse-9")
	require.Error(t, err)
}
