package app_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sealchat/internal/app"
	"sealchat/internal/domain"
	"sealchat/internal/relay"
)

const pass = "Correct-Horse-9"

func setupUser(t *testing.T, hub domain.Transport, storage string, name domain.Username) (*app.Wire, *domain.SessionContext) {
	t.Helper()
	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Storage = storage
	cfg.Transport = hub

	w, err := app.NewWire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	_, _, err = w.Identity.GenerateIdentity(pass)
	require.NoError(t, err)
	_, err = w.Prekeys.GenerateAndStoreSignedPreKey(pass)
	require.NoError(t, err)
	bundle, err := w.Prekeys.LoadPreKeyBundle(pass, name)
	require.NoError(t, err)
	require.NoError(t, w.Transport.RegisterPreKeyBundle(context.Background(), bundle))

	sc, err := w.SessionContext(pass, name)
	require.NoError(t, err)
	return w, sc
}

func TestWire_EndToEnd(t *testing.T) {
	for _, storage := range []string{app.StorageFile, app.StorageBadger} {
		t.Run(storage, func(t *testing.T) {
			ctx := context.Background()
			hub := relay.NewHub(zerolog.Nop())
			aw, alice := setupUser(t, hub, storage, "alice")
			bw, bob := setupUser(t, hub, storage, "bob")

			_, err := aw.Messages.Send(ctx, alice, "bob", []byte("hi bob"))
			require.NoError(t, err)

			got, failed, err := bw.Messages.ReceivePending(ctx, bob, 0)
			require.NoError(t, err)
			require.Empty(t, failed)
			require.Len(t, got, 1)
			require.Equal(t, "hi bob", string(got[0].Plaintext))

			_, err = bw.Messages.Send(ctx, bob, "alice", []byte("hi alice"))
			require.NoError(t, err)
			got, failed, err = aw.Messages.ReceivePending(ctx, alice, 0)
			require.NoError(t, err)
			require.Empty(t, failed)
			require.Equal(t, "hi alice", string(got[0].Plaintext))
		})
	}
}

func TestWire_SessionContextNeedsSignedPreKey(t *testing.T) {
	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)
	w, err := app.NewWire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	_, _, err = w.Identity.GenerateIdentity(pass)
	require.NoError(t, err)

	_, err = w.SessionContext(pass, "alice")
	require.ErrorIs(t, err, domain.ErrNoSignedPreKey)
}
