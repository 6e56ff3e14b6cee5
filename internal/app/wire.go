package app

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/relay"
	"sealchat/internal/services/handshake"
	identitysvc "sealchat/internal/services/identity"
	"sealchat/internal/services/ledger"
	messagesvc "sealchat/internal/services/message"
	prekeysvc "sealchat/internal/services/prekey"
	"sealchat/internal/services/session"
	"sealchat/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config    Config
	Identity  domain.IdentityService
	Prekeys   domain.PreKeyService
	Bundles   domain.PreKeyBundleStore
	Accounts  domain.AccountStore
	Messages  domain.MessageService
	Transport domain.Transport
	Ledger    domain.KeyLedger
	Sessions  domain.SessionStateStore

	kv domain.KeyValueStore
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log zerolog.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	identityStore := store.NewIdentityFileStore(cfg.Home)
	prekeyStore := store.NewPrekeyFileStore(cfg.Home)
	bundleStore := store.NewBundleFileStore(cfg.Home)
	accountStore := store.NewAccountFileStore(cfg.Home)

	var kv domain.KeyValueStore
	switch cfg.Storage {
	case StorageBadger:
		bs, err := store.OpenBadgerStore(store.BadgerConfig{
			Dir:    filepath.Join(cfg.Home, "badger"),
			Logger: log,
		})
		if err != nil {
			return nil, err
		}
		kv = bs
	default:
		kv = store.NewKVFileStore(cfg.Home)
	}

	// Relay transport, unless the caller supplied one.
	transport := cfg.Transport
	if transport == nil {
		httpClient := cfg.HTTP
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		transport = relay.NewHTTP(cfg.RelayURL, httpClient)
	}

	p := crypto.Provider{}
	resolver := session.New(handshake.New(p, log), p, log)

	return &Wire{
		Config:    cfg,
		Identity:  identitysvc.New(identityStore, log),
		Prekeys:   prekeysvc.New(identityStore, prekeyStore, bundleStore, log),
		Bundles:   bundleStore,
		Accounts:  accountStore,
		Messages:  messagesvc.New(resolver, p, log),
		Transport: transport,
		Ledger:    ledger.New(kv, log),
		Sessions:  store.NewSessionStateStore(kv),
		kv:        kv,
	}, nil
}

// SessionContext unlocks the local identity and current signed pre-key and
// bundles them with the stores and transport for username.
func (w *Wire) SessionContext(passphrase string, username domain.Username) (*domain.SessionContext, error) {
	id, err := w.Identity.LoadIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	spk, err := w.Prekeys.CurrentSignedPreKey()
	if err != nil {
		return nil, fmt.Errorf("load signed pre-key: %w", err)
	}
	return &domain.SessionContext{
		Local:        username,
		Identity:     id,
		SignedPreKey: spk,
		Ledger:       w.Ledger,
		Sessions:     w.Sessions,
		Transport:    w.Transport,
	}, nil
}

// Close releases the key-value backend.
func (w *Wire) Close() error { return w.kv.Close() }
