package prekey

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// Service manages signed pre-keys and builds the public bundle.
type Service struct {
	ids domain.IdentityStore
	ps  domain.PreKeyStore
	bs  domain.PreKeyBundleStore
	log zerolog.Logger
	now func() time.Time
}

// New returns a pre-key service over the given stores.
func New(
	ids domain.IdentityStore,
	ps domain.PreKeyStore,
	bs domain.PreKeyBundleStore,
	log zerolog.Logger,
) *Service {
	return &Service{
		ids: ids,
		ps:  ps,
		bs:  bs,
		log: log.With().Str("component", "prekey").Logger(),
		now: time.Now,
	}
}

// GenerateAndStoreSignedPreKey creates a signed pre-key, signs it with the
// identity signing key and marks it as current. Earlier keys stay on disk.
func (s *Service) GenerateAndStoreSignedPreKey(passphrase string) (domain.X25519Public, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return domain.X25519Public{}, err
	}

	spkPriv, spkPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.X25519Public{}, err
	}
	spkID := domain.SignedPreKeyID(fmt.Sprintf("spk-%d", s.now().UnixNano()))
	sig := crypto.SignEd25519(id.EdPriv, spkPub.Slice())

	if err := s.ps.SaveSignedPreKey(spkID, spkPriv, spkPub, sig); err != nil {
		return domain.X25519Public{}, err
	}
	if err := s.ps.SetCurrentSignedPreKeyID(spkID); err != nil {
		return domain.X25519Public{}, err
	}
	s.log.Info().Str("spk_id", spkID.String()).Msg("Rotated signed pre-key")
	return spkPub, nil
}

// LoadPreKeyBundle builds the public bundle from the current signed pre-key,
// caches it and returns it.
func (s *Service) LoadPreKeyBundle(passphrase string, username domain.Username) (domain.PreKeyBundle, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}

	spkID, ok, err := s.ps.CurrentSignedPreKeyID()
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !ok {
		return domain.PreKeyBundle{}, domain.ErrNoSignedPreKey
	}
	_, spkPub, sig, found, err := s.ps.LoadSignedPreKey(spkID)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !found {
		return domain.PreKeyBundle{}, domain.ErrNoSignedPreKey
	}

	b := domain.PreKeyBundle{
		Username:              username,
		IdentityKey:           id.XPub,
		SigningKey:            id.EdPub,
		SignedPreKeyID:        spkID,
		SignedPreKey:          spkPub,
		SignedPreKeySignature: sig,
	}
	if err := s.bs.SavePreKeyBundle(b); err != nil {
		return domain.PreKeyBundle{}, err
	}
	return b, nil
}

// CurrentSignedPreKey returns the private half of the current signed
// pre-key, which answers incoming handshakes.
func (s *Service) CurrentSignedPreKey() (domain.X25519Private, error) {
	spkID, ok, err := s.ps.CurrentSignedPreKeyID()
	if err != nil {
		return domain.X25519Private{}, err
	}
	if !ok {
		return domain.X25519Private{}, domain.ErrNoSignedPreKey
	}
	priv, _, _, found, err := s.ps.LoadSignedPreKey(spkID)
	if err != nil {
		return domain.X25519Private{}, err
	}
	if !found {
		return domain.X25519Private{}, domain.ErrNoSignedPreKey
	}
	return priv, nil
}

// Compile-time assertion that Service implements domain.PreKeyService.
var _ domain.PreKeyService = (*Service)(nil)
