package x3dh

import (
	"sealchat/internal/domain"
	"sealchat/internal/util/memzero"
)

// Label is the fixed HKDF info string for every key this package derives.
const Label = "sealchat-x3dh"

// InitiatorRootKey derives the root key for the initiator using X3DH.
func InitiatorRootKey(
	p domain.Primitives,
	ourIDPriv domain.X25519Private,
	ourEphPriv domain.X25519Private,
	peerIDPub domain.X25519Public,
	peerSPK domain.X25519Public,
) (domain.SymmetricKey, error) {
	dh1, err := p.DH(ourIDPriv, peerSPK) // DH(IKA, SPKB)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	dh2, err := p.DH(ourEphPriv, peerIDPub) // DH(EKA, IKB)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	dh3, err := p.DH(ourEphPriv, peerSPK) // DH(EKA, SPKB)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	return derive(p, dh1, dh2, dh3)
}

// ResponderRootKey mirrors InitiatorRootKey from the responder's side.
func ResponderRootKey(
	p domain.Primitives,
	ourSPKPriv domain.X25519Private,
	ourIDPriv domain.X25519Private,
	peerIDPub domain.X25519Public,
	peerEphPub domain.X25519Public,
) (domain.SymmetricKey, error) {
	dh1, err := p.DH(ourSPKPriv, peerIDPub) // DH(SPKB, IKA)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	dh2, err := p.DH(ourIDPriv, peerEphPub) // DH(IKB, EKA)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	dh3, err := p.DH(ourSPKPriv, peerEphPub) // DH(SPKB, EKA)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	return derive(p, dh1, dh2, dh3)
}

// ChainKey performs one ratchet step: a single DH between our ephemeral
// private key and the peer's ephemeral public key.
func ChainKey(
	p domain.Primitives,
	ourEphPriv domain.X25519Private,
	peerEphPub domain.X25519Public,
) (domain.SymmetricKey, error) {
	dh4, err := p.DH(ourEphPriv, peerEphPub)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	return derive(p, dh4)
}

// VerifySignedPreKey checks the bundle's signed pre-key signature.
func VerifySignedPreKey(p domain.Primitives, bundle domain.PreKeyBundle) error {
	if !p.Verify(bundle.SigningKey, bundle.SignedPreKey.Slice(), bundle.SignedPreKeySignature) {
		return domain.ErrInvalidSignature
	}
	return nil
}

func derive(p domain.Primitives, parts ...[32]byte) (domain.SymmetricKey, error) {
	ikm := make([]byte, 0, 32*len(parts))
	for i := range parts {
		ikm = append(ikm, parts[i][:]...)
		memzero.Zero(parts[i][:])
	}
	defer memzero.Zero(ikm)

	out, err := p.KDF(ikm, []byte(Label), domain.SymmetricKeySize)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	var key domain.SymmetricKey
	copy(key[:], out)
	memzero.Zero(out)
	return key, nil
}
