package crypto

import "sealchat/internal/domain"

// Provider is the default domain.Primitives implementation built on
// golang.org/x/crypto and crypto/ed25519.
type Provider struct{}

// GenerateX25519 returns a fresh clamped key pair.
func (Provider) GenerateX25519() (domain.X25519KeyPair, error) {
	priv, pub, err := GenerateX25519()
	if err != nil {
		return domain.X25519KeyPair{}, err
	}
	return domain.X25519KeyPair{Private: priv, Public: pub}, nil
}

func (Provider) DH(priv domain.X25519Private, pub domain.X25519Public) ([32]byte, error) {
	return DH(priv, pub)
}

func (Provider) KDF(ikm, info []byte, length int) ([]byte, error) {
	return DeriveKey(ikm, info, length)
}

func (Provider) Seal(key domain.SymmetricKey, nonce, plaintext, ad []byte) ([]byte, error) {
	return Seal(key, nonce, plaintext, ad)
}

func (Provider) Open(key domain.SymmetricKey, nonce, ciphertext, ad []byte) ([]byte, error) {
	return Open(key, nonce, ciphertext, ad)
}

func (Provider) Verify(pub domain.Ed25519Public, message, signature []byte) bool {
	return VerifyEd25519(pub, message, signature)
}

// Compile-time assertion that Provider implements domain.Primitives.
var _ domain.Primitives = Provider{}
