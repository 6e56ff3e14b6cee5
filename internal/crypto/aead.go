package crypto

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"sealchat/internal/domain"
)

// NonceSize is the AEAD nonce length callers must supply.
const NonceSize = chacha20poly1305.NonceSize

// Seal encrypts plaintext under key with ChaCha20-Poly1305.
func Seal(key domain.SymmetricKey, nonce, plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key.Slice())
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("seal: nonce must be %d bytes, got %d", aead.NonceSize(), len(nonce))
	}
	return aead.Seal(nil, nonce, plaintext, ad), nil
}

// Open authenticates and decrypts ciphertext. Any failure, including a bad
// nonce length, is reported as domain.ErrDecryptionFailure.
func Open(key domain.SymmetricKey, nonce, ciphertext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key.Slice())
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, domain.ErrDecryptionFailure
	}
	pt, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, domain.ErrDecryptionFailure
	}
	return pt, nil
}
