package interfaces

import domaintypes "sealchat/internal/domain/types"

// Primitives is the cryptographic primitive provider the protocol core is
// written against.
type Primitives interface {
	GenerateX25519() (domaintypes.X25519KeyPair, error)
	DH(priv domaintypes.X25519Private, pub domaintypes.X25519Public) ([32]byte, error)
	// KDF derives length bytes from ikm under the given info label with a
	// zero-valued salt.
	KDF(ikm, info []byte, length int) ([]byte, error)
	Seal(key domaintypes.SymmetricKey, nonce, plaintext, associatedData []byte) ([]byte, error)
	Open(key domaintypes.SymmetricKey, nonce, ciphertext, associatedData []byte) ([]byte, error)
	Verify(pub domaintypes.Ed25519Public, message, signature []byte) bool
}
