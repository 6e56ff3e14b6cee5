package types

import (
	"encoding/base64"
	"fmt"
)

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// MarshalText encodes the key as standard base64.
func (p X25519Public) MarshalText() ([]byte, error) { return encodeKey(p[:]) }

// UnmarshalText decodes base64 and rejects keys of the wrong length.
func (p *X25519Public) UnmarshalText(b []byte) error { return decodeKey("x25519 public", p[:], b) }

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

func (k X25519Private) MarshalText() ([]byte, error) { return encodeKey(k[:]) }

func (k *X25519Private) UnmarshalText(b []byte) error { return decodeKey("x25519 private", k[:], b) }

// Ed25519Public is an Ed25519 signing public key.
type Ed25519Public [32]byte

// Slice returns the key as a []byte.
func (p Ed25519Public) Slice() []byte { return p[:] }

func (p Ed25519Public) MarshalText() ([]byte, error) { return encodeKey(p[:]) }

func (p *Ed25519Public) UnmarshalText(b []byte) error { return decodeKey("ed25519 public", p[:], b) }

// Ed25519Private is an Ed25519 signing private key.
type Ed25519Private [64]byte

// Slice returns the key as a []byte.
func (k Ed25519Private) Slice() []byte { return k[:] }

func (k Ed25519Private) MarshalText() ([]byte, error) { return encodeKey(k[:]) }

func (k *Ed25519Private) UnmarshalText(b []byte) error { return decodeKey("ed25519 private", k[:], b) }

// SymmetricKeySize is the length of every root, chain and message key.
const SymmetricKeySize = 32

// SymmetricKey is a root or chain key used directly as the AEAD key.
type SymmetricKey [SymmetricKeySize]byte

// Slice returns the key as a []byte.
func (k SymmetricKey) Slice() []byte { return k[:] }

func encodeKey(k []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(k)))
	base64.StdEncoding.Encode(out, k)
	return out, nil
}

func decodeKey(kind string, dst, text []byte) error {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(raw, text)
	if err != nil {
		return fmt.Errorf("%s key: %w", kind, err)
	}
	if n != len(dst) {
		return fmt.Errorf("%s key: got %d bytes, want %d", kind, n, len(dst))
	}
	copy(dst, raw[:n])
	return nil
}
