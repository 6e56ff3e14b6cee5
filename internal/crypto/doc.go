// Package crypto exposes the minimal primitives used by sealchat.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, DH)
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - HKDF-SHA256 with a zero salt (DeriveKey)
//   - ChaCha20-Poly1305 sealing (Seal, Open)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// Provider bundles these behind the domain.Primitives interface that the
// protocol and services packages depend on.
//
// # Notes
//
// All functions return fixed-size array types defined in internal/domain to
// avoid accidental reallocations. Callers should treat returned secrets as
// sensitive and wipe them with memzero.Zero when practical.
package crypto
