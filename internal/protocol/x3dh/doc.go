// Package x3dh implements the X3DH key agreement used to bootstrap a session
// between two parties, and the single-DH chain step used to advance it.
//
// # Overview
//
// X3DH lets an initiator derive a shared 32-byte root key with a responder who
// has published a pre-key bundle. The bundle contains:
//   - Identity key (X25519)
//   - Signing key (Ed25519)
//   - Signed pre-key (X25519) and its Ed25519 signature
//
// # Flows
//
// Initiator:
//  1. Verify the signed pre-key signature.
//  2. Compute DH values (IKa·SPKb, EKa·IKb, EKa·SPKb).
//  3. HKDF over the concatenated DH transcript to produce the root key.
//
// Responder:
//  1. Receive the initiator's ephemeral public key with the first message.
//  2. Compute the symmetric DH set (SPKb·IKa, IKb·EKa, SPKb·EKa).
//  3. HKDF the same transcript to the identical root key.
//
// Chain step: DH(our ephemeral, peer ephemeral) through the same HKDF and
// label. The result replaces the session key until the next step.
//
// # Errors
//
// VerifySignedPreKey returns domain.ErrInvalidSignature when the signature
// fails. Other errors wrap lower-level crypto failures such as low-order
// public keys.
package x3dh
