// Package handshake derives session keys for the local user.
//
// Initiate and Respond run X3DH against the peer's published bundle and
// produce the same root key on both sides. ContinueChain advances a session
// with one Diffie-Hellman step between ephemeral keys.
package handshake
