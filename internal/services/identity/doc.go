// Package identity manages creation, encryption and loading of the local identity.
//
// It enforces a passphrase policy, generates the X25519 and Ed25519 key
// pairs, and persists them through a domain.IdentityStore.
package identity
