// Package seal frames chat messages for AEAD encryption.
//
// The nonce is derived from the message number, and the associated data
// binds sender, recipient, number, the initial flag and the sender's
// ephemeral key, so a relay cannot move a ciphertext to another slot or strip
// its ratchet signal without detection.
package seal
