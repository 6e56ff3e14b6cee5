// Package prekey generates signed pre-keys and assembles the bundle that is
// published to the relay.
package prekey
