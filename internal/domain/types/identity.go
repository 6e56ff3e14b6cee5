package types

// Identity holds your long-term X25519 and Ed25519 keys. It is created once
// per account and never rotates.
type Identity struct {
	XPub   X25519Public   `json:"xpub"`
	XPriv  X25519Private  `json:"xpriv"`
	EdPub  Ed25519Public  `json:"edpub"`
	EdPriv Ed25519Private `json:"edpriv"`
}

// X25519KeyPair is an ephemeral or signed-prekey pair.
type X25519KeyPair struct {
	Private X25519Private
	Public  X25519Public
}
