package types

// PreKeyBundle is the set of public keys you register with the relay.
// SignedPreKeySignature is base64-encoded automatically.
type PreKeyBundle struct {
	Username              Username       `json:"username"`
	IdentityKey           X25519Public   `json:"identity_key"`
	SigningKey            Ed25519Public  `json:"signing_key"`
	SignedPreKeyID        SignedPreKeyID `json:"signed_pre_key_id"`
	SignedPreKey          X25519Public   `json:"signed_pre_key"`
	SignedPreKeySignature []byte         `json:"signed_pre_key_signature"`
}
