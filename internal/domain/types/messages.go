package types

// Message is a single encrypted chat message as carried by the relay.
//
// Number is assigned per conversation and starts at 0. Initial marks the
// message that bootstraps the session; SenderEphemeral is present when the
// sender ratcheted (or initiated) with a fresh ephemeral key.
type Message struct {
	ID              string        `json:"id,omitempty"`
	From            Username      `json:"from"`
	To              Username      `json:"to"`
	Number          MessageNumber `json:"message_number"`
	Initial         bool          `json:"is_initial"`
	SenderEphemeral *X25519Public `json:"sender_ephemeral_key,omitempty"`
	Cipher          []byte        `json:"cipher"`
	Timestamp       int64         `json:"timestamp"`
}

// SessionID returns the conversation the message belongs to.
func (m Message) SessionID() SessionID { return NewSessionID(m.From, m.To) }

// DecryptedMessage is what the message service returns for a readable message.
type DecryptedMessage struct {
	ID        string        `json:"id,omitempty"`
	From      Username      `json:"from"`
	To        Username      `json:"to"`
	Number    MessageNumber `json:"message_number"`
	Plaintext []byte        `json:"plaintext"`
	Timestamp int64         `json:"timestamp"`
}

// FailedMessage records a message that could not be rendered.
type FailedMessage struct {
	Message Message
	Err     error
}
