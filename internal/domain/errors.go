package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature is returned when a peer's signed pre-key does not
	// verify against their signing key. It is a trust failure and must be
	// shown to the user.
	ErrInvalidSignature = errors.New("signed pre-key signature is invalid")

	// ErrKeyNotFound is returned when the key ledger has no usable key for a
	// message. The message is unreadable; the session is left as is.
	ErrKeyNotFound = errors.New("message key not found")

	// ErrDecryptionFailure is returned when AEAD authentication fails.
	ErrDecryptionFailure = errors.New("message could not be decrypted")

	// ErrSequenceConflict is returned by the relay when a message number was
	// already taken by a concurrent sender.
	ErrSequenceConflict = errors.New("message number already in use")

	// ErrUnknownUser is returned when the relay has no bundle for a username.
	ErrUnknownUser = errors.New("unknown user")

	// ErrNoSignedPreKey is returned when no signed pre-key has been generated.
	ErrNoSignedPreKey = errors.New("no signed pre-key available")

	// ErrInvalidUsername is returned for usernames that cannot name a session.
	ErrInvalidUsername = errors.New("invalid username")
)

// HandshakeError reports a failed handshake or ratchet step. It is fatal to
// the send or receive attempt that caused it and may be retried.
type HandshakeError struct {
	Op   string
	Peer Username
	Err  error
}

func (e *HandshakeError) Error() string {
	if e.Peer == "" {
		return fmt.Sprintf("handshake %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("handshake %s with %q: %v", e.Op, e.Peer, e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// IsUnreadable reports whether err marks a single message as unreadable
// rather than a failure of the whole operation.
func IsUnreadable(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, ErrDecryptionFailure)
}
