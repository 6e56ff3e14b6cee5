package seal

import (
	"encoding/binary"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// adVersion prefixes the associated data so the layout can change later.
const adVersion byte = 1

// Nonce derives the AEAD nonce for message number n. Message numbers are
// unique per conversation, so no nonce repeats under a key.
func Nonce(n domain.MessageNumber) []byte {
	nonce := make([]byte, crypto.NonceSize)
	binary.BigEndian.PutUint64(nonce[crypto.NonceSize-8:], uint64(n))
	return nonce
}

// AssociatedData binds the message header to the ciphertext.
func AssociatedData(m domain.Message) []byte {
	out := make([]byte, 0, 1+len(m.From)+len(m.To)+2+8+1+1+32)
	out = append(out, adVersion)
	out = appendString(out, m.From.String())
	out = appendString(out, m.To.String())

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(m.Number))
	out = append(out, b[:]...)

	if m.Initial {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	if m.SenderEphemeral != nil {
		out = append(out, 1)
		out = append(out, m.SenderEphemeral.Slice()...)
	} else {
		out = append(out, 0)
	}
	return out
}

// Seal encrypts plaintext into m.Cipher using the header already set on m.
func Seal(p domain.Primitives, key domain.SymmetricKey, m *domain.Message, plaintext []byte) error {
	ct, err := p.Seal(key, Nonce(m.Number), plaintext, AssociatedData(*m))
	if err != nil {
		return err
	}
	m.Cipher = ct
	return nil
}

// Open authenticates and decrypts m.Cipher.
func Open(p domain.Primitives, key domain.SymmetricKey, m domain.Message) ([]byte, error) {
	return p.Open(key, Nonce(m.Number), m.Cipher, AssociatedData(m))
}

func appendString(out []byte, s string) []byte {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(s)))
	out = append(out, l[:]...)
	return append(out, s...)
}
