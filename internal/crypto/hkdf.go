package crypto

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// maxKDFOutput is the HKDF-SHA256 expansion limit (255 blocks).
const maxKDFOutput = 255 * sha256.Size

var errKDFLength = errors.New("hkdf: invalid output length")

// DeriveKey runs HKDF-SHA256 over ikm with a zero-valued salt and the given
// info label, returning length bytes.
func DeriveKey(ikm, info []byte, length int) ([]byte, error) {
	if length <= 0 || length > maxKDFOutput {
		return nil, errKDFLength
	}
	salt := make([]byte, sha256.Size)
	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, info), out); err != nil {
		return nil, err
	}
	return out, nil
}
