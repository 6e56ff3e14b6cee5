package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"sealchat/internal/domain"
)

const (
	fingerprintLabel = "sealchat-fingerprint"
	fingerprintBytes = 10
)

// Fingerprint renders pub for comparison by eye: the first 10 bytes of
// SHA-256(label || pub) as five groups of four hex digits.
func Fingerprint(pub domain.X25519Public) string {
	h := sha256.New()
	h.Write([]byte(fingerprintLabel))
	h.Write(pub[:])
	digits := hex.EncodeToString(h.Sum(nil)[:fingerprintBytes])

	groups := make([]string, 0, len(digits)/4)
	for i := 0; i < len(digits); i += 4 {
		groups = append(groups, digits[i:i+4])
	}
	return strings.Join(groups, " ")
}
