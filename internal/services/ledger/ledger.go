package ledger

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"sealchat/internal/domain"
)

const keyPrefix = "ledger/"

// Ledger stores message keys in a domain.KeyValueStore under
// "ledger/<session>" as a JSON array of base64 strings. Holes are "".
type Ledger struct {
	kv  domain.KeyValueStore
	log zerolog.Logger
	mu  sync.Mutex
}

// New returns a ledger backed by kv.
func New(kv domain.KeyValueStore, log zerolog.Logger) *Ledger {
	return &Ledger{kv: kv, log: log.With().Str("component", "ledger").Logger()}
}

// Put writes key at index unless the slot already holds a value. Existing
// values are kept even when they are malformed.
func (l *Ledger) Put(id domain.SessionID, index domain.MessageNumber, key domain.SymmetricKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	slots, err := l.load(id)
	if err != nil {
		return err
	}
	if index < domain.MessageNumber(len(slots)) && slots[index] != "" {
		l.log.Warn().
			Str("session", id.String()).
			Uint64("index", uint64(index)).
			Msg("Ledger slot already written; keeping existing key")
		return nil
	}
	for domain.MessageNumber(len(slots)) <= index {
		slots = append(slots, "")
	}
	slots[index] = base64.StdEncoding.EncodeToString(key[:])

	b, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	if err := l.kv.Set(keyPrefix+id.String(), b); err != nil {
		return fmt.Errorf("write ledger %q: %w", id, err)
	}
	l.log.Debug().
		Str("session", id.String()).
		Uint64("index", uint64(index)).
		Msg("Stored message key")
	return nil
}

// Get returns the key at index. Holes, malformed entries and indices past
// the end are reported as domain.ErrKeyNotFound.
func (l *Ledger) Get(id domain.SessionID, index domain.MessageNumber) (domain.SymmetricKey, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slots, err := l.load(id)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	if index >= domain.MessageNumber(len(slots)) {
		return domain.SymmetricKey{}, domain.ErrKeyNotFound
	}
	key, ok := decodeKey(slots[index])
	if !ok {
		return domain.SymmetricKey{}, domain.ErrKeyNotFound
	}
	return key, nil
}

// GetLatest returns the valid key with the highest index.
func (l *Ledger) GetLatest(id domain.SessionID) (domain.SymmetricKey, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slots, err := l.load(id)
	if err != nil {
		return domain.SymmetricKey{}, err
	}
	for i := len(slots) - 1; i >= 0; i-- {
		if key, ok := decodeKey(slots[i]); ok {
			return key, nil
		}
	}
	return domain.SymmetricKey{}, domain.ErrKeyNotFound
}

// Len returns the number of slots, holes included.
func (l *Ledger) Len(id domain.SessionID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slots, err := l.load(id)
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}

func (l *Ledger) load(id domain.SessionID) ([]string, error) {
	b, ok, err := l.kv.Get(keyPrefix + id.String())
	if err != nil {
		return nil, fmt.Errorf("read ledger %q: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	var slots []string
	if err := json.Unmarshal(b, &slots); err != nil {
		return nil, fmt.Errorf("decode ledger %q: %w", id, err)
	}
	return slots, nil
}

func decodeKey(s string) (domain.SymmetricKey, bool) {
	var key domain.SymmetricKey
	if s == "" {
		return key, false
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(raw) != domain.SymmetricKeySize {
		return key, false
	}
	copy(key[:], raw)
	return key, true
}

// Compile-time assertion that Ledger implements domain.KeyLedger.
var _ domain.KeyLedger = (*Ledger)(nil)
