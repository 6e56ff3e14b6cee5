package relay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sealchat/internal/domain"
	"sealchat/internal/domain/types"
)

// Hub is the in-memory relay: it stores prekey bundles, queues messages per
// recipient and keeps the full history of every conversation.
//
// Hub is the sequence authority. A message is accepted only when its number
// is exactly one past the latest number of its conversation.
type Hub struct {
	mu            sync.Mutex
	bundles       map[domain.Username]domain.PreKeyBundle
	inbox         map[domain.Username][]domain.Message
	conversations map[domain.SessionID][]domain.Message

	log zerolog.Logger
	now func() time.Time
}

// NewHub returns an empty relay.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		bundles:       make(map[domain.Username]domain.PreKeyBundle),
		inbox:         make(map[domain.Username][]domain.Message),
		conversations: make(map[domain.SessionID][]domain.Message),
		log:           log.With().Str("component", "relay hub").Logger(),
		now:           time.Now,
	}
}

// RegisterPreKeyBundle stores or replaces the bundle for bundle.Username.
func (h *Hub) RegisterPreKeyBundle(_ context.Context, bundle domain.PreKeyBundle) error {
	if !types.ValidUsername(bundle.Username) {
		return domain.ErrInvalidUsername
	}
	h.mu.Lock()
	h.bundles[bundle.Username] = bundle
	h.mu.Unlock()

	h.log.Info().
		Str("username", bundle.Username.String()).
		Str("spk_id", bundle.SignedPreKeyID.String()).
		Msg("Registered prekey bundle")
	return nil
}

// FetchPreKeyBundle returns the registered bundle or domain.ErrUnknownUser.
func (h *Hub) FetchPreKeyBundle(_ context.Context, username domain.Username) (domain.PreKeyBundle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.bundles[username]
	if !ok {
		return domain.PreKeyBundle{}, domain.ErrUnknownUser
	}
	return b, nil
}

// LatestMessageNumber reports the highest number used between a and b.
func (h *Hub) LatestMessageNumber(
	_ context.Context,
	a, b domain.Username,
) (domain.MessageNumber, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conv := h.conversations[domain.NewSessionID(a, b)]
	if len(conv) == 0 {
		return 0, false, nil
	}
	return conv[len(conv)-1].Number, true, nil
}

// HasAnyMessages reports whether a and b have exchanged anything.
func (h *Hub) HasAnyMessages(ctx context.Context, a, b domain.Username) (bool, error) {
	_, ok, err := h.LatestMessageNumber(ctx, a, b)
	return ok, err
}

// SendMessage assigns an ID and timestamp, checks the sequence number and
// queues the message for its recipient.
func (h *Hub) SendMessage(_ context.Context, m domain.Message) error {
	if !types.ValidUsername(m.From) || !types.ValidUsername(m.To) || m.From == m.To {
		return domain.ErrInvalidUsername
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.bundles[m.To]; !ok {
		return domain.ErrUnknownUser
	}
	sid := m.SessionID()
	conv := h.conversations[sid]
	if want := domain.MessageNumber(len(conv)); m.Number != want {
		h.log.Warn().
			Str("session", sid.String()).
			Uint64("number", uint64(m.Number)).
			Uint64("expected", uint64(want)).
			Msg("Rejected out-of-sequence message")
		return domain.ErrSequenceConflict
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp == 0 {
		m.Timestamp = h.now().Unix()
	}
	h.conversations[sid] = append(conv, m)
	h.inbox[m.To] = append(h.inbox[m.To], m)

	h.log.Debug().
		Str("id", m.ID).
		Str("session", sid.String()).
		Uint64("number", uint64(m.Number)).
		Bool("initial", m.Initial).
		Msg("Queued message")
	return nil
}

// FetchMessages returns up to limit queued messages for username without
// removing them. A limit of zero or less returns the whole queue.
func (h *Hub) FetchMessages(
	_ context.Context,
	username domain.Username,
	limit int,
) ([]domain.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := h.inbox[username]
	if limit > 0 && limit < len(q) {
		q = q[:limit]
	}
	return append([]domain.Message(nil), q...), nil
}

// AckMessages drops the first count queued messages for username.
func (h *Hub) AckMessages(_ context.Context, username domain.Username, count int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := h.inbox[username]
	if count > len(q) {
		count = len(q)
	}
	if count <= 0 {
		return nil
	}
	h.inbox[username] = append([]domain.Message(nil), q[count:]...)
	return nil
}

// FetchHistory returns every message exchanged between a and b in order.
func (h *Hub) FetchHistory(_ context.Context, a, b domain.Username) ([]domain.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]domain.Message(nil), h.conversations[domain.NewSessionID(a, b)]...), nil
}

// Compile-time assertion that Hub implements domain.Transport.
var _ domain.Transport = (*Hub)(nil)
