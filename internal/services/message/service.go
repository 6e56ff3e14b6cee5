package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sealchat/internal/domain"
	"sealchat/internal/domain/types"
	"sealchat/internal/protocol/seal"
	"sealchat/internal/services/session"
	"sealchat/internal/util/keylock"
)

// DefaultPollInterval is used by Listen when no interval is given.
const DefaultPollInterval = 2 * time.Second

// Service implements domain.MessageService.
type Service struct {
	resolver *session.Resolver
	p        domain.Primitives
	gate     keylock.Locker
	log      zerolog.Logger
}

// New constructs a message Service.
func New(resolver *session.Resolver, p domain.Primitives, log zerolog.Logger) *Service {
	return &Service{
		resolver: resolver,
		p:        p,
		log:      log.With().Str("component", "messages").Logger(),
	}
}

// Send encrypts plaintext for to and posts it through the transport.
//
// The key and session state are committed only once the relay has accepted
// the message. A rejected send leaves both untouched, so the peer's message
// holding that number still resolves normally and the next send resolves
// again from the relay's latest number.
func (s *Service) Send(
	ctx context.Context,
	sc *domain.SessionContext,
	to domain.Username,
	plaintext []byte,
) (domain.Message, error) {
	if !types.ValidUsername(to) || to == sc.Local {
		return domain.Message{}, domain.ErrInvalidUsername
	}
	sid := domain.NewSessionID(sc.Local, to)
	unlock := s.gate.Lock(sid.String())
	defer unlock()

	res, err := s.resolver.ResolveOutgoing(ctx, sc, to)
	if err != nil {
		return domain.Message{}, err
	}
	if n, err := sc.Ledger.Len(sid); err == nil && res.Number > 0 && domain.MessageNumber(n) < res.Number {
		s.log.Warn().
			Str("session", sid.String()).
			Uint64("number", uint64(res.Number)).
			Msg("Sending before reading earlier messages in this conversation")
	}
	m := domain.Message{
		From:            sc.Local,
		To:              to,
		Number:          res.Number,
		Initial:         res.Initial,
		SenderEphemeral: res.SenderEphemeral,
	}
	if err := seal.Seal(s.p, res.Key, &m, plaintext); err != nil {
		return domain.Message{}, err
	}
	if err := sc.Transport.SendMessage(ctx, m); err != nil {
		return domain.Message{}, fmt.Errorf("send message %d to %q: %w", m.Number, to, err)
	}
	if err := res.Commit(sc); err != nil {
		s.log.Error().
			Err(err).
			Str("session", sid.String()).
			Uint64("number", uint64(m.Number)).
			Msg("Message sent but its key could not be stored")
		return m, err
	}

	s.log.Info().
		Str("to", to.String()).
		Uint64("number", uint64(m.Number)).
		Bool("initial", m.Initial).
		Str("branch", res.Branch).
		Msg("Sent message")
	return m, nil
}

// Receive resolves the key for m, decrypts it and then commits the key.
// Failures leave the ledger and session state untouched.
func (s *Service) Receive(
	ctx context.Context,
	sc *domain.SessionContext,
	m domain.Message,
) (domain.DecryptedMessage, error) {
	if m.To != sc.Local && m.From != sc.Local {
		return domain.DecryptedMessage{}, fmt.Errorf("message %d is not addressed to %q: %w", m.Number, sc.Local, domain.ErrInvalidUsername)
	}
	unlock := s.gate.Lock(m.SessionID().String())
	defer unlock()

	res, err := s.resolver.ResolveIncoming(ctx, sc, m)
	if err != nil {
		return domain.DecryptedMessage{}, err
	}
	plaintext, err := seal.Open(s.p, res.Key, m)
	if err != nil {
		s.log.Warn().
			Str("from", m.From.String()).
			Uint64("number", uint64(m.Number)).
			Str("branch", res.Branch).
			Msg("Message failed to decrypt")
		return domain.DecryptedMessage{}, err
	}
	if err := res.Commit(sc); err != nil {
		return domain.DecryptedMessage{}, err
	}

	s.log.Debug().
		Str("from", m.From.String()).
		Uint64("number", uint64(m.Number)).
		Str("branch", res.Branch).
		Msg("Received message")
	return decrypted(m, plaintext), nil
}

// ReceivePending fetches up to limit queued messages and processes them in
// order.
//
// Unreadable messages are reported in the failed list and acknowledged with
// the rest: they are not retried. Any other error stops processing, the
// messages handled so far are acknowledged, and the remainder stay queued.
func (s *Service) ReceivePending(
	ctx context.Context,
	sc *domain.SessionContext,
	limit int,
) ([]domain.DecryptedMessage, []domain.FailedMessage, error) {
	msgs, err := sc.Transport.FetchMessages(ctx, sc.Local, limit)
	if err != nil {
		return nil, nil, err
	}

	var (
		out       []domain.DecryptedMessage
		failed    []domain.FailedMessage
		processed int
		stopErr   error
	)
	for _, m := range msgs {
		dm, err := s.Receive(ctx, sc, m)
		if err != nil {
			if !perMessage(err) {
				stopErr = fmt.Errorf("message %d from %q: %w", m.Number, m.From, err)
				break
			}
			failed = append(failed, domain.FailedMessage{Message: m, Err: err})
		} else {
			out = append(out, dm)
		}
		processed++
	}

	if processed > 0 {
		if err := sc.Transport.AckMessages(ctx, sc.Local, processed); err != nil {
			return out, failed, fmt.Errorf("ack %d messages: %w", processed, err)
		}
	}
	return out, failed, stopErr
}

// History decrypts the whole conversation with peer from keys already in
// the ledger. It never derives or stores keys; messages not yet received
// are reported as failed with domain.ErrKeyNotFound.
func (s *Service) History(
	ctx context.Context,
	sc *domain.SessionContext,
	peer domain.Username,
) ([]domain.DecryptedMessage, []domain.FailedMessage, error) {
	msgs, err := sc.Transport.FetchHistory(ctx, sc.Local, peer)
	if err != nil {
		return nil, nil, err
	}

	var (
		out    []domain.DecryptedMessage
		failed []domain.FailedMessage
	)
	for _, m := range msgs {
		key, err := sc.Ledger.Get(m.SessionID(), m.Number)
		if err != nil {
			if !errors.Is(err, domain.ErrKeyNotFound) {
				return out, failed, err
			}
			failed = append(failed, domain.FailedMessage{Message: m, Err: err})
			continue
		}
		plaintext, err := seal.Open(s.p, key, m)
		if err != nil {
			failed = append(failed, domain.FailedMessage{Message: m, Err: err})
			continue
		}
		out = append(out, decrypted(m, plaintext))
	}
	return out, failed, nil
}

// Listen polls for queued messages every interval and hands each result to
// handler until ctx is done. Unreadable messages reach handler with their
// header fields set and a non-nil error.
func (s *Service) Listen(
	ctx context.Context,
	sc *domain.SessionContext,
	interval time.Duration,
	handler func(domain.DecryptedMessage, error),
) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().Str("user", sc.Local.String()).Dur("interval", interval).Msg("Listening for messages")
	for {
		out, failed, err := s.ReceivePending(ctx, sc, 0)
		for _, dm := range out {
			handler(dm, nil)
		}
		for _, f := range failed {
			handler(decrypted(f.Message, nil), f.Err)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn().Err(err).Msg("Polling for messages failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// perMessage reports whether err concerns only the message that caused it.
// Handshake failures are final for their message unless the caller gave up.
func perMessage(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var herr *domain.HandshakeError
	return domain.IsUnreadable(err) || errors.Is(err, domain.ErrInvalidUsername) || errors.As(err, &herr)
}

func decrypted(m domain.Message, plaintext []byte) domain.DecryptedMessage {
	return domain.DecryptedMessage{
		ID:        m.ID,
		From:      m.From,
		To:        m.To,
		Number:    m.Number,
		Plaintext: plaintext,
		Timestamp: m.Timestamp,
	}
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
