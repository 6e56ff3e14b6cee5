package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"sealchat/internal/domain"
)

var (
	errNoRemoteEphemeral = errors.New("no remote ephemeral key on record")
	errNoLocalEphemeral  = errors.New("no local ephemeral key on record")
	errMissingEphemeral  = errors.New("initial message carries no ephemeral key")
)

// Resolution is the key chosen for one message plus the writes that make
// the choice durable.
type Resolution struct {
	Session         domain.SessionID
	Number          domain.MessageNumber
	Key             domain.SymmetricKey
	Initial         bool
	SenderEphemeral *domain.X25519Public

	// Branch names the rule that produced the key, for logs.
	Branch string

	putIndex *domain.MessageNumber
	state    *domain.SessionState
}

// Commit stores the key in the ledger and saves the updated session state.
// A Resolution with nothing to write commits as a no-op.
func (r Resolution) Commit(sc *domain.SessionContext) error {
	if r.putIndex != nil {
		if err := sc.Ledger.Put(r.Session, *r.putIndex, r.Key); err != nil {
			return fmt.Errorf("commit key %d: %w", *r.putIndex, err)
		}
	}
	if r.state != nil {
		if err := sc.Sessions.SaveSessionState(r.Session, *r.state); err != nil {
			return fmt.Errorf("commit session state: %w", err)
		}
	}
	return nil
}

// Resolver implements the inbound and outbound key decisions.
type Resolver struct {
	hs  domain.HandshakeEngine
	p   domain.Primitives
	log zerolog.Logger
}

// New returns a Resolver that derives keys through hs and generates
// ephemeral keys with p.
func New(hs domain.HandshakeEngine, p domain.Primitives, log zerolog.Logger) *Resolver {
	return &Resolver{hs: hs, p: p, log: log.With().Str("component", "resolver").Logger()}
}

// ResolveOutgoing picks the number and key for the next message to peer.
// Callers must hold the session's gate from this call until Commit.
func (r *Resolver) ResolveOutgoing(
	ctx context.Context,
	sc *domain.SessionContext,
	peer domain.Username,
) (Resolution, error) {
	sid := domain.NewSessionID(sc.Local, peer)

	latest, ok, err := sc.Transport.LatestMessageNumber(ctx, sc.Local, peer)
	if err != nil {
		return Resolution{}, fmt.Errorf("latest message number: %w", err)
	}
	var n domain.MessageNumber
	if ok {
		n = latest + 1
	}

	state, err := sc.Sessions.LoadSessionState(sid)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{Session: sid, Number: n, putIndex: &n}

	current, err := sc.Ledger.GetLatest(sid)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		eph, err := r.p.GenerateX25519()
		if err != nil {
			return Resolution{}, err
		}
		hasAny, err := sc.Transport.HasAnyMessages(ctx, sc.Local, peer)
		if err != nil {
			return Resolution{}, fmt.Errorf("check conversation: %w", err)
		}
		if !hasAny {
			res.Key, err = r.hs.Initiate(ctx, sc, eph, peer)
			if err != nil {
				return Resolution{}, err
			}
			res.Initial = true
			res.Branch = "initiate"
		} else {
			if state.LastKnownRemoteEphemeral == nil {
				return Resolution{}, &domain.HandshakeError{Op: "continue", Peer: peer, Err: errNoRemoteEphemeral}
			}
			res.Key, err = r.hs.ContinueChain(eph.Private, *state.LastKnownRemoteEphemeral)
			if err != nil {
				return Resolution{}, withPeer(err, peer)
			}
			res.Branch = "continue"
		}
		res.SenderEphemeral = &eph.Public
		state.LocalEphemeralPrivate = &eph.Private
		state.Established = true
		res.state = &state

	case err != nil:
		return Resolution{}, err

	case state.LastKnownRemoteEphemeral != nil:
		eph, err := r.p.GenerateX25519()
		if err != nil {
			return Resolution{}, err
		}
		res.Key, err = r.hs.ContinueChain(eph.Private, *state.LastKnownRemoteEphemeral)
		if err != nil {
			return Resolution{}, withPeer(err, peer)
		}
		res.SenderEphemeral = &eph.Public
		res.Branch = "ratchet"
		state.LocalEphemeralPrivate = &eph.Private
		state.Established = true
		res.state = &state

	default:
		res.Key = current
		res.Branch = "reuse"
	}

	r.log.Debug().
		Str("session", sid.String()).
		Uint64("number", uint64(n)).
		Str("branch", res.Branch).
		Msg("Resolved outgoing key")
	return res, nil
}

// ResolveIncoming picks the key for m. Nothing is written until the
// returned Resolution is committed.
func (r *Resolver) ResolveIncoming(
	ctx context.Context,
	sc *domain.SessionContext,
	m domain.Message,
) (Resolution, error) {
	sid := m.SessionID()
	n := m.Number
	res := Resolution{Session: sid, Number: n, Initial: m.Initial, SenderEphemeral: m.SenderEphemeral}

	// Echo of our own message: the key was stored when it was sent.
	if m.From == sc.Local {
		key, err := sc.Ledger.Get(sid, n)
		if err != nil {
			return Resolution{}, err
		}
		res.Key = key
		res.Branch = "echo"
		return res, nil
	}

	// A redelivered message keeps the key it was first read with.
	if key, err := sc.Ledger.Get(sid, n); err == nil {
		res.Key = key
		res.Branch = "known"
		return res, nil
	} else if !errors.Is(err, domain.ErrKeyNotFound) {
		return Resolution{}, err
	}

	state, err := sc.Sessions.LoadSessionState(sid)
	if err != nil {
		return Resolution{}, err
	}
	peer := m.From

	switch {
	case m.Initial:
		if m.SenderEphemeral == nil {
			return Resolution{}, &domain.HandshakeError{Op: "respond", Peer: peer, Err: errMissingEphemeral}
		}
		key, err := r.hs.Respond(ctx, sc, peer, *m.SenderEphemeral)
		if err != nil {
			return Resolution{}, err
		}
		zero := domain.MessageNumber(0)
		res.Key = key
		res.Branch = "respond"
		res.putIndex = &zero
		remote := *m.SenderEphemeral
		state.LastKnownRemoteEphemeral = &remote
		state.Established = true
		res.state = &state

	case m.SenderEphemeral != nil && !sameKey(m.SenderEphemeral, state.LastKnownRemoteEphemeral):
		if state.LocalEphemeralPrivate == nil {
			return Resolution{}, &domain.HandshakeError{Op: "continue", Peer: peer, Err: errNoLocalEphemeral}
		}
		key, err := r.hs.ContinueChain(*state.LocalEphemeralPrivate, *m.SenderEphemeral)
		if err != nil {
			return Resolution{}, withPeer(err, peer)
		}
		res.Key = key
		res.Branch = "continue"
		res.putIndex = &n
		remote := *m.SenderEphemeral
		state.LastKnownRemoteEphemeral = &remote
		state.Established = true
		res.state = &state

	default:
		key, err := sc.Ledger.GetLatest(sid)
		if err != nil {
			return Resolution{}, err
		}
		res.Key = key
		res.Branch = "reuse"
		res.putIndex = &n
	}

	r.log.Debug().
		Str("session", sid.String()).
		Uint64("number", uint64(n)).
		Str("branch", res.Branch).
		Msg("Resolved incoming key")
	return res, nil
}

func sameKey(a, b *domain.X25519Public) bool {
	return a != nil && b != nil && *a == *b
}

// withPeer fills in the peer on handshake errors raised without one.
func withPeer(err error, peer domain.Username) error {
	var herr *domain.HandshakeError
	if errors.As(err, &herr) && herr.Peer == "" {
		return &domain.HandshakeError{Op: herr.Op, Peer: peer, Err: herr.Err}
	}
	return err
}
