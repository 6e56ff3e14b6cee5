package message_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/services/handshake"
	"sealchat/internal/services/message"
	"sealchat/internal/services/session"
	"sealchat/internal/testkit"
)

func newService() *message.Service {
	p := crypto.Provider{}
	return message.New(session.New(handshake.New(p, zerolog.Nop()), p, zerolog.Nop()), p, zerolog.Nop())
}

func plaintexts(msgs []domain.DecryptedMessage) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, string(m.Plaintext))
	}
	return out
}

func TestSend_FirstMessageRunsHandshake(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	m, err := svc.Send(ctx, alice, "bob", []byte("hi"))
	require.NoError(t, err)
	require.True(t, m.Initial)
	require.Equal(t, domain.MessageNumber(0), m.Number)

	got, failed, err := svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Equal(t, []string{"hi"}, plaintexts(got))

	ka, err := alice.Ledger.Get(m.SessionID(), 0)
	require.NoError(t, err)
	kb, err := bob.Ledger.Get(m.SessionID(), 0)
	require.NoError(t, err)
	require.Equal(t, ka, kb)
}

func TestSend_SecondMessageReusesKey(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	_, err := svc.Send(ctx, alice, "bob", []byte("hi"))
	require.NoError(t, err)
	m1, err := svc.Send(ctx, alice, "bob", []byte("again"))
	require.NoError(t, err)
	require.Equal(t, domain.MessageNumber(1), m1.Number)
	require.Nil(t, m1.SenderEphemeral)

	got, failed, err := svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Equal(t, []string{"hi", "again"}, plaintexts(got))

	k0, err := bob.Ledger.Get(m1.SessionID(), 0)
	require.NoError(t, err)
	k1, err := bob.Ledger.Get(m1.SessionID(), 1)
	require.NoError(t, err)
	require.Equal(t, k0, k1)
}

func TestSend_RatchetForwardDerivesNewKey(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	for _, text := range []string{"m0", "m1"} {
		_, err := svc.Send(ctx, alice, "bob", []byte(text))
		require.NoError(t, err)
	}
	_, _, err := svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)

	for _, text := range []string{"m2", "m3", "m4"} {
		m, err := svc.Send(ctx, bob, "alice", []byte(text))
		require.NoError(t, err)
		require.NotNil(t, m.SenderEphemeral)
	}
	got, failed, err := svc.ReceivePending(ctx, alice, 0)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Equal(t, []string{"m2", "m3", "m4"}, plaintexts(got))

	m5, err := svc.Send(ctx, alice, "bob", []byte("m5"))
	require.NoError(t, err)
	require.Equal(t, domain.MessageNumber(5), m5.Number)
	require.NotNil(t, m5.SenderEphemeral)

	st, err := bob.Sessions.LoadSessionState(m5.SessionID())
	require.NoError(t, err)
	require.NotEqual(t, *st.LastKnownRemoteEphemeral, *m5.SenderEphemeral)

	got, failed, err = svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Equal(t, []string{"m5"}, plaintexts(got))

	k0, err := bob.Ledger.Get(m5.SessionID(), 0)
	require.NoError(t, err)
	k5, err := bob.Ledger.Get(m5.SessionID(), 5)
	require.NoError(t, err)
	require.NotEqual(t, k0, k5)

	st, err = bob.Sessions.LoadSessionState(m5.SessionID())
	require.NoError(t, err)
	require.Equal(t, *m5.SenderEphemeral, *st.LastKnownRemoteEphemeral)
}

func TestReceive_TamperedCiphertextLeavesLedger(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	m0, err := svc.Send(ctx, alice, "bob", []byte("hi"))
	require.NoError(t, err)
	_, err = svc.Receive(ctx, bob, m0)
	require.NoError(t, err)

	m1, err := svc.Send(ctx, alice, "bob", []byte("secret"))
	require.NoError(t, err)

	tampered := m1
	tampered.Cipher = append([]byte(nil), m1.Cipher...)
	tampered.Cipher[0] ^= 0x01

	_, err = svc.Receive(ctx, bob, tampered)
	require.ErrorIs(t, err, domain.ErrDecryptionFailure)

	n, err := bob.Ledger.Len(m1.SessionID())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	dm, err := svc.Receive(ctx, bob, m1)
	require.NoError(t, err)
	require.Equal(t, "secret", string(dm.Plaintext))
}

// staleLatest reports the relay's latest number one behind once, as if
// the peer's message landed between the lookup and the send.
type staleLatest struct {
	domain.Transport
	armed bool
}

func (s *staleLatest) LatestMessageNumber(
	ctx context.Context,
	a, b domain.Username,
) (domain.MessageNumber, bool, error) {
	n, ok, err := s.Transport.LatestMessageNumber(ctx, a, b)
	if err == nil && ok && s.armed && n > 0 {
		s.armed = false
		n--
	}
	return n, ok, err
}

func TestSend_RejectedNumberLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	_, err := svc.Send(ctx, alice, "bob", []byte("m0"))
	require.NoError(t, err)
	_, _, err = svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob, "alice", []byte("m1"))
	require.NoError(t, err)
	_, failed, err := svc.ReceivePending(ctx, alice, 0)
	require.NoError(t, err)
	require.Empty(t, failed)

	m2, err := svc.Send(ctx, bob, "alice", []byte("m2"))
	require.NoError(t, err)
	sid := m2.SessionID()

	lenBefore, err := alice.Ledger.Len(sid)
	require.NoError(t, err)
	stateBefore, err := alice.Sessions.LoadSessionState(sid)
	require.NoError(t, err)

	alice.Transport = &staleLatest{Transport: hub, armed: true}
	_, err = svc.Send(ctx, alice, "bob", []byte("lost"))
	require.ErrorIs(t, err, domain.ErrSequenceConflict)

	lenAfter, err := alice.Ledger.Len(sid)
	require.NoError(t, err)
	require.Equal(t, lenBefore, lenAfter)
	stateAfter, err := alice.Sessions.LoadSessionState(sid)
	require.NoError(t, err)
	require.Equal(t, stateBefore, stateAfter)

	got, failed, err := svc.ReceivePending(ctx, alice, 0)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Equal(t, []string{"m2"}, plaintexts(got))

	m3, err := svc.Send(ctx, alice, "bob", []byte("m3"))
	require.NoError(t, err)
	require.Equal(t, domain.MessageNumber(3), m3.Number)
	got, failed, err = svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Equal(t, []string{"m3"}, plaintexts(got))

	_, err = svc.Send(ctx, bob, "alice", []byte("m4"))
	require.NoError(t, err)
	got, failed, err = svc.ReceivePending(ctx, alice, 0)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Equal(t, []string{"m4"}, plaintexts(got))
}

func TestFailedInitialLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	m0, err := svc.Send(ctx, alice, "bob", []byte("hi"))
	require.NoError(t, err)
	m0.Cipher[len(m0.Cipher)-1] ^= 0x01

	_, err = svc.Receive(ctx, bob, m0)
	require.ErrorIs(t, err, domain.ErrDecryptionFailure)

	st, err := bob.Sessions.LoadSessionState(m0.SessionID())
	require.NoError(t, err)
	require.False(t, st.Established)
	require.Nil(t, st.LastKnownRemoteEphemeral)
}

func TestHistory_IncludesOwnMessages(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	_, err := svc.Send(ctx, alice, "bob", []byte("hello bob"))
	require.NoError(t, err)
	_, _, err = svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob, "alice", []byte("hello alice"))
	require.NoError(t, err)

	// Bob has read everything.
	got, failed, err := svc.History(ctx, bob, "alice")
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Equal(t, []string{"hello bob", "hello alice"}, plaintexts(got))

	// Alice has not received Bob's reply yet.
	got, failed, err = svc.History(ctx, alice, "bob")
	require.NoError(t, err)
	require.Equal(t, []string{"hello bob"}, plaintexts(got))
	require.Len(t, failed, 1)
	require.ErrorIs(t, failed[0].Err, domain.ErrKeyNotFound)
}

func TestConcurrentSends_DistinctNumbers(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := svc.Send(ctx, alice, "bob", []byte(fmt.Sprintf("msg %d", i)))
			if !assertNoError(t, err) {
				return
			}
			mu.Lock()
			numbers = append(numbers, int(m.Number))
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sort.Ints(numbers)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, numbers)

	got, failed, err := svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Len(t, got, n)
}

func assertNoError(t *testing.T, err error) bool {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
		return false
	}
	return true
}

func TestReceivePending_AcksUnreadable(t *testing.T) {
	ctx := context.Background()
	hub := testkit.NewHub()
	testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	// A message with no ratchet signal on an empty session cannot be read.
	require.NoError(t, hub.SendMessage(ctx, domain.Message{From: "alice", To: "bob", Number: 0, Cipher: []byte{1}}))

	got, failed, err := svc.ReceivePending(ctx, bob, 0)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Len(t, failed, 1)
	require.ErrorIs(t, failed[0].Err, domain.ErrKeyNotFound)

	queued, err := hub.FetchMessages(ctx, "bob", 0)
	require.NoError(t, err)
	require.Empty(t, queued)
}

func TestSend_RejectsSelfAndInvalidPeer(t *testing.T) {
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	svc := newService()

	_, err := svc.Send(context.Background(), alice, "alice", []byte("x"))
	require.ErrorIs(t, err, domain.ErrInvalidUsername)
	_, err = svc.Send(context.Background(), alice, "a|b", []byte("x"))
	require.ErrorIs(t, err, domain.ErrInvalidUsername)
}

func TestListen_DeliversUntilCancelled(t *testing.T) {
	hub := testkit.NewHub()
	alice := testkit.NewUser(t, hub, "alice")
	bob := testkit.NewUser(t, hub, "bob")
	svc := newService()

	_, err := svc.Send(context.Background(), alice, "bob", []byte("ping"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan domain.DecryptedMessage, 1)
	done := make(chan error, 1)
	go func() {
		done <- svc.Listen(ctx, bob, 10*time.Millisecond, func(dm domain.DecryptedMessage, err error) {
			if err == nil {
				received <- dm
			}
		})
	}()

	select {
	case dm := <-received:
		require.Equal(t, "ping", string(dm.Plaintext))
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("listen did not stop")
	}
}
