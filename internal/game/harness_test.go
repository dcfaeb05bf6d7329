package game

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (s *memStore) LoadAll(ctx context.Context) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.blobs))
	for k, v := range s.blobs {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) SaveAll(ctx context.Context, rooms map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range rooms {
		s.blobs[k] = v
	}
	return nil
}

func (s *memStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, code)
	return nil
}

// publishedEvent is one broker publication captured by recordBroker.
type publishedEvent struct {
	Code    string
	Event   string
	Payload any
}

// recordBroker captures publications and streams them on a channel so
// tests can wait for async round completion.
type recordBroker struct {
	mu     sync.Mutex
	events []publishedEvent
	ch     chan publishedEvent
}

func newRecordBroker() *recordBroker {
	return &recordBroker{ch: make(chan publishedEvent, 256)}
}

func (b *recordBroker) Publish(roomCode, event string, payload any) {
	e := publishedEvent{Code: roomCode, Event: event, Payload: payload}
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
	select {
	case b.ch <- e:
	default:
	}
}

func (b *recordBroker) count(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// waitFor blocks until the broker sees the named event or the deadline
// passes.
func (b *recordBroker) waitFor(t *testing.T, event string) publishedEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case e := <-b.ch:
			if e.Event == event {
				return e
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", event)
		}
	}
}

// scriptOracle judges by answer text; unknown answers are valid.
type scriptOracle struct {
	mu       sync.Mutex
	calls    int
	verdicts map[string]Verdict // normalized answer -> verdict
}

func (o *scriptOracle) Validate(ctx context.Context, answer, category, letter string) (bool, string, float64) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()
	if v, ok := o.verdicts[normalizeAnswer(answer)]; ok {
		return v.Valid, v.Reason, v.Confidence
	}
	return true, "ok", 1.0
}

func (o *scriptOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// fakeClock is manually advanced; the countdown still runs on real ticks.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	manager *Manager
	store   *memStore
	broker  *recordBroker
	oracle  *scriptOracle
	clock   *fakeClock
}

// onlyA restricts the letter pool to "A" so answer fixtures are stable.
const onlyA = "BCDEFGHIJLMNÑOPQRSTUVWXYZKQW"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:  newMemStore(),
		broker: newRecordBroker(),
		oracle: &scriptOracle{verdicts: make(map[string]Verdict)},
		clock:  newFakeClock(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.manager = NewManager(logger, env.store, env.broker, env.oracle, Options{
		MinStopTime:  30 * time.Second,
		GraceSeconds: 1,
		TickInterval: 2 * time.Millisecond,
		Letters:      NewLetterPool(onlyA),
		Clock:        env.clock,
		Rand:         rand.New(rand.NewPCG(7, 11)),
	})
	t.Cleanup(env.manager.Close)
	return env
}

// createRoom builds a room with fixed categories and returns its code plus
// one token per player (host first).
func (env *testEnv) createRoom(t *testing.T, mode Mode, players ...string) (string, []string) {
	t.Helper()
	code, hostToken, err := env.manager.CreateRoom(t.Context(), CreateParams{
		HostName:          players[0],
		Rounds:            2,
		Difficulty:        DifficultyNormal,
		Mode:              mode,
		Categories:        []string{"Color", "Animal"},
		PowerUpsEnabled:   true,
		ChatEnabled:       true,
		ValidationEnabled: true,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	tokens := []string{hostToken}
	for _, p := range players[1:] {
		token, err := env.manager.JoinRoom(t.Context(), code, p)
		if err != nil {
			t.Fatalf("JoinRoom(%s): %v", p, err)
		}
		tokens = append(tokens, token)
	}
	return code, tokens
}

// playRound starts a round, submits the given sheets, and stops it as the
// host, waiting for the results broadcast.
func (env *testEnv) playRound(t *testing.T, code, host string, sheets map[string]map[string]string) RoundResults {
	t.Helper()
	if err := env.manager.StartRound(t.Context(), code, host); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	for player, sheet := range sheets {
		if err := env.manager.SubmitAnswers(code, player, sheet); err != nil {
			t.Fatalf("SubmitAnswers(%s): %v", player, err)
		}
	}

	env.clock.Advance(time.Minute)
	if err := env.manager.TriggerStop(code, host); err != nil {
		t.Fatalf("TriggerStop: %v", err)
	}

	e := env.broker.waitFor(t, "round_results")
	results, ok := e.Payload.(RoundResults)
	if !ok {
		t.Fatalf("round_results payload is %T", e.Payload)
	}
	return results
}
