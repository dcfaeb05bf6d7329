package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence bridge the manager writes through. The blob is
// the JSON-encoded Room; the store never looks inside it.
type Store interface {
	LoadAll(ctx context.Context) (map[string][]byte, error)
	SaveAll(ctx context.Context, rooms map[string][]byte) error
	Delete(ctx context.Context, code string) error
}

// Publisher pushes fire-and-forget events to every subscriber of a room.
type Publisher interface {
	Publish(roomCode, event string, payload any)
}

// Oracle judges whether an answer is a valid instance of its category
// starting with the round letter. Implementations must be safe for
// concurrent use and must never block past their own timeout.
type Oracle interface {
	Validate(ctx context.Context, answer, category, letter string) (valid bool, reason string, confidence float64)
}

// Clock supplies monotonic-ish time for elapsed guards; injected in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Options carries round policy knobs and injectable collaborators.
type Options struct {
	MinStopTime  time.Duration // minimum round age before a player stop is accepted
	GraceSeconds int           // countdown between stop trigger and scoring
	TickInterval time.Duration // real tick length; tests shrink it
	Letters      LetterPool
	Clock        Clock
	Rand         *rand.Rand
}

func (o *Options) fillDefaults() {
	if o.MinStopTime == 0 {
		o.MinStopTime = 30 * time.Second
	}
	if o.GraceSeconds == 0 {
		o.GraceSeconds = 5
	}
	if o.TickInterval == 0 {
		o.TickInterval = time.Second
	}
	if o.Letters.Size() == 0 {
		o.Letters = NewLetterPool(DefaultExcludedLetters)
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// roomHandle serializes all access to one room. Request handlers and the
// room's countdown goroutine contend on mu; nothing touches the Room
// outside it.
type roomHandle struct {
	mu          sync.Mutex
	room        *Room
	cancelTimer context.CancelFunc
}

// Manager owns the room registry and runs every room's round lifecycle.
type Manager struct {
	logger *slog.Logger
	store  Store
	broker Publisher
	oracle Oracle
	opts   Options

	mu    sync.Mutex
	rooms map[string]*roomHandle

	randMu sync.Mutex
	rng    *rand.Rand
}

func NewManager(logger *slog.Logger, store Store, broker Publisher, oracle Oracle, opts Options) *Manager {
	opts.fillDefaults()
	return &Manager{
		logger: logger,
		store:  store,
		broker: broker,
		oracle: oracle,
		opts:   opts,
		rooms:  make(map[string]*roomHandle),
		rng:    opts.Rand,
	}
}

// LoadFromStore hydrates the registry from persisted blobs. Rounds that
// were mid-flight when the process died are parked back in the waiting
// state; their countdown goroutines did not survive the restart.
func (m *Manager) LoadFromStore(ctx context.Context) error {
	blobs, err := m.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading rooms: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for code, blob := range blobs {
		var room Room
		if err := json.Unmarshal(blob, &room); err != nil {
			m.logger.Error("skipping corrupt room blob", "code", code, "error", err)
			continue
		}
		if room.InProgress {
			m.logger.Warn("parking interrupted round", "code", code, "round", room.CurrentRound)
			room.InProgress = false
			room.StopTriggered = false
		}
		m.rooms[code] = &roomHandle{room: &room}
	}
	m.logger.Info("rooms loaded", "count", len(m.rooms))
	return nil
}

// Close cancels every running countdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.rooms {
		if h.cancelTimer != nil {
			h.cancelTimer()
		}
	}
}

func (m *Manager) handle(code string) (*roomHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.rooms[code]
	return h, ok
}

func (m *Manager) withRand(fn func(rng *rand.Rand)) {
	m.randMu.Lock()
	defer m.randMu.Unlock()
	fn(m.rng)
}

// persist writes the room through to the store. A store failure is logged
// and swallowed; in-memory state stays authoritative for this process.
func (m *Manager) persist(room *Room) {
	blob, err := json.Marshal(room)
	if err != nil {
		m.logger.Error("marshaling room", "code", room.Code, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.SaveAll(ctx, map[string][]byte{room.Code: blob}); err != nil {
		m.logger.Error("persisting room", "code", room.Code, "error", err)
	}
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (m *Manager) newRoomCode() string {
	var code string
	m.withRand(func(rng *rand.Rand) {
		b := make([]byte, 5)
		for i := range b {
			b[i] = codeAlphabet[rng.IntN(len(codeAlphabet))]
		}
		code = string(b)
	})
	return code
}

// CreateParams configures a new room. Difficulty and Mode arrive already
// parsed; the string-keyed lookups stop at the HTTP boundary.
type CreateParams struct {
	HostName   string
	Rounds     int
	Difficulty Difficulty
	Mode       Mode
	Categories []string

	PowerUpsEnabled   bool
	ChatEnabled       bool
	ValidationEnabled bool
}

// CreateRoom registers a new room and returns its code plus the host's
// session token.
func (m *Manager) CreateRoom(ctx context.Context, params CreateParams) (code, token string, err error) {
	host := strings.TrimSpace(params.HostName)
	if err := ValidateName(host); err != nil {
		return "", "", err
	}
	if params.Rounds < 1 {
		params.Rounds = 3
	}

	m.mu.Lock()
	for {
		code = m.newRoomCode()
		if _, exists := m.rooms[code]; !exists {
			break
		}
	}
	room := newRoom(code, host, params)
	token = uuid.NewString()
	room.Sessions[token] = host
	m.rooms[code] = &roomHandle{room: room}
	m.mu.Unlock()

	m.persist(room)
	m.logger.Info("room created", "code", code, "host", host,
		"difficulty", params.Difficulty.String(), "mode", params.Mode.String())
	return code, token, nil
}

// JoinRoom adds a player to a waiting room and returns a session token.
func (m *Manager) JoinRoom(ctx context.Context, code, name string) (token string, err error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return "", err
	}

	h, ok := m.handle(code)
	if !ok {
		return "", ErrRoomNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.room

	if r.Finalized {
		return "", ErrRoomFinalized
	}
	if r.InProgress {
		return "", ErrRoundInProgress
	}
	if r.hasPlayer(name) {
		return "", ErrNameTaken
	}

	r.addPlayer(name)
	token = uuid.NewString()
	r.Sessions[token] = name
	m.persist(r)

	m.broker.Publish(code, "player_joined", PlayerEvent{Player: name, Players: append([]string(nil), r.Players...)})
	return token, nil
}

// PlayerFromToken resolves a session token to the player name it belongs to.
func (m *Manager) PlayerFromToken(code, token string) (string, error) {
	h, ok := m.handle(code)
	if !ok {
		return "", ErrRoomNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	player, ok := h.room.Sessions[token]
	if !ok {
		return "", ErrNotInRoom
	}
	return player, nil
}

// LeaveRoom removes a player. The room is destroyed once the last player
// leaves; a departing host passes the role to the next player in line.
func (m *Manager) LeaveRoom(ctx context.Context, code, player string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	if !r.hasPlayer(player) {
		h.mu.Unlock()
		return ErrNotInRoom
	}

	empty := r.removePlayer(player)
	if empty {
		if h.cancelTimer != nil {
			h.cancelTimer()
		}
		h.mu.Unlock()
		m.destroyRoom(ctx, code)
		return nil
	}

	newHost := r.Host
	m.persist(r)
	players := append([]string(nil), r.Players...)
	h.mu.Unlock()

	m.broker.Publish(code, "player_left", PlayerEvent{Player: player, Players: players, Host: newHost})
	return nil
}

func (m *Manager) destroyRoom(ctx context.Context, code string) {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()

	dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Delete(dctx, code); err != nil {
		m.logger.Error("deleting room row", "code", code, "error", err)
	}
	m.logger.Info("room destroyed", "code", code)
}

// SetReady marks a player ready for the next round.
func (m *Manager) SetReady(code, player string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.room
	if !r.hasPlayer(player) {
		return ErrNotInRoom
	}
	if r.Ready == nil {
		r.Ready = make(map[string]bool)
	}
	r.Ready[player] = true
	m.persist(r)
	m.broker.Publish(code, "player_ready", PlayerEvent{Player: player})
	return nil
}
