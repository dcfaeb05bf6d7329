package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bastaclub/basta/internal/game"
)

// memStore keeps room blobs in memory for handler tests.
type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
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

// acceptAllOracle validates every answer.
type acceptAllOracle struct{}

func (acceptAllOracle) Validate(ctx context.Context, answer, category, letter string) (bool, string, float64) {
	return true, "ok", 1.0
}

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

const testAdminPassword = "hunter2"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := NewBroker()

	manager := game.NewManager(logger, &memStore{blobs: make(map[string][]byte)}, broker, acceptAllOracle{}, game.Options{
		MinStopTime:  time.Millisecond,
		GraceSeconds: 1,
		TickInterval: time.Millisecond,
	})
	t.Cleanup(manager.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing admin password: %v", err)
	}

	r := chi.NewRouter()
	addRoutes(r, Deps{
		Logger:        logger,
		Manager:       manager,
		Broker:        broker,
		Health:        okPinger{},
		BaseURL:       "http://basta.test",
		AdminPassword: string(hash),
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request: %v", err)
		}
		reader = bytes.NewReader(blob)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response of %s %s: %v", method, url, err)
		}
	}
	return resp
}

func createTestRoom(t *testing.T, ts *httptest.Server, players ...string) (code string, tokens []string) {
	t.Helper()
	var created CreateRoomResponse
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/rooms", "", CreateRoomRequest{
		HostName:   players[0],
		Rounds:     1,
		Difficulty: "normal",
		Mode:       "clasico",
		Categories: []string{"Color", "Animal"},
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create room status = %d", resp.StatusCode)
	}

	code = created.Code
	tokens = []string{created.Token}
	for _, p := range players[1:] {
		var joined JoinRoomResponse
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/rooms/"+code+"/join", "", JoinRoomRequest{PlayerName: p}, &joined)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("join status = %d", resp.StatusCode)
		}
		tokens = append(tokens, joined.Token)
	}
	return code, tokens
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
}

func TestOpenAPIServed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/openapi.json")
	if err != nil {
		t.Fatalf("GET /openapi.json: %v", err)
	}
	defer resp.Body.Close()

	var spec struct {
		OpenAPI string         `json:"openapi"`
		Paths   map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&spec); err != nil {
		t.Fatalf("decoding spec: %v", err)
	}
	if spec.OpenAPI == "" {
		t.Error("missing openapi version")
	}
	for _, path := range []string{"/api/rooms", "/api/rooms/{code}/stop", "/api/admin/rooms"} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
}

func TestCreateRoomValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/rooms", "", CreateRoomRequest{
		HostName: "Ana", Difficulty: "imposible",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad difficulty status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/rooms", "", CreateRoomRequest{
		HostName: "x", Difficulty: "normal",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad name status = %d, want 400", resp.StatusCode)
	}
}

func TestRoomStateRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	code, tokens := createTestRoom(t, ts, "Ana", "Beto")

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/rooms/"+code, "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("state without token status = %d, want 401", resp.StatusCode)
	}

	var snap game.Snapshot
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/rooms/"+code, tokens[1], nil, &snap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state status = %d", resp.StatusCode)
	}
	if snap.Host != "Ana" || len(snap.Players) != 2 {
		t.Errorf("snapshot host=%q players=%v", snap.Host, snap.Players)
	}
}

func TestFullGameOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	code, tokens := createTestRoom(t, ts, "Ana", "Beto")
	base := ts.URL + "/api/rooms/" + code

	if resp := doJSON(t, http.MethodPost, base+"/start", tokens[0], nil, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d", resp.StatusCode)
	}

	var snap game.Snapshot
	doJSON(t, http.MethodGet, base, tokens[0], nil, &snap)
	letter := snap.Letter
	if letter == "" {
		t.Fatal("round started without a letter")
	}

	answers := map[string]string{"Color": letter + "zur", "Animal": letter + "rdilla"}
	if resp := doJSON(t, http.MethodPost, base+"/answers", tokens[0], SubmitAnswersRequest{Answers: answers}, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("answers status = %d", resp.StatusCode)
	}

	time.Sleep(5 * time.Millisecond) // past the minimum stop time
	if resp := doJSON(t, http.MethodPost, base+"/stop", tokens[1], nil, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("stop status = %d", resp.StatusCode)
	}

	deadline := time.After(5 * time.Second)
	for {
		doJSON(t, http.MethodGet, base, tokens[0], nil, &snap)
		if snap.Finalized {
			break
		}
		select {
		case <-deadline:
			t.Fatal("round never finished")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Two unique, letter-matching, validated answers at normal difficulty.
	if snap.TotalScores["Ana"] != 200 {
		t.Errorf("Ana total = %d, want 200", snap.TotalScores["Ana"])
	}
	if snap.TotalScores["Beto"] != 0 {
		t.Errorf("Beto total = %d, want 0", snap.TotalScores["Beto"])
	}
}

func TestStopWithoutRound(t *testing.T) {
	ts := newTestServer(t)
	code, tokens := createTestRoom(t, ts, "Ana", "Beto")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/rooms/"+code+"/stop", tokens[0], nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("stop without round status = %d, want 400", resp.StatusCode)
	}
}

func TestQRServed(t *testing.T) {
	ts := newTestServer(t)
	code, _ := createTestRoom(t, ts, "Ana", "Beto")

	resp, err := http.Get(ts.URL + "/api/rooms/" + code + "/qr")
	if err != nil {
		t.Fatalf("GET qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("qr status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("qr content type = %q", ct)
	}

	png, _ := io.ReadAll(resp.Body)
	if len(png) < 8 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Error("response is not a PNG")
	}
}

func TestChatOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	code, tokens := createTestRoom(t, ts, "Ana", "Beto")
	base := ts.URL + "/api/rooms/" + code

	if resp := doJSON(t, http.MethodPost, base+"/chat", tokens[1], ChatRequest{Text: "hola a todos"}, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d", resp.StatusCode)
	}

	var snap game.Snapshot
	doJSON(t, http.MethodGet, base, tokens[0], nil, &snap)
	if len(snap.Chat) != 1 || snap.Chat[0].Player != "Beto" {
		t.Errorf("chat transcript = %+v", snap.Chat)
	}
}
