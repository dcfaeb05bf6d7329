package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bastaclub/basta/internal/game"
)

func adminLogin(t *testing.T, ts *httptest.Server, password string) []*http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"password": password})
	resp, err := http.Post(ts.URL+"/api/admin/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	return resp.Cookies()
}

func adminGet(t *testing.T, url string, cookies []*http.Cookie, out any) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"password": "wrong"})
	resp, err := http.Post(ts.URL+"/api/admin/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminRoomsRequireSession(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/admin/rooms")
	if err != nil {
		t.Fatalf("GET rooms: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminListAndDetail(t *testing.T) {
	ts := newTestServer(t)
	code, _ := createTestRoom(t, ts, "Ana", "Beto")
	cookies := adminLogin(t, ts, testAdminPassword)

	var listing struct {
		Rooms []game.RoomSummary `json:"rooms"`
	}
	resp := adminGet(t, ts.URL+"/api/admin/rooms", cookies, &listing)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if len(listing.Rooms) != 1 || listing.Rooms[0].Code != code {
		t.Errorf("listing = %+v", listing.Rooms)
	}

	var snap game.Snapshot
	resp = adminGet(t, ts.URL+"/api/admin/rooms/"+code, cookies, &snap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detail status = %d", resp.StatusCode)
	}
	if snap.Code != code || snap.Host != "Ana" {
		t.Errorf("detail snapshot = %+v", snap)
	}
}

func TestAdminStats(t *testing.T) {
	ts := newTestServer(t)
	createTestRoom(t, ts, "Ana", "Beto")
	createTestRoom(t, ts, "Carla", "Dani", "Eva")
	cookies := adminLogin(t, ts, testAdminPassword)

	var stats AdminStats
	resp := adminGet(t, ts.URL+"/api/admin/stats", cookies, &stats)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d", resp.StatusCode)
	}
	if stats.Rooms != 2 || stats.Players != 5 {
		t.Errorf("stats = %+v, want 2 rooms with 5 players", stats)
	}
	if stats.ActiveRounds != 0 || stats.Finalized != 0 {
		t.Errorf("stats = %+v, want no active or finalized rooms", stats)
	}
}

func TestAdminLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t)
	cookies := adminLogin(t, ts, testAdminPassword)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/admin/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST logout: %v", err)
	}
	resp.Body.Close()

	if resp := adminGet(t, ts.URL+"/api/admin/rooms", cookies, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("post-logout list status = %d, want 401", resp.StatusCode)
	}
}
