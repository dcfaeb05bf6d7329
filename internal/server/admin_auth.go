package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminCookieName = "admin_session"
	adminSessionTTL = 12 * time.Hour
)

// adminSessions holds logged-in admin sessions in memory. There is a
// single password-configured admin, so no table is needed; sessions die
// with the process.
type adminSessions struct {
	mu       sync.Mutex
	sessions map[string]time.Time // id -> expiry
}

func newAdminSessions() *adminSessions {
	return &adminSessions{sessions: make(map[string]time.Time)}
}

func (a *adminSessions) create() string {
	id := uuid.NewString()
	a.mu.Lock()
	a.sessions[id] = time.Now().Add(adminSessionTTL)
	a.mu.Unlock()
	return id
}

func (a *adminSessions) valid(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	expiry, ok := a.sessions[id]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(a.sessions, id)
		return false
	}
	return true
}

func (a *adminSessions) destroy(id string) {
	a.mu.Lock()
	delete(a.sessions, id)
	a.mu.Unlock()
}

func adminAuthMiddleware(sessions *adminSessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(adminCookieName)
			if err != nil || cookie.Value == "" || !sessions.valid(cookie.Value) {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleAdminLogin(passwordHash string, sessions *adminSessions) http.HandlerFunc {
	type request struct {
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if passwordHash == "" {
			writeError(w, http.StatusServiceUnavailable, "admin access not configured")
			return
		}

		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
			writeError(w, http.StatusUnauthorized, "invalid password")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    sessions.create(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(adminSessionTTL.Seconds()),
		})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleAdminLogout(sessions *adminSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(adminCookieName); err == nil {
			sessions.destroy(cookie.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
