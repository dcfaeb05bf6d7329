package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bastaclub/basta/internal/game"
)

type ctxKey int

const ctxKeyPlayer ctxKey = iota

// playerAuthMiddleware resolves the bearer token against the room's
// session table and stashes the player name in the request context.
func playerAuthMiddleware(manager *game.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := chi.URLParam(r, "code")
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			player, err := manager.PlayerFromToken(code, token)
			if err != nil {
				writeGameError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPlayer, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		return ""
	}
	return token
}

func playerFrom(r *http.Request) string {
	return r.Context().Value(ctxKeyPlayer).(string)
}
