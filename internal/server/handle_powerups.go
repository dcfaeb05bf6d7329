package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bastaclub/basta/internal/game"
)

type UsePowerUpRequest struct {
	PowerUp string `json:"powerup"`
}

func handleUsePowerUp(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UsePowerUpRequest
		if err := readJSON(r, &req); err != nil || req.PowerUp == "" {
			writeError(w, http.StatusBadRequest, "powerup is required")
			return
		}

		code := chi.URLParam(r, "code")
		outcome, err := manager.UsePowerUp(code, playerFrom(r), req.PowerUp)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, outcome)
	}
}

type GrantPowerUpRequest struct {
	Player  string `json:"player"`
	PowerUp string `json:"powerup"`
}

func handleGrantPowerUp(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GrantPowerUpRequest
		if err := readJSON(r, &req); err != nil || req.Player == "" || req.PowerUp == "" {
			writeError(w, http.StatusBadRequest, "player and powerup are required")
			return
		}

		code := chi.URLParam(r, "code")
		if err := manager.GrantPowerUp(code, playerFrom(r), req.Player, req.PowerUp); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type PenalizeRequest struct {
	Player string `json:"player"`
	Reason string `json:"reason"`
}

// handlePenalize is the host-issued penalty; the game layer rejects
// callers who are not the room host.
func handlePenalize(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PenalizeRequest
		if err := readJSON(r, &req); err != nil || req.Player == "" {
			writeError(w, http.StatusBadRequest, "player is required")
			return
		}

		code := chi.URLParam(r, "code")
		if err := manager.Penalize(code, playerFrom(r), req.Player, req.Reason); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type ChatRequest struct {
	Text string `json:"text"`
}

func handleChat(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := readJSON(r, &req); err != nil || req.Text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		code := chi.URLParam(r, "code")
		if err := manager.PostChat(code, playerFrom(r), req.Text); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
