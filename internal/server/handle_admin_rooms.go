package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bastaclub/basta/internal/game"
)

func handleAdminListRooms(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"rooms": manager.ListRooms()})
	}
}

func handleAdminRoomDetail(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := manager.Snapshot(chi.URLParam(r, "code"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// AdminStats is the aggregate view over all live rooms.
type AdminStats struct {
	Rooms        int `json:"rooms"`
	Players      int `json:"players"`
	ActiveRounds int `json:"activeRounds"`
	Finalized    int `json:"finalized"`
}

func handleAdminStats(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var stats AdminStats
		for _, room := range manager.ListRooms() {
			stats.Rooms++
			stats.Players += room.Players
			if room.InProgress {
				stats.ActiveRounds++
			}
			if room.Finalized {
				stats.Finalized++
			}
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

type AdminPauseRequest struct {
	Paused bool `json:"paused"`
}

func handleAdminPause(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminPauseRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := manager.SetPaused(chi.URLParam(r, "code"), req.Paused); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type AdminExpelRequest struct {
	Player string `json:"player"`
}

func handleAdminExpel(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminExpelRequest
		if err := readJSON(r, &req); err != nil || req.Player == "" {
			writeError(w, http.StatusBadRequest, "player is required")
			return
		}

		if err := manager.Expel(r.Context(), chi.URLParam(r, "code"), req.Player); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type AdminPenalizeRequest struct {
	Player string `json:"player"`
	Reason string `json:"reason"`
}

// Admin penalties act on the host's behalf; the game layer only lets the
// room host issue them.
func handleAdminPenalize(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminPenalizeRequest
		if err := readJSON(r, &req); err != nil || req.Player == "" {
			writeError(w, http.StatusBadRequest, "player is required")
			return
		}

		code := chi.URLParam(r, "code")
		snap, err := manager.Snapshot(code)
		if err != nil {
			writeGameError(w, err)
			return
		}

		if err := manager.Penalize(code, snap.Host, req.Player, req.Reason); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
