package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bastaclub/basta/internal/game"
)

type FileAppealRequest struct {
	Category string `json:"category"`
}

func handleFileAppeal(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FileAppealRequest
		if err := readJSON(r, &req); err != nil || req.Category == "" {
			writeError(w, http.StatusBadRequest, "category is required")
			return
		}

		code := chi.URLParam(r, "code")
		if err := manager.FileAppeal(code, playerFrom(r), req.Category); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type AppealVoteRequest struct {
	Player   string `json:"player"` // the appellant
	Category string `json:"category"`
	Valid    bool   `json:"valid"`
}

func handleAppealVote(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppealVoteRequest
		if err := readJSON(r, &req); err != nil || req.Player == "" || req.Category == "" {
			writeError(w, http.StatusBadRequest, "player and category are required")
			return
		}

		code := chi.URLParam(r, "code")
		err := manager.CastAppealVote(code, req.Player, req.Category, playerFrom(r), req.Valid)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
