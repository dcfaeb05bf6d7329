package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/bastaclub/basta/internal/game"
)

type CreateRoomRequest struct {
	HostName   string   `json:"hostName"`
	Rounds     int      `json:"rounds"`
	Difficulty string   `json:"difficulty"`
	Mode       string   `json:"mode"`
	Categories []string `json:"categories,omitempty"`

	PowerUps   *bool `json:"powerups,omitempty"`
	Chat       *bool `json:"chat,omitempty"`
	Validation *bool `json:"validation,omitempty"`
}

type CreateRoomResponse struct {
	Code  string `json:"code"`
	Token string `json:"token"`
	Host  string `json:"host"`
}

func handleCreateRoom(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		difficulty, err := game.ParseDifficulty(req.Difficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode, err := game.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		enabled := func(flag *bool) bool { return flag == nil || *flag }
		params := game.CreateParams{
			HostName:          req.HostName,
			Rounds:            req.Rounds,
			Difficulty:        difficulty,
			Mode:              mode,
			Categories:        req.Categories,
			PowerUpsEnabled:   enabled(req.PowerUps),
			ChatEnabled:       enabled(req.Chat),
			ValidationEnabled: enabled(req.Validation),
		}

		code, token, err := manager.CreateRoom(r.Context(), params)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateRoomResponse{
			Code:  code,
			Token: token,
			Host:  strings.TrimSpace(req.HostName),
		})
	}
}

type JoinRoomRequest struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomResponse struct {
	Token  string `json:"token"`
	Player string `json:"player"`
}

func handleJoinRoom(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		code := chi.URLParam(r, "code")
		token, err := manager.JoinRoom(r.Context(), code, req.PlayerName)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, JoinRoomResponse{
			Token:  token,
			Player: strings.TrimSpace(req.PlayerName),
		})
	}
}

func handleRoomState(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := manager.Snapshot(chi.URLParam(r, "code"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleLeaveRoom(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if err := manager.LeaveRoom(r.Context(), code, playerFrom(r)); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleReady(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if err := manager.SetReady(code, playerFrom(r)); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleRoomQR renders the join link as a QR PNG for sharing on a screen.
func handleRoomQR(manager *game.Manager, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if _, err := manager.Snapshot(code); err != nil {
			writeGameError(w, err)
			return
		}

		joinURL := strings.TrimSuffix(baseURL, "/") + "/join/" + code
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(png)
	}
}
