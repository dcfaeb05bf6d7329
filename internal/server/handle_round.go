package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bastaclub/basta/internal/game"
)

func handleStartRound(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if err := manager.StartRound(r.Context(), code, playerFrom(r)); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
	}
}

type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers"`
}

func handleSubmitAnswers(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitAnswersRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		code := chi.URLParam(r, "code")
		if err := manager.SubmitAnswers(code, playerFrom(r), req.Answers); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleStop(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if err := manager.TriggerStop(code, playerFrom(r)); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
	}
}

// handleVerdicts returns the caller's verdicts for the scored round, the
// raw material for deciding what to appeal.
func handleVerdicts(manager *game.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		verdicts, err := manager.Verdicts(code, playerFrom(r))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"verdicts": verdicts})
	}
}
