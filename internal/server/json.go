package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bastaclub/basta/internal/game"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGameError maps game-layer sentinels to HTTP statuses so every
// handler reports them the same way.
func writeGameError(w http.ResponseWriter, err error) {
	var tooEarly *game.StopTooEarlyError
	var badName *game.InvalidNameError

	switch {
	case errors.Is(err, game.ErrRoomNotFound), errors.Is(err, game.ErrAppealNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNotInRoom):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, game.ErrNotHost):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrNameTaken), errors.Is(err, game.ErrRoundInProgress),
		errors.Is(err, game.ErrRoomFinalized), errors.Is(err, game.ErrRoundPaused):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &tooEarly):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     err.Error(),
			"remaining": tooEarly.Remaining,
		})
	case errors.As(err, &badName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrNoActiveRound), errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrDuelNeedsTwo), errors.Is(err, game.ErrSelfVote),
		errors.Is(err, game.ErrUnknownPowerUp), errors.Is(err, game.ErrPowerUpsDisabled),
		errors.Is(err, game.ErrNoPowerUp), errors.Is(err, game.ErrChatDisabled):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
