package game

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFinalized    = errors.New("game already finished")
	ErrRoundInProgress  = errors.New("a round is already in progress")
	ErrNoActiveRound    = errors.New("no round in progress")
	ErrRoundPaused      = errors.New("round is paused")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotEnoughPlayers = errors.New("at least 2 players are required")
	ErrDuelNeedsTwo     = errors.New("duel mode requires exactly 2 players")
	ErrNameTaken        = errors.New("that name is already in the room")
	ErrNotInRoom        = errors.New("player is not in the room")
	ErrSelfVote         = errors.New("you cannot vote on your own appeal")
	ErrAppealNotFound   = errors.New("appeal not found")
	ErrUnknownPowerUp   = errors.New("unknown power-up")
	ErrPowerUpsDisabled = errors.New("power-ups are disabled in this room")
	ErrNoPowerUp        = errors.New("you do not have that power-up")
	ErrChatDisabled     = errors.New("chat is disabled in this room")
)

// StopTooEarlyError rejects a stop signal before the minimum round time has
// elapsed. Remaining reports how many seconds the player still has to wait.
type StopTooEarlyError struct {
	Remaining int
}

func (e *StopTooEarlyError) Error() string {
	return fmt.Sprintf("wait %d more seconds before calling basta", e.Remaining)
}

// InvalidNameError carries a user-facing reason for a rejected player name.
type InvalidNameError struct {
	Reason string
}

func (e *InvalidNameError) Error() string { return e.Reason }
