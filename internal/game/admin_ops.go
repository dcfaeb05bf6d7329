package game

import "context"

// SetPaused pauses or resumes a running round. The countdown keeps
// ticking while paused but stops decrementing; stop signals and answer
// submissions are rejected until resume.
func (m *Manager) SetPaused(code string, paused bool) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	if !r.InProgress {
		h.mu.Unlock()
		return ErrNoActiveRound
	}
	r.Paused = paused
	m.persist(r)
	h.mu.Unlock()

	m.broker.Publish(code, "round_paused", PauseEvent{Paused: paused})
	m.logger.Info("round pause toggled", "code", code, "paused", paused)
	return nil
}

// Expel removes a player by admin action. Only paused rooms can expel, so
// a round is never scored with a sheet from a player who is half-removed.
func (m *Manager) Expel(ctx context.Context, code, player string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	if r.InProgress && !r.Paused {
		h.mu.Unlock()
		return ErrRoundPaused
	}
	h.mu.Unlock()

	if err := m.LeaveRoom(ctx, code, player); err != nil {
		return err
	}
	m.broker.Publish(code, "player_expelled", PlayerEvent{Player: player})
	return nil
}

// RoomSummary is the admin listing view.
type RoomSummary struct {
	Code       string `json:"code"`
	Host       string `json:"host"`
	Players    int    `json:"players"`
	Round      int    `json:"round"`
	Rounds     int    `json:"rounds"`
	Difficulty string `json:"difficulty"`
	Mode       string `json:"mode"`
	InProgress bool   `json:"inProgress"`
	Paused     bool   `json:"paused"`
	Finalized  bool   `json:"finalized"`
}

// ListRooms returns a summary of every live room.
func (m *Manager) ListRooms() []RoomSummary {
	m.mu.Lock()
	handles := make([]*roomHandle, 0, len(m.rooms))
	for _, h := range m.rooms {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	summaries := make([]RoomSummary, 0, len(handles))
	for _, h := range handles {
		h.mu.Lock()
		r := h.room
		summaries = append(summaries, RoomSummary{
			Code:       r.Code,
			Host:       r.Host,
			Players:    len(r.Players),
			Round:      r.CurrentRound,
			Rounds:     r.TotalRounds,
			Difficulty: r.Difficulty.String(),
			Mode:       r.Mode.String(),
			InProgress: r.InProgress,
			Paused:     r.Paused,
			Finalized:  r.Finalized,
		})
		h.mu.Unlock()
	}
	return summaries
}
