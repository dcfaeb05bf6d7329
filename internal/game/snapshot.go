package game

// Snapshot is the full room view served to (re)joining clients and the
// websocket state stream.
type Snapshot struct {
	Code        string                    `json:"code"`
	Host        string                    `json:"host"`
	Players     []string                  `json:"players"`
	Ready       map[string]bool           `json:"ready"`
	Round       int                       `json:"round"`
	TotalRounds int                       `json:"totalRounds"`
	Difficulty  string                    `json:"difficulty"`
	Mode        string                    `json:"mode"`
	Letter      string                    `json:"letter"`
	Categories  []CategoryInfo            `json:"categories"`
	InProgress  bool                      `json:"inProgress"`
	Paused      bool                      `json:"paused"`
	Finalized   bool                      `json:"finalized"`
	Remaining   int                       `json:"remaining"`
	TotalScores map[string]int            `json:"totalScores"`
	RoundScores map[string]int            `json:"roundScores"`
	Teams       map[string][]string       `json:"teams,omitempty"`
	TeamScores  map[string]int            `json:"teamScores,omitempty"`
	PowerUps    map[string]map[string]int `json:"powerups,omitempty"`
	Chat        []ChatMessage             `json:"chat,omitempty"`

	PowerUpsEnabled   bool `json:"powerupsEnabled"`
	ChatEnabled       bool `json:"chatEnabled"`
	ValidationEnabled bool `json:"validationEnabled"`
}

// Snapshot returns a copy-safe view of the room.
func (m *Manager) Snapshot(code string) (Snapshot, error) {
	h, ok := m.handle(code)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.room

	snap := Snapshot{
		Code:        r.Code,
		Host:        r.Host,
		Players:     append([]string(nil), r.Players...),
		Ready:       make(map[string]bool, len(r.Ready)),
		Round:       r.CurrentRound,
		TotalRounds: r.TotalRounds,
		Difficulty:  r.Difficulty.String(),
		Mode:        r.Mode.String(),
		Letter:      r.Letter,
		Categories:  categoriesWithIcons(r.Categories),
		InProgress:  r.InProgress,
		Paused:      r.Paused,
		Finalized:   r.Finalized,
		Remaining:   r.RemainingSeconds,
		TotalScores: copyScores(r.Scores),
		RoundScores: copyScores(r.RoundScores),
		TeamScores:  copyScores(r.TeamScores),
		Chat:        append([]ChatMessage(nil), r.Chat...),

		PowerUpsEnabled:   r.PowerUpsEnabled,
		ChatEnabled:       r.ChatEnabled,
		ValidationEnabled: r.ValidationEnabled,
	}
	for p, ready := range r.Ready {
		snap.Ready[p] = ready
	}
	if len(r.Teams) > 0 {
		snap.Teams = make(map[string][]string, len(r.Teams))
		for team, members := range r.Teams {
			snap.Teams[team] = append([]string(nil), members...)
		}
	}
	if len(r.PowerUps) > 0 {
		snap.PowerUps = make(map[string]map[string]int, len(r.PowerUps))
		for p, inv := range r.PowerUps {
			copied := make(map[string]int, len(inv))
			for k, v := range inv {
				copied[k] = v
			}
			snap.PowerUps[p] = copied
		}
	}
	return snap, nil
}

// Verdicts returns the player's verdict map for the last scored round,
// used by the appeal UI.
func (m *Manager) Verdicts(code, player string) (map[string]Verdict, error) {
	h, ok := m.handle(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	verdicts := h.room.effectiveVerdicts()[player]
	if verdicts == nil {
		verdicts = make(map[string]Verdict)
	}
	return verdicts, nil
}
