package game

// Event payloads published through the broker. Field names are the wire
// contract with the web client.

type CategoryInfo struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func categoriesWithIcons(names []string) []CategoryInfo {
	out := make([]CategoryInfo, 0, len(names))
	for _, n := range names {
		out = append(out, CategoryInfo{Name: n, Icon: CategoryIcon(n)})
	}
	return out
}

type PlayerEvent struct {
	Player  string   `json:"player"`
	Players []string `json:"players,omitempty"`
	Host    string   `json:"host,omitempty"`
}

type RoundStartedEvent struct {
	Round      int                 `json:"round"`
	Total      int                 `json:"totalRounds"`
	Letter     string              `json:"letter"`
	Categories []CategoryInfo      `json:"categories"`
	Seconds    int                 `json:"seconds"`
	Teams      map[string][]string `json:"teams,omitempty"`
}

type TimerEvent struct {
	Seconds int    `json:"seconds"`
	Paused  bool   `json:"paused,omitempty"`
	Phase   string `json:"phase,omitempty"`
}

type StopEvent struct {
	Player string `json:"player,omitempty"`
	Reason string `json:"reason"`
}

type RoundResults struct {
	Round          int                           `json:"round"`
	NextRound      int                           `json:"nextRound"`
	Letter         string                        `json:"letter"`
	Categories     []CategoryInfo                `json:"categories"`
	RoundScores    map[string]int                `json:"roundScores"`
	TotalScores    map[string]int                `json:"totalScores"`
	Answers        map[string]map[string]string  `json:"answers"`
	Verdicts       map[string]map[string]Verdict `json:"verdicts"`
	PointsByAnswer map[string]map[string]int     `json:"pointsByAnswer"`
	Host           string                        `json:"host"`
	Mode           string                        `json:"mode"`
	Teams          map[string][]string           `json:"teams,omitempty"`
	TeamScores     map[string]int                `json:"teamScores,omitempty"`
	GameOver       bool                          `json:"gameOver"`
	NoWinner       bool                          `json:"noWinner"`
}

type AppealEvent struct {
	Player   string `json:"player"`
	Category string `json:"category"`
	Answer   string `json:"answer"`
}

type AppealAcceptedEvent struct {
	Player       string         `json:"player"`
	Category     string         `json:"category"`
	Answer       string         `json:"answer"`
	PointsGained int            `json:"pointsGained"`
	NewTotal     int            `json:"newTotal"`
	TotalScores  map[string]int `json:"totalScores"`
	RoundScores  map[string]int `json:"roundScores"`
	TeamScores   map[string]int `json:"teamScores,omitempty"`
}

type PowerUpEvent struct {
	Player  string `json:"player"`
	PowerUp string `json:"powerup"`
	Count   int    `json:"count,omitempty"`
}

type LetterEvent struct {
	Player string `json:"player"`
	Letter string `json:"letter"`
}

type PenaltyEvent struct {
	Player string `json:"player"`
	Reason string `json:"reason"`
	Total  int    `json:"total"`
}

type PauseEvent struct {
	Paused bool `json:"paused"`
}
