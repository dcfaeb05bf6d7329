package game

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Verdict is the oracle's (or fallback's) judgment of one answer. It is
// immutable once recorded except when an accepted appeal supersedes it.
type Verdict struct {
	Valid      bool    `json:"valid"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
	Appealable bool    `json:"appealable"`
}

// appealableBelow is the confidence threshold under which a rejection may
// be contested by peer vote.
const appealableBelow = 0.9

// Appeal is a pending peer vote over a rejected verdict, keyed by
// (player, category). It is destroyed on resolution or round restart.
type Appeal struct {
	Player       string   `json:"player"`
	Category     string   `json:"category"`
	Answer       string   `json:"answer"`
	VotesValid   int      `json:"votes_valid"`
	VotesInvalid int      `json:"votes_invalid"`
	Voters       []string `json:"voters"`
}

func (a *Appeal) hasVoted(voter string) bool {
	for _, v := range a.Voters {
		if v == voter {
			return true
		}
	}
	return false
}

func appealKey(player, category string) string {
	return player + ":" + category
}

// ChatMessage is one entry of the bounded room transcript.
type ChatMessage struct {
	Player string    `json:"player"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

const chatTranscriptLimit = 100

// PowerUpInfo describes one purchasable power-up.
type PowerUpInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Cost        int    `json:"cost"`
}

const (
	PowerUpExtraTime    = "tiempo_extra"
	PowerUpHint         = "pista"
	PowerUpChangeLetter = "cambiar_letra"
	PowerUpShield       = "escudo"
	PowerUpDoublePoints = "doble_puntos"
)

var PowerUpCatalog = []PowerUpInfo{
	{ID: PowerUpExtraTime, Label: "Tiempo Extra", Description: "+30 segundos", Icon: "⏰", Cost: 1},
	{ID: PowerUpHint, Label: "Pista", Description: "Revela una letra", Icon: "💡", Cost: 2},
	{ID: PowerUpChangeLetter, Label: "Cambiar Letra", Description: "Nueva letra aleatoria", Icon: "🔄", Cost: 3},
	{ID: PowerUpShield, Label: "Escudo", Description: "Protege de duplicados", Icon: "🛡️", Cost: 2},
	{ID: PowerUpDoublePoints, Label: "Doble Puntos", Description: "X2 en próxima ronda", Icon: "💎", Cost: 3},
}

func knownPowerUp(id string) bool {
	for _, p := range PowerUpCatalog {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Room is the aggregate root for one game. All fields are serialized into
// the persistent store as a single blob keyed by Code; every mutation goes
// through the Manager, which holds a per-room lock.
type Room struct {
	Code    string   `json:"code"`
	Host    string   `json:"host"`
	Players []string `json:"players"`

	// Sessions maps bearer tokens to player names.
	Sessions map[string]string `json:"sessions"`

	Difficulty Difficulty `json:"difficulty"`
	Mode       Mode       `json:"mode"`

	TotalRounds  int `json:"total_rounds"`
	CurrentRound int `json:"current_round"`

	// CustomCategories, when set, is fixed for the whole game; otherwise a
	// fresh category set is drawn each round.
	CustomCategories []string `json:"custom_categories,omitempty"`
	Categories       []string `json:"categories"`

	Letter      string          `json:"letter"`
	UsedLetters map[string]bool `json:"used_letters"`

	InProgress    bool `json:"in_progress"`
	Paused        bool `json:"paused"`
	Finalized     bool `json:"finalized"`
	StopTriggered bool `json:"stop_triggered"`

	RoundStartedAt   time.Time `json:"round_started_at"`
	RemainingSeconds int       `json:"remaining_seconds"`

	Scores      map[string]int `json:"scores"`
	RoundScores map[string]int `json:"round_scores"`

	// Answers and Verdicts are keyed player → category. Both are retained
	// after scoring until the next round start; appeals need them.
	// Verdicts holds what the oracle originally said and is never edited;
	// accepted appeals land in Overrides, and the effective verdict is
	// original-unless-overridden.
	Answers   map[string]map[string]string  `json:"answers"`
	Verdicts  map[string]map[string]Verdict `json:"verdicts"`
	Overrides map[string]map[string]Verdict `json:"verdict_overrides"`

	Appeals map[string]*Appeal `json:"appeals"`

	Ready map[string]bool `json:"ready"`

	Teams      map[string][]string `json:"teams,omitempty"`
	TeamScores map[string]int      `json:"team_scores,omitempty"`

	// PowerUps is each player's inventory. PendingEffects queue for the
	// next round; ActiveEffects apply to the round being scored.
	PowerUps       map[string]map[string]int `json:"powerups"`
	PendingEffects map[string][]string       `json:"pending_effects"`
	ActiveEffects  map[string][]string       `json:"active_effects"`

	Penalties map[string]int `json:"penalties"`

	Chat []ChatMessage `json:"chat"`

	PowerUpsEnabled   bool `json:"powerups_enabled"`
	ChatEnabled       bool `json:"chat_enabled"`
	ValidationEnabled bool `json:"validation_enabled"`
}

func newRoom(code, host string, params CreateParams) *Room {
	r := &Room{
		Code:             code,
		Host:             host,
		Players:          []string{host},
		Sessions:         make(map[string]string),
		Difficulty:       params.Difficulty,
		Mode:             params.Mode,
		TotalRounds:      params.Rounds,
		CurrentRound:     1,
		CustomCategories: params.Categories,
		UsedLetters:      make(map[string]bool),
		Scores:           map[string]int{host: 0},
		RoundScores:      make(map[string]int),
		Answers:          make(map[string]map[string]string),
		Verdicts:         make(map[string]map[string]Verdict),
		Overrides:        make(map[string]map[string]Verdict),
		Appeals:          make(map[string]*Appeal),
		Ready:            map[string]bool{host: true},
		PowerUps:         map[string]map[string]int{host: emptyInventory()},
		PendingEffects:   make(map[string][]string),
		ActiveEffects:    make(map[string][]string),
		Penalties:        map[string]int{host: 0},

		PowerUpsEnabled:   params.PowerUpsEnabled,
		ChatEnabled:       params.ChatEnabled,
		ValidationEnabled: params.ValidationEnabled,
	}
	if len(params.Categories) > 0 {
		r.Categories = params.Categories
	}
	return r
}

func emptyInventory() map[string]int {
	inv := make(map[string]int, len(PowerUpCatalog))
	for _, p := range PowerUpCatalog {
		inv[p.ID] = 0
	}
	return inv
}

func (r *Room) hasPlayer(name string) bool {
	for _, p := range r.Players {
		if p == name {
			return true
		}
	}
	return false
}

func (r *Room) addPlayer(name string) {
	r.Players = append(r.Players, name)
	if _, ok := r.Scores[name]; !ok {
		r.Scores[name] = 0
	}
	if _, ok := r.PowerUps[name]; !ok {
		r.PowerUps[name] = emptyInventory()
	}
	if _, ok := r.Penalties[name]; !ok {
		r.Penalties[name] = 0
	}
}

// removePlayer drops a player and reports whether the room became empty.
// When the host leaves, the longest-standing remaining player inherits.
func (r *Room) removePlayer(name string) (empty bool) {
	for i, p := range r.Players {
		if p == name {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	delete(r.Ready, name)
	for token, player := range r.Sessions {
		if player == name {
			delete(r.Sessions, token)
		}
	}
	for team, members := range r.Teams {
		for i, m := range members {
			if m == name {
				r.Teams[team] = append(members[:i], members[i+1:]...)
				break
			}
		}
	}

	if len(r.Players) == 0 {
		return true
	}
	if r.Host == name {
		r.Host = r.Players[0]
		r.Ready[r.Host] = true
	}
	return false
}

// effectiveVerdicts merges appeal overrides over the original oracle
// verdicts. Scoring and all player-facing views read this, never the raw
// map, so an accepted appeal is indistinguishable from an original
// acceptance downstream.
func (r *Room) effectiveVerdicts() map[string]map[string]Verdict {
	merged := make(map[string]map[string]Verdict, len(r.Verdicts))
	for player, verdicts := range r.Verdicts {
		copied := make(map[string]Verdict, len(verdicts))
		for category, v := range verdicts {
			copied[category] = v
		}
		merged[player] = copied
	}
	for player, overrides := range r.Overrides {
		if merged[player] == nil {
			merged[player] = make(map[string]Verdict)
		}
		for category, override := range overrides {
			merged[player][category] = override
		}
	}
	return merged
}

// splitIntoTeams shuffles players into two halves. Called once, at the
// start of round 1 in team mode.
func (r *Room) splitIntoTeams(rng *rand.Rand) {
	shuffled := append([]string(nil), r.Players...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	half := len(shuffled) / 2
	r.Teams = map[string][]string{
		"Equipo A": shuffled[:half],
		"Equipo B": shuffled[half:],
	}
	r.TeamScores = map[string]int{"Equipo A": 0, "Equipo B": 0}
}

// recomputeTeamScores derives team totals from cumulative member scores.
// Full recomputation each time keeps totals consistent after appeals.
func (r *Room) recomputeTeamScores() {
	if !r.Mode.TeamPlay() || len(r.Teams) == 0 {
		return
	}
	for team, members := range r.Teams {
		total := 0
		for _, m := range members {
			total += r.Scores[m]
		}
		r.TeamScores[team] = total
	}
}

func (r *Room) appendChat(msg ChatMessage) {
	r.Chat = append(r.Chat, msg)
	if len(r.Chat) > chatTranscriptLimit {
		r.Chat = r.Chat[len(r.Chat)-chatTranscriptLimit:]
	}
}

var bannedNameWords = []string{
	"puto", "puta", "pendejo", "pendeja", "idiota", "estupido", "estúpido",
	"mierda", "cabrón", "cabron", "chingar", "verga", "pinche", "mamon",
	"mamón", "culero", "joder", "coño", "imbecil", "imbécil", "retrasado",
	"retrasada", "inutil", "inútil", "basura", "maldito", "maldita",
	"put0", "pend3jo", "m1erda", "c4bron",
}

// ValidateName enforces the player-name policy: 2–20 characters, no words
// from the banned list.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < 2 {
		return &InvalidNameError{Reason: "name must have at least 2 characters"}
	}
	if len([]rune(trimmed)) > 20 {
		return &InvalidNameError{Reason: "name must have at most 20 characters"}
	}
	lower := strings.ToLower(trimmed)
	for _, w := range bannedNameWords {
		if strings.Contains(lower, w) {
			return &InvalidNameError{Reason: "name contains inappropriate words"}
		}
	}
	return nil
}

// maskBannedWords replaces banned words in chat text with asterisks.
func maskBannedWords(text string) string {
	lower := strings.ToLower(text)
	for _, w := range bannedNameWords {
		for {
			i := strings.Index(lower, w)
			if i < 0 {
				break
			}
			mask := strings.Repeat("*", len(w))
			text = text[:i] + mask + text[i+len(w):]
			lower = lower[:i] + mask + lower[i+len(w):]
		}
	}
	return text
}
