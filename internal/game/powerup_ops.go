package game

import "math/rand/v2"

// extraTimeSeconds is what one tiempo_extra buys.
const extraTimeSeconds = 30

// PowerUpOutcome tells the caller what the power-up did. Hint is returned
// to the acting player only; everything else is also broadcast.
type PowerUpOutcome struct {
	PowerUp   string `json:"powerup"`
	Hint      string `json:"hint,omitempty"`
	NewLetter string `json:"newLetter,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
}

// UsePowerUp consumes one unit from the player's inventory and applies
// the effect. Shield and double points queue for the next round; the rest
// act on the running one.
func (m *Manager) UsePowerUp(code, player, powerUp string) (PowerUpOutcome, error) {
	if !knownPowerUp(powerUp) {
		return PowerUpOutcome{}, ErrUnknownPowerUp
	}

	h, ok := m.handle(code)
	if !ok {
		return PowerUpOutcome{}, ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	switch {
	case !r.PowerUpsEnabled:
		h.mu.Unlock()
		return PowerUpOutcome{}, ErrPowerUpsDisabled
	case !r.hasPlayer(player):
		h.mu.Unlock()
		return PowerUpOutcome{}, ErrNotInRoom
	}

	inventory := r.PowerUps[player]
	if inventory[powerUp] <= 0 {
		h.mu.Unlock()
		return PowerUpOutcome{}, ErrNoPowerUp
	}
	inventory[powerUp]--

	outcome := PowerUpOutcome{PowerUp: powerUp}
	switch powerUp {
	case PowerUpExtraTime:
		if !r.InProgress {
			inventory[powerUp]++
			h.mu.Unlock()
			return PowerUpOutcome{}, ErrNoActiveRound
		}
		r.RemainingSeconds += extraTimeSeconds
		outcome.Remaining = r.RemainingSeconds

	case PowerUpChangeLetter:
		if !r.InProgress {
			inventory[powerUp]++
			h.mu.Unlock()
			return PowerUpOutcome{}, ErrNoActiveRound
		}
		m.withRand(func(rng *rand.Rand) {
			r.Letter = m.opts.Letters.Draw(r.UsedLetters, rng)
		})
		outcome.NewLetter = r.Letter

	case PowerUpHint:
		if len(r.Categories) > 0 {
			var category string
			m.withRand(func(rng *rand.Rand) {
				category = r.Categories[rng.IntN(len(r.Categories))]
			})
			outcome.Hint = "una palabra de \"" + category + "\" que empieza con " + r.Letter
		}

	case PowerUpShield, PowerUpDoublePoints:
		r.PendingEffects[player] = append(r.PendingEffects[player], powerUp)
	}

	m.persist(r)
	h.mu.Unlock()

	switch powerUp {
	case PowerUpExtraTime:
		m.broker.Publish(code, "powerup_used", PowerUpEvent{Player: player, PowerUp: powerUp})
		m.broker.Publish(code, "timer", TimerEvent{Seconds: outcome.Remaining})
	case PowerUpChangeLetter:
		m.broker.Publish(code, "letter_changed", LetterEvent{Player: player, Letter: outcome.NewLetter})
	case PowerUpHint:
		// Hints go back to the requester only.
	default:
		m.broker.Publish(code, "powerup_used", PowerUpEvent{Player: player, PowerUp: powerUp})
	}

	m.logger.Info("powerup used", "code", code, "player", player, "powerup", powerUp)
	return outcome, nil
}

// GrantPowerUp lets the host hand a power-up to a player.
func (m *Manager) GrantPowerUp(code, caller, target, powerUp string) error {
	if !knownPowerUp(powerUp) {
		return ErrUnknownPowerUp
	}

	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	switch {
	case caller != r.Host:
		h.mu.Unlock()
		return ErrNotHost
	case !r.hasPlayer(target):
		h.mu.Unlock()
		return ErrNotInRoom
	}

	if r.PowerUps[target] == nil {
		r.PowerUps[target] = emptyInventory()
	}
	r.PowerUps[target][powerUp]++
	count := r.PowerUps[target][powerUp]
	m.persist(r)
	h.mu.Unlock()

	m.broker.Publish(code, "powerup_granted", PowerUpEvent{Player: target, PowerUp: powerUp, Count: count})
	return nil
}

// penaltyPoints is subtracted per host penalty, floored at zero.
const penaltyPoints = 100

// Penalize applies a host-issued penalty to a player.
func (m *Manager) Penalize(code, caller, target, reason string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	switch {
	case caller != r.Host:
		h.mu.Unlock()
		return ErrNotHost
	case !r.hasPlayer(target):
		h.mu.Unlock()
		return ErrNotInRoom
	}

	r.Penalties[target]++
	r.Scores[target] = max(0, r.Scores[target]-penaltyPoints)
	r.recomputeTeamScores()
	total := r.Penalties[target]
	m.persist(r)
	h.mu.Unlock()

	m.broker.Publish(code, "player_penalized", PenaltyEvent{Player: target, Reason: reason, Total: total})
	return nil
}

// PostChat appends a masked message to the room transcript and broadcasts
// it.
func (m *Manager) PostChat(code, player, text string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	switch {
	case !r.ChatEnabled:
		h.mu.Unlock()
		return ErrChatDisabled
	case !r.hasPlayer(player):
		h.mu.Unlock()
		return ErrNotInRoom
	}

	msg := ChatMessage{
		Player: player,
		Text:   maskBannedWords(text),
		SentAt: m.opts.Clock.Now(),
	}
	r.appendChat(msg)
	m.persist(r)
	h.mu.Unlock()

	m.broker.Publish(code, "chat_message", msg)
	return nil
}
