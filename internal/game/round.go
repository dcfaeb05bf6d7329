package game

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// oracleParallelism bounds concurrent oracle calls per scoring pass.
const oracleParallelism = 4

// StartRound moves a room from waiting to an active round. Only the host
// may start; the room needs at least two players (exactly two in duel
// mode) and no round already running.
func (m *Manager) StartRound(ctx context.Context, code, caller string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room

	switch {
	case r.Finalized:
		h.mu.Unlock()
		return ErrRoomFinalized
	case r.InProgress:
		h.mu.Unlock()
		return ErrRoundInProgress
	case caller != r.Host:
		h.mu.Unlock()
		return ErrNotHost
	case len(r.Players) < 2:
		h.mu.Unlock()
		return ErrNotEnoughPlayers
	case r.Mode == ModeDuelo && len(r.Players) != 2:
		h.mu.Unlock()
		return ErrDuelNeedsTwo
	}

	m.withRand(func(rng *rand.Rand) {
		r.Letter = m.opts.Letters.Draw(r.UsedLetters, rng)
		if len(r.CustomCategories) == 0 {
			r.Categories = SelectCategories(r.Difficulty, rng)
		}
		if r.Mode.TeamPlay() && r.CurrentRound == 1 {
			r.splitIntoTeams(rng)
		}
	})
	if limit := r.Mode.MaxCategories(); limit > 0 && len(r.Categories) > limit {
		r.Categories = r.Categories[:limit]
	}

	duration := r.Difficulty.Settings().RoundSeconds
	if limit := r.Mode.MaxRoundSeconds(); limit > 0 && duration > limit {
		duration = limit
	}

	r.InProgress = true
	r.Paused = false
	r.StopTriggered = false
	r.RoundStartedAt = m.opts.Clock.Now()
	r.RemainingSeconds = duration
	r.Answers = make(map[string]map[string]string)
	r.Verdicts = make(map[string]map[string]Verdict)
	r.Overrides = make(map[string]map[string]Verdict)
	r.Appeals = make(map[string]*Appeal)
	r.RoundScores = make(map[string]int)
	r.ActiveEffects = r.PendingEffects
	r.PendingEffects = make(map[string][]string)
	for p := range r.Ready {
		r.Ready[p] = false
	}

	timerCtx, cancel := context.WithCancel(context.Background())
	if h.cancelTimer != nil {
		h.cancelTimer()
	}
	h.cancelTimer = cancel

	m.persist(r)
	started := RoundStartedEvent{
		Round:      r.CurrentRound,
		Total:      r.TotalRounds,
		Letter:     r.Letter,
		Categories: categoriesWithIcons(r.Categories),
		Seconds:    duration,
		Teams:      r.Teams,
	}
	h.mu.Unlock()

	m.broker.Publish(code, "round_started", started)
	m.logger.Info("round started", "code", code, "round", started.Round, "letter", started.Letter)

	go m.runCountdown(timerCtx, code)
	return nil
}

// runCountdown ticks the round clock. Pause freezes the remaining time
// without stopping the ticks; cancellation (room deletion, stop trigger)
// ends it silently. Reaching zero triggers the stop itself.
func (m *Manager) runCountdown(ctx context.Context, code string) {
	ticker := time.NewTicker(m.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		h, ok := m.handle(code)
		if !ok {
			return
		}

		h.mu.Lock()
		r := h.room
		if !r.InProgress || r.StopTriggered {
			h.mu.Unlock()
			return
		}
		if r.Paused {
			remaining := r.RemainingSeconds
			h.mu.Unlock()
			m.broker.Publish(code, "timer", TimerEvent{Seconds: remaining, Paused: true})
			continue
		}
		r.RemainingSeconds--
		remaining := r.RemainingSeconds
		h.mu.Unlock()

		m.broker.Publish(code, "timer", TimerEvent{Seconds: remaining})

		if remaining <= 0 {
			m.triggerStop(code, "", true)
			return
		}
	}
}

// SubmitAnswers records a player's answer sheet for the current round.
// Late sheets during the grace countdown are accepted; sheets for paused
// rounds are not.
func (m *Manager) SubmitAnswers(code, player string, answers map[string]string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.room

	if !r.hasPlayer(player) {
		return ErrNotInRoom
	}
	if !r.InProgress {
		return ErrNoActiveRound
	}
	if r.Paused {
		return ErrRoundPaused
	}

	sheet := make(map[string]string, len(answers))
	for _, category := range r.Categories {
		if text, ok := answers[category]; ok {
			sheet[category] = strings.TrimSpace(text)
		}
	}
	r.Answers[player] = sheet
	m.persist(r)
	return nil
}

// TriggerStop is the player-facing basta. It is rejected while paused,
// before the minimum round time, or when the round is not running; a
// duplicate trigger is a silent no-op (first one wins).
func (m *Manager) TriggerStop(code, player string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	switch {
	case !r.hasPlayer(player):
		h.mu.Unlock()
		return ErrNotInRoom
	case r.Finalized:
		h.mu.Unlock()
		return ErrRoomFinalized
	case !r.InProgress:
		h.mu.Unlock()
		return ErrNoActiveRound
	case r.Paused:
		h.mu.Unlock()
		return ErrRoundPaused
	}
	if elapsed := m.opts.Clock.Now().Sub(r.RoundStartedAt); elapsed < m.opts.MinStopTime {
		remaining := int((m.opts.MinStopTime - elapsed).Round(time.Second).Seconds())
		h.mu.Unlock()
		return &StopTooEarlyError{Remaining: remaining}
	}
	h.mu.Unlock()

	m.triggerStop(code, player, false)
	return nil
}

// triggerStop performs the idempotent check-and-set on the stop flag and,
// on the winning call, launches the grace countdown plus scoring pass.
// Paused is re-checked under the lock: a pause landing between a caller's
// precondition check and this section drops the stop.
func (m *Manager) triggerStop(code, player string, timedOut bool) {
	h, ok := m.handle(code)
	if !ok {
		return
	}

	h.mu.Lock()
	r := h.room
	if !r.InProgress || r.StopTriggered || r.Paused {
		h.mu.Unlock()
		return
	}
	r.StopTriggered = true
	if h.cancelTimer != nil {
		h.cancelTimer()
		h.cancelTimer = nil
	}
	round := r.CurrentRound
	m.persist(r)
	h.mu.Unlock()

	reason := "time up"
	if !timedOut {
		reason = "basta"
	}
	m.broker.Publish(code, "stop_triggered", StopEvent{Player: player, Reason: reason})
	m.logger.Info("round stop", "code", code, "round", round, "reason", reason, "player", player)

	go m.finishRound(code, round)
}

// scoringSnapshot is copied out under the room lock so oracle calls and
// scoring math run without holding it.
type scoringSnapshot struct {
	letter     string
	players    []string
	answers    map[string]map[string]string
	settings   Settings
	mode       Mode
	effects    map[string][]string
	validation bool
}

// finishRound runs the grace countdown, gathers verdicts, scores the
// round, and moves the room to waiting or finished. Exactly one
// finishRound runs per round; triggerStop guarantees it.
func (m *Manager) finishRound(code string, round int) {
	for s := m.opts.GraceSeconds; s > 0; s-- {
		m.broker.Publish(code, "timer", TimerEvent{Seconds: s, Phase: "basta"})
		time.Sleep(m.opts.TickInterval)
	}

	h, ok := m.handle(code)
	if !ok {
		m.logger.Warn("room vanished before scoring", "code", code)
		return
	}

	h.mu.Lock()
	r := h.room
	if r.CurrentRound != round || !r.StopTriggered {
		h.mu.Unlock()
		m.logger.Warn("stale scoring pass dropped", "code", code, "round", round)
		return
	}
	snap := scoringSnapshot{
		letter:     r.Letter,
		players:    append([]string(nil), r.Players...),
		answers:    copyAnswers(r.Answers),
		settings:   r.Difficulty.Settings(),
		mode:       r.Mode,
		effects:    r.ActiveEffects,
		validation: r.ValidationEnabled,
	}
	h.mu.Unlock()

	// The oracle may block for seconds per answer; run the calls outside
	// the room lock and join before scoring.
	verdicts := m.collectVerdicts(snap)

	h, ok = m.handle(code)
	if !ok {
		m.logger.Warn("room vanished during validation", "code", code)
		return
	}

	h.mu.Lock()
	r = h.room
	if r.CurrentRound != round || !r.StopTriggered {
		h.mu.Unlock()
		m.logger.Warn("stale verdicts dropped", "code", code, "round", round)
		return
	}

	result := ScoreRound(RoundInput{
		Letter:        snap.letter,
		Players:       snap.players,
		Answers:       snap.answers,
		Verdicts:      verdicts,
		Settings:      snap.settings,
		Mode:          snap.mode,
		ActiveEffects: snap.effects,
	})

	r.Verdicts = verdicts
	r.RoundScores = result.Points
	for player, points := range result.Points {
		r.Scores[player] += points
	}
	r.recomputeTeamScores()

	gameOver := r.CurrentRound >= r.TotalRounds
	if gameOver {
		r.Finalized = true
	} else {
		r.CurrentRound++
	}
	r.InProgress = false
	r.StopTriggered = false
	// ActiveEffects survives until the next round start; appeal recomputes
	// must score with the same effects the round was scored with.

	// Host is auto-ready for the next round; everyone else re-confirms.
	r.Ready = map[string]bool{r.Host: true}

	results := m.buildResults(r, result, gameOver)
	m.persist(r)
	h.mu.Unlock()

	m.broker.Publish(code, "round_results", results)
	m.logger.Info("round scored", "code", code, "round", round, "game_over", gameOver)
}

// collectVerdicts fans oracle calls out across (player, category) pairs
// with bounded parallelism and joins before returning; scoring never sees
// a partially populated verdict map.
func (m *Manager) collectVerdicts(snap scoringSnapshot) map[string]map[string]Verdict {
	type judged struct {
		player, category string
		verdict          Verdict
	}

	verdicts := make(map[string]map[string]Verdict, len(snap.players))
	inRound := make(map[string]bool, len(snap.players))
	for _, p := range snap.players {
		verdicts[p] = make(map[string]Verdict)
		inRound[p] = true
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		results []judged
	)
	g.SetLimit(oracleParallelism)

	for player, sheet := range snap.answers {
		if !inRound[player] {
			continue
		}
		for category, answer := range sheet {
			trimmed := strings.TrimSpace(answer)
			if len([]rune(trimmed)) < 2 {
				verdicts[player][category] = Verdict{
					Valid:      false,
					Reason:     "empty or too-short answer",
					Confidence: 1.0,
				}
				continue
			}

			if !snap.validation {
				verdicts[player][category] = Verdict{
					Valid:      true,
					Reason:     "validation disabled",
					Confidence: 1.0,
				}
				continue
			}

			g.Go(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				valid, reason, confidence := m.oracle.Validate(ctx, trimmed, category, snap.letter)
				mu.Lock()
				results = append(results, judged{player, category, Verdict{
					Valid:      valid,
					Reason:     reason,
					Confidence: confidence,
					Appealable: !valid && confidence < appealableBelow,
				}})
				mu.Unlock()
				return nil
			})
		}
	}
	g.Wait()

	for _, j := range results {
		verdicts[j.player][j.category] = j.verdict
	}
	return verdicts
}

func copyAnswers(answers map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(answers))
	for player, sheet := range answers {
		copied := make(map[string]string, len(sheet))
		for category, text := range sheet {
			copied[category] = text
		}
		out[player] = copied
	}
	return out
}

func (m *Manager) buildResults(r *Room, result RoundResult, gameOver bool) RoundResults {
	noWinner := false
	if gameOver {
		if r.Mode.TeamPlay() && len(r.TeamScores) > 0 {
			noWinner = allZero(r.TeamScores)
		} else {
			noWinner = allZero(r.Scores)
		}
	}

	return RoundResults{
		Round:          roundJustScored(r, gameOver),
		NextRound:      r.CurrentRound,
		Letter:         r.Letter,
		Categories:     categoriesWithIcons(r.Categories),
		RoundScores:    result.Points,
		TotalScores:    copyScores(r.Scores),
		Answers:        copyAnswers(r.Answers),
		Verdicts:       r.Verdicts,
		PointsByAnswer: result.PointsByAnswer,
		Host:           r.Host,
		Mode:           r.Mode.String(),
		Teams:          r.Teams,
		TeamScores:     r.TeamScores,
		GameOver:       gameOver,
		NoWinner:       noWinner,
	}
}

func roundJustScored(r *Room, gameOver bool) int {
	if gameOver {
		return r.CurrentRound
	}
	return r.CurrentRound - 1
}

func allZero(scores map[string]int) bool {
	if len(scores) == 0 {
		return false
	}
	for _, s := range scores {
		if s != 0 {
			return false
		}
	}
	return true
}

func copyScores(scores map[string]int) map[string]int {
	out := make(map[string]int, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}
