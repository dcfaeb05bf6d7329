package game

// FileAppeal opens (or silently replaces) a pending appeal for the
// player's rejected answer in a category.
func (m *Manager) FileAppeal(code, player, category string) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room
	if !r.hasPlayer(player) {
		h.mu.Unlock()
		return ErrNotInRoom
	}

	answer := r.Answers[player][category]
	appeal := &Appeal{
		Player:   player,
		Category: category,
		Answer:   answer,
	}
	if r.Appeals == nil {
		r.Appeals = make(map[string]*Appeal)
	}
	r.Appeals[appealKey(player, category)] = appeal
	m.persist(r)
	h.mu.Unlock()

	m.broker.Publish(code, "appeal_opened", AppealEvent{
		Player:   player,
		Category: category,
		Answer:   answer,
	})
	m.logger.Info("appeal filed", "code", code, "player", player, "category", category)
	return nil
}

// CastAppealVote records one peer vote. The appellant cannot vote, and a
// repeat vote is an idempotent no-op. Once everyone but the appellant has
// voted the appeal resolves by simple majority: more "valid" than
// "invalid" votes flips the verdict, anything else upholds it.
func (m *Manager) CastAppealVote(code, player, category, voter string, voteValid bool) error {
	h, ok := m.handle(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.mu.Lock()
	r := h.room

	appeal, ok := r.Appeals[appealKey(player, category)]
	if !ok {
		h.mu.Unlock()
		return ErrAppealNotFound
	}
	if voter == appeal.Player {
		h.mu.Unlock()
		return ErrSelfVote
	}
	if !r.hasPlayer(voter) {
		h.mu.Unlock()
		return ErrNotInRoom
	}
	if appeal.hasVoted(voter) {
		h.mu.Unlock()
		return nil
	}

	appeal.Voters = append(appeal.Voters, voter)
	if voteValid {
		appeal.VotesValid++
	} else {
		appeal.VotesInvalid++
	}

	// Quorum: every player except the appellant.
	if len(appeal.Voters) < len(r.Players)-1 {
		m.persist(r)
		h.mu.Unlock()
		return nil
	}

	accepted := appeal.VotesValid > appeal.VotesInvalid
	delete(r.Appeals, appealKey(player, category))

	if !accepted {
		m.persist(r)
		h.mu.Unlock()
		m.broker.Publish(code, "appeal_rejected", AppealEvent{
			Player:   appeal.Player,
			Category: appeal.Category,
			Answer:   appeal.Answer,
		})
		m.logger.Info("appeal rejected", "code", code, "player", player, "category", category)
		return nil
	}

	event := m.acceptAppeal(r, appeal)
	m.persist(r)
	h.mu.Unlock()

	m.broker.Publish(code, "appeal_accepted", event)
	m.logger.Info("appeal accepted", "code", code, "player", player, "category", category,
		"points", event.PointsGained)
	return nil
}

// acceptAppeal records a verdict override and rebuilds round points for
// all players from scratch over the effective verdict set, with the same
// power-up effects the round was scored with. The appellant is paid the
// difference between their recomputed and original round points, so
// shields and double points keep counting. The original oracle verdict
// stays untouched; scoring and views read the override overlay.
// Cumulative totals of other players are never reduced.
func (m *Manager) acceptAppeal(r *Room, appeal *Appeal) AppealAcceptedEvent {
	player, category := appeal.Player, appeal.Category

	if r.Overrides == nil {
		r.Overrides = make(map[string]map[string]Verdict)
	}
	if r.Overrides[player] == nil {
		r.Overrides[player] = make(map[string]Verdict)
	}
	r.Overrides[player][category] = Verdict{
		Valid:      true,
		Reason:     "accepted by player vote",
		Confidence: 1.0,
	}

	recomputed := ScoreRound(RoundInput{
		Letter:        r.Letter,
		Players:       r.Players,
		Answers:       r.Answers,
		Verdicts:      r.effectiveVerdicts(),
		Settings:      r.Difficulty.Settings(),
		Mode:          r.Mode,
		ActiveEffects: r.ActiveEffects,
	})

	gained := recomputed.Points[player] - r.RoundScores[player]
	if gained < 0 {
		gained = 0
	}
	r.Scores[player] += gained
	r.RoundScores = recomputed.Points
	r.recomputeTeamScores()

	return AppealAcceptedEvent{
		Player:       player,
		Category:     category,
		Answer:       appeal.Answer,
		PointsGained: gained,
		NewTotal:     r.Scores[player],
		TotalScores:  copyScores(r.Scores),
		RoundScores:  recomputed.Points,
		TeamScores:   r.TeamScores,
	}
}
