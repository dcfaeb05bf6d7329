package game

import "strings"

// RoundInput is everything ScoreRound needs. It is assembled under the
// room lock so scoring itself is a pure function; tests feed it directly.
type RoundInput struct {
	Letter   string
	Players  []string
	Answers  map[string]map[string]string
	Verdicts map[string]map[string]Verdict
	Settings Settings
	Mode     Mode

	// ActiveEffects lists consumed power-up effects per player
	// (escudo, doble_puntos).
	ActiveEffects map[string][]string
}

// RoundResult is the per-round outcome before cumulative totals are
// updated.
type RoundResult struct {
	Points         map[string]int
	PointsByAnswer map[string]map[string]int
}

// ScoreRound applies the uniqueness rule: per category, count how many
// qualifying players (valid verdict, letter-matching answer) wrote the
// same uppercased text. Exactly one occurrence pays UniquePoints, more
// pay DuplicatePoints each, everything else pays nothing. An answer that
// does not start with the round letter never scores, whatever the oracle
// said.
func ScoreRound(in RoundInput) RoundResult {
	letter := strings.ToUpper(in.Letter)
	inRound := make(map[string]bool, len(in.Players))
	for _, p := range in.Players {
		inRound[p] = true
	}

	// Multiset of qualifying answers per category.
	counts := make(map[string]map[string]int)
	for player, answers := range in.Answers {
		if !inRound[player] {
			continue
		}
		for category, answer := range answers {
			norm := normalizeAnswer(answer)
			if norm == "" || !strings.HasPrefix(norm, letter) {
				continue
			}
			if !in.Verdicts[player][category].Valid {
				continue
			}
			if counts[category] == nil {
				counts[category] = make(map[string]int)
			}
			counts[category][norm]++
		}
	}

	result := RoundResult{
		Points:         make(map[string]int, len(in.Players)),
		PointsByAnswer: make(map[string]map[string]int, len(in.Players)),
	}
	for _, p := range in.Players {
		result.Points[p] = 0
	}

	for player, answers := range in.Answers {
		if !inRound[player] {
			continue
		}
		breakdown := make(map[string]int, len(answers))
		for category, answer := range answers {
			breakdown[category] = 0

			norm := normalizeAnswer(answer)
			if norm == "" || !strings.HasPrefix(norm, letter) {
				continue
			}
			if !in.Verdicts[player][category].Valid {
				continue
			}

			base := 0
			switch n := counts[category][norm]; {
			case n == 1:
				base = in.Settings.UniquePoints
			case n > 1:
				base = in.Settings.DuplicatePoints
				if hasEffect(in.ActiveEffects, player, PowerUpShield) {
					// A shield pays a duplicate as if it were unique.
					base = in.Settings.UniquePoints
				}
			}
			if base == 0 {
				continue
			}

			multiplier := in.Mode.Multiplier()
			if hasEffect(in.ActiveEffects, player, PowerUpDoublePoints) {
				multiplier *= 2
			}

			points := int(float64(base) * multiplier)
			breakdown[category] = points
			result.Points[player] += points
		}
		result.PointsByAnswer[player] = breakdown
	}

	return result
}

// normalizeAnswer uppercases the trimmed answer and folds an accented
// first letter, so "Águila" groups and scores under the letter A just
// like the validation pre-filter accepts it.
func normalizeAnswer(answer string) string {
	norm := strings.ToUpper(strings.TrimSpace(answer))
	runes := []rune(norm)
	if len(runes) == 0 {
		return ""
	}
	runes[0] = foldAccent(runes[0])
	return string(runes)
}

func foldAccent(r rune) rune {
	switch r {
	case 'Á':
		return 'A'
	case 'É':
		return 'E'
	case 'Í':
		return 'I'
	case 'Ó':
		return 'O'
	case 'Ú', 'Ü':
		return 'U'
	}
	return r
}

func hasEffect(effects map[string][]string, player, effect string) bool {
	for _, e := range effects[player] {
		if e == effect {
			return true
		}
	}
	return false
}
