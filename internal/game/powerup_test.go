package game

import (
	"errors"
	"strings"
	"testing"
)

func TestGrantAndUseExtraTime(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.createRoom(t, ModeClasico, "Ana", "Beto")

	if err := env.manager.GrantPowerUp(code, "Beto", "Beto", PowerUpExtraTime); !errors.Is(err, ErrNotHost) {
		t.Errorf("non-host grant: %v, want ErrNotHost", err)
	}
	if err := env.manager.GrantPowerUp(code, "Ana", "Beto", PowerUpExtraTime); err != nil {
		t.Fatalf("GrantPowerUp: %v", err)
	}

	// Outside a round the time power-up is refused and refunded.
	if _, err := env.manager.UsePowerUp(code, "Beto", PowerUpExtraTime); !errors.Is(err, ErrNoActiveRound) {
		t.Errorf("extra time with no round: %v, want ErrNoActiveRound", err)
	}

	if err := env.manager.StartRound(t.Context(), code, "Ana"); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	// Pause so the fast test ticker cannot race the remaining-time check.
	if err := env.manager.SetPaused(code, true); err != nil {
		t.Fatalf("SetPaused: %v", err)
	}
	before, _ := env.manager.Snapshot(code)

	outcome, err := env.manager.UsePowerUp(code, "Beto", PowerUpExtraTime)
	if err != nil {
		t.Fatalf("UsePowerUp: %v", err)
	}
	if outcome.Remaining != before.Remaining+30 {
		t.Errorf("remaining after extra time = %d, want %d", outcome.Remaining, before.Remaining+30)
	}

	// The refunded unit was spent now; a second use must fail.
	if _, err := env.manager.UsePowerUp(code, "Beto", PowerUpExtraTime); !errors.Is(err, ErrNoPowerUp) {
		t.Errorf("second use: %v, want ErrNoPowerUp", err)
	}
}

func TestUseUnknownPowerUp(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.createRoom(t, ModeClasico, "Ana", "Beto")

	if _, err := env.manager.UsePowerUp(code, "Ana", "lasers"); !errors.Is(err, ErrUnknownPowerUp) {
		t.Errorf("unknown power-up: %v, want ErrUnknownPowerUp", err)
	}
}

func TestShieldQueuesForNextRound(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.createRoom(t, ModeClasico, "Ana", "Beto")
	if err := env.manager.GrantPowerUp(code, "Ana", "Ana", PowerUpShield); err != nil {
		t.Fatalf("GrantPowerUp: %v", err)
	}
	if _, err := env.manager.UsePowerUp(code, "Ana", PowerUpShield); err != nil {
		t.Fatalf("UsePowerUp: %v", err)
	}

	// Both write the same answer; the queued shield pays Ana as unique.
	results := env.playRound(t, code, "Ana", map[string]map[string]string{
		"Ana":  {"Color": "Azul"},
		"Beto": {"Color": "Azul"},
	})
	if results.RoundScores["Ana"] != 100 {
		t.Errorf("shielded duplicate scored %d, want 100", results.RoundScores["Ana"])
	}
	if results.RoundScores["Beto"] != 50 {
		t.Errorf("unshielded duplicate scored %d, want 50", results.RoundScores["Beto"])
	}
}

func TestChangeLetterStaysInPool(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.createRoom(t, ModeClasico, "Ana", "Beto")
	if err := env.manager.GrantPowerUp(code, "Ana", "Ana", PowerUpChangeLetter); err != nil {
		t.Fatalf("GrantPowerUp: %v", err)
	}
	if err := env.manager.StartRound(t.Context(), code, "Ana"); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	outcome, err := env.manager.UsePowerUp(code, "Ana", PowerUpChangeLetter)
	if err != nil {
		t.Fatalf("UsePowerUp: %v", err)
	}
	// The test pool only allows A, so the redraw cycles back to it.
	if outcome.NewLetter != "A" {
		t.Errorf("new letter %q outside the allowed pool", outcome.NewLetter)
	}
}

func TestHintNamesARoundCategory(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.createRoom(t, ModeClasico, "Ana", "Beto")
	if err := env.manager.GrantPowerUp(code, "Ana", "Ana", PowerUpHint); err != nil {
		t.Fatalf("GrantPowerUp: %v", err)
	}
	if err := env.manager.StartRound(t.Context(), code, "Ana"); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	outcome, err := env.manager.UsePowerUp(code, "Ana", PowerUpHint)
	if err != nil {
		t.Fatalf("UsePowerUp: %v", err)
	}
	if !strings.Contains(outcome.Hint, "Color") && !strings.Contains(outcome.Hint, "Animal") {
		t.Errorf("hint %q does not mention a round category", outcome.Hint)
	}
}

func TestPenalizeFloorsAtZero(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.createRoom(t, ModeClasico, "Ana", "Beto")

	if err := env.manager.Penalize(code, "Beto", "Ana", "spam"); !errors.Is(err, ErrNotHost) {
		t.Errorf("non-host penalty: %v, want ErrNotHost", err)
	}

	if err := env.manager.Penalize(code, "Ana", "Beto", "spam"); err != nil {
		t.Fatalf("Penalize: %v", err)
	}
	snap, _ := env.manager.Snapshot(code)
	if snap.TotalScores["Beto"] != 0 {
		t.Errorf("penalized zero score went to %d, want floor at 0", snap.TotalScores["Beto"])
	}
}

func TestChatMasksBannedWords(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.createRoom(t, ModeClasico, "Ana", "Beto")

	if err := env.manager.PostChat(code, "Ana", "eres basura total"); err != nil {
		t.Fatalf("PostChat: %v", err)
	}

	snap, _ := env.manager.Snapshot(code)
	if len(snap.Chat) != 1 {
		t.Fatalf("chat has %d messages, want 1", len(snap.Chat))
	}
	if got := snap.Chat[0].Text; got != "eres ****** total" {
		t.Errorf("masked text = %q", got)
	}
}

func TestChatDisabled(t *testing.T) {
	env := newTestEnv(t)
	code, _, err := env.manager.CreateRoom(t.Context(), CreateParams{
		HostName: "Ana", Rounds: 1, Difficulty: DifficultyNormal, Mode: ModeClasico,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if err := env.manager.PostChat(code, "Ana", "hola"); !errors.Is(err, ErrChatDisabled) {
		t.Errorf("chat on disabled room: %v, want ErrChatDisabled", err)
	}
}
