package game

import "fmt"

// Difficulty is resolved once at room creation; everything downstream reads
// the associated Settings instead of re-dispatching on the raw string.
type Difficulty int

const (
	DifficultyFacil Difficulty = iota
	DifficultyNormal
	DifficultyDificil
	DifficultyExtremo
)

// Settings is the per-difficulty configuration record.
type Settings struct {
	Label           string
	RoundSeconds    int
	NumCategories   int
	UniquePoints    int
	DuplicatePoints int
}

var difficultySettings = [...]Settings{
	DifficultyFacil:   {Label: "Fácil", RoundSeconds: 240, NumCategories: 6, UniquePoints: 100, DuplicatePoints: 50},
	DifficultyNormal:  {Label: "Normal", RoundSeconds: 180, NumCategories: 11, UniquePoints: 100, DuplicatePoints: 50},
	DifficultyDificil: {Label: "Difícil", RoundSeconds: 120, NumCategories: 13, UniquePoints: 150, DuplicatePoints: 75},
	DifficultyExtremo: {Label: "Extremo", RoundSeconds: 90, NumCategories: 15, UniquePoints: 200, DuplicatePoints: 100},
}

func (d Difficulty) Settings() Settings {
	if d < DifficultyFacil || d > DifficultyExtremo {
		return difficultySettings[DifficultyNormal]
	}
	return difficultySettings[d]
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyFacil:
		return "facil"
	case DifficultyDificil:
		return "dificil"
	case DifficultyExtremo:
		return "extremo"
	default:
		return "normal"
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "facil":
		return DifficultyFacil, nil
	case "normal", "":
		return DifficultyNormal, nil
	case "dificil":
		return DifficultyDificil, nil
	case "extremo":
		return DifficultyExtremo, nil
	}
	return DifficultyNormal, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalText keeps persisted room blobs readable and stable across releases.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
