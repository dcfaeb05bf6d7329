package game

import "fmt"

// Mode selects the round variant. Like Difficulty it is resolved once at
// room creation and consulted through methods, never by string again.
type Mode int

const (
	ModeClasico Mode = iota
	ModeRapido
	ModeEquipos
	ModeDuelo
	ModeEliminacion
)

// Multiplier scales round points before they reach cumulative totals.
func (m Mode) Multiplier() float64 {
	switch m {
	case ModeRapido:
		return 1.5
	case ModeDuelo:
		return 2.0
	default:
		return 1.0
	}
}

// MaxRoundSeconds caps the round duration; 0 means no cap.
func (m Mode) MaxRoundSeconds() int {
	if m == ModeRapido {
		return 90
	}
	return 0
}

// MaxCategories caps the category count; 0 means no cap.
func (m Mode) MaxCategories() int {
	if m == ModeRapido {
		return 5
	}
	return 0
}

// TeamPlay reports whether players are grouped into teams with shared totals.
func (m Mode) TeamPlay() bool { return m == ModeEquipos }

func (m Mode) String() string {
	switch m {
	case ModeRapido:
		return "rapido"
	case ModeEquipos:
		return "equipos"
	case ModeDuelo:
		return "duelo"
	case ModeEliminacion:
		return "eliminacion"
	default:
		return "clasico"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "clasico", "":
		return ModeClasico, nil
	case "rapido":
		return ModeRapido, nil
	case "equipos":
		return ModeEquipos, nil
	case "duelo":
		return ModeDuelo, nil
	case "eliminacion":
		return ModeEliminacion, nil
	}
	return ModeClasico, fmt.Errorf("unknown game mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
