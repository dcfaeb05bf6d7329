package game

import (
	"encoding/json"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	cases := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"facil", DifficultyFacil, false},
		{"normal", DifficultyNormal, false},
		{"", DifficultyNormal, false},
		{"dificil", DifficultyDificil, false},
		{"extremo", DifficultyExtremo, false},
		{"imposible", DifficultyNormal, true},
	}
	for _, tc := range cases {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseDifficulty(%q) = (%v, %v), want (%v, err=%v)", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestModeMultipliers(t *testing.T) {
	if ModeClasico.Multiplier() != 1.0 {
		t.Error("clasico multiplier")
	}
	if ModeRapido.Multiplier() != 1.5 {
		t.Error("rapido multiplier")
	}
	if ModeDuelo.Multiplier() != 2.0 {
		t.Error("duelo multiplier")
	}
}

func TestRapidoCaps(t *testing.T) {
	if ModeRapido.MaxRoundSeconds() != 90 {
		t.Errorf("rapido time cap = %d", ModeRapido.MaxRoundSeconds())
	}
	if ModeRapido.MaxCategories() != 5 {
		t.Errorf("rapido category cap = %d", ModeRapido.MaxCategories())
	}
	if ModeClasico.MaxRoundSeconds() != 0 {
		t.Error("clasico should have no time cap")
	}
}

func TestEnumsRoundTripThroughJSON(t *testing.T) {
	type pair struct {
		D Difficulty `json:"d"`
		M Mode       `json:"m"`
	}
	in := pair{D: DifficultyExtremo, M: ModeEquipos}

	blob, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(blob) != `{"d":"extremo","m":"equipos"}` {
		t.Errorf("marshaled form = %s", blob)
	}

	var out pair
	if err := json.Unmarshal(blob, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip changed %v to %v", in, out)
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Ana"); err != nil {
		t.Errorf("plain name rejected: %v", err)
	}
	if err := ValidateName("  x  "); err == nil {
		t.Error("one-rune name accepted")
	}
	if err := ValidateName("nombre-demasiado-largo-para-aceptar"); err == nil {
		t.Error("over-long name accepted")
	}
	if err := ValidateName("SoyUnPendejoFeliz"); err == nil {
		t.Error("banned word inside name accepted")
	}
}
