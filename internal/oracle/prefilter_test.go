package oracle

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPrefilterReject(t *testing.T) {
	cases := []struct {
		name   string
		answer string
		letter string
		reject bool
	}{
		{"valid word", "Azul", "A", false},
		{"accented first letter", "Águila", "A", false},
		{"empty", "", "A", true},
		{"single char", "a", "A", true},
		{"evasive no se", "no se", "N", true},
		{"evasive dash", "-", "A", true},
		{"repeated run", "aaaa", "A", true},
		{"keyboard mash", "asdasd", "A", true},
		{"qwerty", "qwerty", "Q", true},
		{"consonant pileup", "bcdfgt", "B", true},
		{"wrong letter", "Perro", "A", true},
		{"two words ok", "Nueva York", "N", false},
		{"triple letter allowed", "Lleno", "L", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reason := prefilterReject(tc.answer, tc.letter)
			if got := reason != ""; got != tc.reject {
				t.Errorf("prefilterReject(%q, %q) = %q, want reject=%v", tc.answer, tc.letter, reason, tc.reject)
			}
		})
	}
}

func TestStartsWithLetterStripsAccents(t *testing.T) {
	if !startsWithLetter("Águila", "A") {
		t.Error("Águila should count for letter A")
	}
	if !startsWithLetter("elefante", "É") {
		t.Error("elefante should count for letter É")
	}
	if startsWithLetter("Oso", "A") {
		t.Error("Oso should not count for letter A")
	}
}

func TestStripFences(t *testing.T) {
	in := "```json\n{\"valid\": true}\n```"
	if got := stripFences(in); got != `{"valid": true}` {
		t.Errorf("stripFences = %q", got)
	}
	if got := stripFences(`{"valid": false}`); got != `{"valid": false}` {
		t.Errorf("stripFences on plain JSON = %q", got)
	}
}

func TestValidateWithoutClientDegrades(t *testing.T) {
	v := New(Config{}, discardLogger())
	valid, _, conf := v.Validate(t.Context(), "Azul", "Color", "A")
	if !valid || conf != degradedConfidence {
		t.Errorf("degraded validate = (%v, %v), want (true, %v)", valid, conf, degradedConfidence)
	}

	valid, reason, conf := v.Validate(t.Context(), "aaaa", "Color", "A")
	if valid || conf != prefilterConfidence {
		t.Errorf("prefiltered validate = (%v, %q, %v), want invalid at full confidence", valid, reason, conf)
	}
}
