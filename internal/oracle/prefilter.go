package oracle

import (
	"strings"
	"unicode"
)

// The pre-filter catches spam and evasive answers locally so they never
// cost an external call. Heuristics are tuned for Spanish.

var evasiveAnswers = map[string]bool{
	"no": true, "nada": true, "no se": true, "nose": true, "no sé": true,
	"n/a": true, "na": true, "none": true, "ninguno": true, "ninguna": true,
	"x": true, "-": true, "xd": true, "idk": true, "nohay": true,
}

var keyboardMashPatterns = []string{
	"asd", "sasd", "asdas", "qwerty", "zxcv", "hjkl", "fghj",
}

const (
	maxRepeatedRun  = 3 // 4+ identical consecutive characters is spam
	maxConsonantRun = 4 // 5+ consecutive consonants is not Spanish
	minAnswerLength = 2
)

// prefilterReject returns a reason when the answer is structurally
// hopeless, or "" when it deserves a real judgment. Rejections here carry
// full confidence; there is nothing to appeal about "aaaa".
func prefilterReject(answer, letter string) string {
	trimmed := strings.TrimSpace(answer)
	lower := strings.ToLower(trimmed)
	runes := []rune(lower)

	if len(runes) < minAnswerLength {
		return "answer is empty or too short"
	}
	if evasiveAnswers[lower] {
		return "evasive answer"
	}
	if distinctRunes(runes) <= 2 && len(runes) >= 4 {
		return "gibberish (repeated characters)"
	}
	if longestRun(runes) > maxRepeatedRun {
		return "gibberish (repeated characters)"
	}
	for _, pattern := range keyboardMashPatterns {
		if strings.Contains(lower, pattern) {
			return "keyboard mash"
		}
	}
	if longestConsonantRun(runes) > maxConsonantRun {
		return "not a recognizable word"
	}
	if letter != "" && !startsWithLetter(trimmed, letter) {
		return "does not start with the round letter"
	}
	return ""
}

func distinctRunes(runes []rune) int {
	seen := make(map[rune]bool, len(runes))
	for _, r := range runes {
		if unicode.IsLetter(r) {
			seen[r] = true
		}
	}
	return len(seen)
}

func longestRun(runes []rune) int {
	longest, run := 0, 0
	var prev rune
	for _, r := range runes {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		longest = max(longest, run)
	}
	return longest
}

var vowels = map[rune]bool{
	'a': true, 'e': true, 'i': true, 'o': true, 'u': true,
	'á': true, 'é': true, 'í': true, 'ó': true, 'ú': true, 'ü': true,
}

func longestConsonantRun(runes []rune) int {
	longest, run := 0, 0
	for _, r := range runes {
		if unicode.IsLetter(r) && !vowels[r] {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}

// startsWithLetter compares accent-stripped first letters, so "Águila"
// counts for the letter A.
func startsWithLetter(answer, letter string) bool {
	ar := []rune(strings.ToUpper(strings.TrimSpace(answer)))
	lr := []rune(strings.ToUpper(strings.TrimSpace(letter)))
	if len(ar) == 0 || len(lr) == 0 {
		return false
	}
	return stripAccent(ar[0]) == stripAccent(lr[0])
}

func stripAccent(r rune) rune {
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
