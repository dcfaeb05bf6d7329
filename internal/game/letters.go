package game

import (
	"math/rand/v2"
	"strings"
)

const spanishAlphabet = "ABCDEFGHIJKLMNÑOPQRSTUVWXYZ"

// DefaultExcludedLetters are low-yield starting letters in Spanish; rounds
// built on them produce almost no scorable answers.
const DefaultExcludedLetters = "KQWXYZÑ"

// LetterPool draws round letters from the Spanish alphabet minus a
// configured excluded set. A letter never repeats until every allowed
// letter has been used once, after which the cycle starts over.
type LetterPool struct {
	allowed []string
}

func NewLetterPool(excluded string) LetterPool {
	var allowed []string
	for _, r := range spanishAlphabet {
		if !strings.ContainsRune(excluded, r) {
			allowed = append(allowed, string(r))
		}
	}
	return LetterPool{allowed: allowed}
}

// Draw picks a uniformly random letter outside used and records it there.
// When used covers the whole pool it is cleared first, so repeats only
// happen after a full cycle. The allowed alphabet being non-empty is a
// configuration invariant, not a runtime check.
func (p LetterPool) Draw(used map[string]bool, rng *rand.Rand) string {
	fresh := make([]string, 0, len(p.allowed))
	for _, l := range p.allowed {
		if !used[l] {
			fresh = append(fresh, l)
		}
	}

	if len(fresh) == 0 {
		for l := range used {
			delete(used, l)
		}
		fresh = append(fresh, p.allowed...)
	}

	letter := fresh[rng.IntN(len(fresh))]
	used[letter] = true
	return letter
}

// Size reports how many letters are allowed.
func (p LetterPool) Size() int { return len(p.allowed) }
