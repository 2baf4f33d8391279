// internal/game/evaluate.go
//
// Pure guess scoring. No session state, no dictionary.

package game

// Evaluate scores guess against secret using the standard two-pass algorithm.
//
// Pass 1:
//   - Mark exact matches as correct; each one consumes a unit of that
//     letter's pool (the letter frequency of the secret).
//
// Pass 2:
//   - For each remaining position: if the pool still holds the letter,
//     mark present and consume it; otherwise mark absent.
//
// A letter therefore scores correct/present at most as many times as it
// occurs in the secret. Inputs are compared rune by rune as given; callers
// normalize case beforehand.
func Evaluate(guess, secret string) ([]Mark, error) {
	g, s := []rune(guess), []rune(secret)
	if len(g) != len(s) {
		return nil, ErrLengthMismatch
	}

	pool := make(map[rune]int, len(s))
	for _, r := range s {
		pool[r]++
	}

	res := make([]Mark, len(g))
	for i := range g {
		if g[i] == s[i] {
			res[i] = MarkCorrect
			pool[g[i]]--
		}
	}

	for i := range g {
		if res[i] == MarkCorrect {
			continue
		}
		if pool[g[i]] > 0 {
			res[i] = MarkPresent
			pool[g[i]]--
		} else {
			res[i] = MarkAbsent
		}
	}
	return res, nil
}

// allCorrect returns true if every mark is MarkCorrect.
func allCorrect(m []Mark) bool {
	for _, x := range m {
		if x != MarkCorrect {
			return false
		}
	}
	return true
}
