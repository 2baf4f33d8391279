// internal/game/keyboard.go
//
// Per-letter keyboard hints folded from scored attempts.
// Responsibilities:
//   - Keep the best mark seen per letter (monotonic upgrade).
//   - Snapshot and string-keyed views for JSON responses.

package game

// Keyboard maps each letter to the best status seen for it so far.
type Keyboard map[rune]Mark

// Update folds a new mark for letter into the keyboard.
// Stored entries only ever move up: correct > present > absent > unknown.
func (k Keyboard) Update(letter rune, m Mark) {
	if m.rank() > k[letter].rank() {
		k[letter] = m
	}
}

// Fold applies every letter/mark pair of one attempt.
func (k Keyboard) Fold(a Attempt) {
	for i, r := range []rune(a.Guess) {
		if i < len(a.Marks) {
			k.Update(r, a.Marks[i])
		}
	}
}

// Clone returns an independent copy.
func (k Keyboard) Clone() Keyboard {
	out := make(Keyboard, len(k))
	for r, m := range k {
		out[r] = m
	}
	return out
}

// Strings converts the keyboard to string keys for JSON payloads.
func (k Keyboard) Strings() map[string]Mark {
	out := make(map[string]Mark, len(k))
	for r, m := range k {
		out[string(r)] = m
	}
	return out
}
