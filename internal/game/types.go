// internal/game/types.go
//
// Core type definitions for the Wordle game engine.
// Defines:
//   - Mark: per-letter result of a guess (correct/present/absent).
//   - Status: lifecycle state of a session (in_progress/won/lost).
//   - Attempt / Result: one scored guess and what SubmitGuess returns.
//   - Sentinel errors returned by the evaluator and the session.

package game

import "errors"

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the answer at this position.
//   - "present": letter exists in the answer but in a different position.
//   - "absent":  letter does not exist in the answer, or all of its
//     occurrences are already accounted for.
//
// The zero value (MarkUnknown) is only used by the keyboard for letters
// that have not been played yet.
type Mark string

const (
	MarkUnknown Mark = ""
	MarkAbsent  Mark = "absent"
	MarkPresent Mark = "present"
	MarkCorrect Mark = "correct"
)

// rank orders marks for the keyboard fold: correct > present > absent > unknown.
func (m Mark) rank() int {
	switch m {
	case MarkCorrect:
		return 3
	case MarkPresent:
		return 2
	case MarkAbsent:
		return 1
	default:
		return 0
	}
}

// Status is the coarse lifecycle state of a session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// Known reports whether s is one of the three lifecycle states.
func (s Status) Known() bool { return s == StatusInProgress || s.Terminal() }

// Attempt is one submitted guess and its per-letter classification.
type Attempt struct {
	Row   int    `json:"row"`   // zero-based row index on the board
	Guess string `json:"guess"` // uppercase guess as evaluated
	Marks []Mark `json:"marks"` // one mark per letter
}

// Result is returned by SubmitGuess and delivered to session listeners.
type Result struct {
	Attempt Attempt `json:"attempt"`
	Status  Status  `json:"status"`
}

var (
	// ErrLengthMismatch is returned by Evaluate when guess and secret differ in length.
	ErrLengthMismatch = errors.New("guess and secret lengths differ")
	// ErrSessionTerminated is returned for guesses submitted after the game ended.
	ErrSessionTerminated = errors.New("game finished")
	// ErrInvalidLength is returned when the player's guess has the wrong number of letters.
	ErrInvalidLength = errors.New("invalid guess length")
	// ErrInvalidCharacters is returned when the guess contains non-letters.
	ErrInvalidCharacters = errors.New("guess must contain letters only")
	// ErrInvalidSecret is returned by NewSession for empty or non-alphabetic secrets.
	ErrInvalidSecret = errors.New("secret must be a non-empty alphabetic word")
	// ErrCorruptSession is returned when a stored session breaks the board invariants.
	ErrCorruptSession = errors.New("corrupt session state")
)
