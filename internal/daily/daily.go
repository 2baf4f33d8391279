// Package daily implements the date-keyed daily challenge: a deterministic
// answer per UTC day and a persisted one-play-per-player result table.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Puzzle is the challenge for one day.
type Puzzle struct {
	Date      string
	WordIndex int
	Answer    string
}

// PuzzleFor picks the day's answer from answers.
func PuzzleFor(now time.Time, salt string, answers []string) Puzzle {
	p := Puzzle{Date: DateKey(now)}
	if len(answers) == 0 {
		return p
	}
	p.WordIndex = WordIndex(now, salt, len(answers))
	p.Answer = answers[p.WordIndex]
	return p
}
