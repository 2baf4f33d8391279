// internal/words/words.go
//
// Provides word list management for the game engine.
//
// Responsibilities:
//   - Load answer and allowed guess lists from configured files or fall back to embedded defaults.
//   - Maintain sets for quick lookups (answers only, answers∪guesses).
//   - Supply Random, IsAllowed, IsAnswer and Stats; Lists is also a local Validator.
//
// Word Lists:
//   - "answers": canonical solutions (exactly WordLength uppercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Loading behavior (LoadLists):
//  1. If both paths are set, load answers from the first and allowed guesses from the second.
//  2. If only the allowed path is set, use that file for both answers and allowed guesses.
//  3. If neither is set, use the lists embedded in the assets package.
//
// Constraints:
//   - Words must be WordLength alphabetic letters; other lines are dropped.
//   - Lists are normalized to uppercase.

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/wordle/apps/go-wordle/assets"
)

// WordLength is the length of every word in the shipped lists.
const WordLength = 5

// ErrEmptyAnswers is returned when no usable answer survives loading.
var ErrEmptyAnswers = errors.New("words: answers list is empty")

// Lists holds the loaded answer and allowed-guess lists.
type Lists struct {
	answers    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{} // answers ∪ guesses
}

// LoadLists loads word lists from files, or the embedded defaults when no path is set.
func LoadLists(answersPath, allowedPath string) (*Lists, error) {
	var ansList, allowList []string
	var err error

	switch {
	case answersPath != "" && allowedPath != "":
		if ansList, err = readWordFile(answersPath); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(allowedPath); err != nil {
			return nil, err
		}

	case answersPath == "" && allowedPath != "":
		if allowList, err = readWordFile(allowedPath); err != nil {
			return nil, err
		}
		ansList = allowList

	default:
		raw, err := assets.AnswersList()
		if err != nil {
			return nil, err
		}
		ansList = filterWords(raw)
		raw, err = assets.AllowedList()
		if err != nil {
			return nil, err
		}
		allowList = filterWords(raw)
	}

	return NewLists(ansList, allowList)
}

// NewLists builds Lists from in-memory slices. Answers are always allowed.
func NewLists(answers, allowed []string) (*Lists, error) {
	ans := filterWords(answers)
	if len(ans) == 0 {
		return nil, ErrEmptyAnswers
	}
	l := &Lists{
		answers:    ans,
		answersSet: toSet(ans),
		allowedSet: toSet(ans),
	}
	for _, w := range filterWords(allowed) {
		l.allowedSet[w] = struct{}{}
	}
	return l, nil
}

// readWordFile loads one word per line from a file,
// uppercases, trims, and keeps only valid words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return filterWords(out), sc.Err()
}

// filterWords normalizes and keeps only WordLength alphabetic words.
func filterWords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, line := range in {
		w := Normalize(line)
		if IsWellFormed(w) {
			out = append(out, w)
		}
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// Normalize trims and uppercases a word.
func Normalize(w string) string { return strings.ToUpper(strings.TrimSpace(w)) }

// IsWellFormed reports whether w is exactly WordLength uppercase ASCII letters.
func IsWellFormed(w string) bool {
	if len(w) != WordLength {
		return false
	}
	for _, r := range w {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Random returns a cryptographically random answer.
func (l *Lists) Random() string { return pick(l.answers) }

// Answers returns a copy of the answer list.
func (l *Lists) Answers() []string { return append([]string(nil), l.answers...) }

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (l *Lists) IsAllowed(w string) bool {
	_, ok := l.allowedSet[Normalize(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *Lists) IsAnswer(w string) bool {
	_, ok := l.answersSet[Normalize(w)]
	return ok
}

// IsValid implements Validator against the local lists.
func (l *Lists) IsValid(_ context.Context, w string) (bool, error) {
	return l.IsAllowed(w), nil
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *Lists) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowedSet)
}

// pick returns a crypto-random element; list must be non-empty.
func pick(list []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return list[0]
	}
	return list[n.Int64()]
}
