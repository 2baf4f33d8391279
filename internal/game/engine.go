// internal/game/engine.go
//
// Game session state machine for a single Wordle match.
// Responsibilities:
//   - Construct sessions explicitly (no package-level game state).
//   - Guard guesses structurally (terminal state, length, letters).
//   - Score guesses with Evaluate and fold the marks into the keyboard.
//   - Track transitions: in_progress → won/lost, exactly once.
//   - Notify listeners with every accepted Result.
//
// Notes:
//   - Dictionary validation is the caller's job; the session only checks structure.
//   - A Session is not safe for concurrent use. Callers serialize SubmitGuess.
package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxAttempts is the number of rows on a standard board.
const DefaultMaxAttempts = 6

// Listener receives every Result accepted by a session.
type Listener func(Result)

// Session holds the state of a single match.
type Session struct {
	id          string
	secret      string
	maxAttempts int
	attempts    []Attempt
	keyboard    Keyboard
	status      Status
	createdAt   time.Time
	listeners   []Listener
}

// Option customizes a Session at construction time.
type Option func(*Session)

// WithMaxAttempts overrides the number of allowed guesses. Values < 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithID sets an explicit session identifier instead of a random UUID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.createdAt = now().UTC() }
}

// NewSession starts a match for secret. The secret is trimmed and uppercased
// and must consist of letters only.
func NewSession(secret string, opts ...Option) (*Session, error) {
	secret = normalize(secret)
	if secret == "" || !isAlpha(secret) {
		return nil, ErrInvalidSecret
	}
	s := &Session{
		id:          uuid.NewString(),
		secret:      secret,
		maxAttempts: DefaultMaxAttempts,
		attempts:    []Attempt{},
		keyboard:    Keyboard{},
		status:      StatusInProgress,
		createdAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitGuess validates and scores a guess, mutating the session.
//
// Validation rules (all failures leave the session untouched):
//   - Session must be in progress, else ErrSessionTerminated.
//   - Guess must have WordLength() letters, else ErrInvalidLength.
//   - Guess must be alphabetic, else ErrInvalidCharacters.
//
// State transitions:
//   - Guess equals the secret → won.
//   - Else if the number of attempts reaches MaxAttempts → lost.
func (s *Session) SubmitGuess(candidate string) (Result, error) {
	guess, err := s.Validate(candidate)
	if err != nil {
		return Result{Status: s.status}, err
	}

	marks, err := Evaluate(guess, s.secret)
	if err != nil {
		return Result{Status: s.status}, err
	}

	a := Attempt{Row: len(s.attempts), Guess: guess, Marks: marks}
	s.attempts = append(s.attempts, a)
	s.keyboard.Fold(a)

	if allCorrect(marks) {
		s.status = StatusWon
	} else if len(s.attempts) >= s.maxAttempts {
		s.status = StatusLost
	}

	res := Result{Attempt: cloneAttempt(a), Status: s.status}
	for _, l := range s.listeners {
		l(res)
	}
	return res, nil
}

// Validate runs the structural checks of SubmitGuess without mutating the
// session and returns the normalized guess. The HTTP layer runs it before
// the dictionary lookup.
func (s *Session) Validate(candidate string) (string, error) {
	if s.status.Terminal() {
		return "", ErrSessionTerminated
	}
	guess := normalize(candidate)
	if len([]rune(guess)) != s.WordLength() {
		return "", ErrInvalidLength
	}
	if !isAlpha(guess) {
		return "", ErrInvalidCharacters
	}
	return guess, nil
}

// Subscribe registers a listener for accepted guesses.
// Listeners are not persisted with the session.
func (s *Session) Subscribe(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Status() Status       { return s.status }
func (s *Session) MaxAttempts() int     { return s.maxAttempts }
func (s *Session) WordLength() int      { return len([]rune(s.secret)) }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Row is the index of the next row to fill (the number of attempts so far).
func (s *Session) Row() int { return len(s.attempts) }

// Remaining is the number of guesses left.
func (s *Session) Remaining() int {
	if s.status.Terminal() {
		return 0
	}
	return s.maxAttempts - len(s.attempts)
}

// Attempts returns a copy of the attempt history.
func (s *Session) Attempts() []Attempt {
	out := make([]Attempt, len(s.attempts))
	for i, a := range s.attempts {
		out[i] = cloneAttempt(a)
	}
	return out
}

// Keyboard returns a snapshot of the per-letter keyboard state.
func (s *Session) Keyboard() Keyboard { return s.keyboard.Clone() }

// Secret reveals the answer, but only once the session is over.
func (s *Session) Secret() (string, bool) {
	if !s.status.Terminal() {
		return "", false
	}
	return s.secret, true
}

// sessionJSON is the persisted shape of a Session.
type sessionJSON struct {
	ID          string    `json:"id"`
	Secret      string    `json:"secret"`
	MaxAttempts int       `json:"maxAttempts"`
	Attempts    []Attempt `json:"attempts"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MarshalJSON encodes the full session state, secret included, for storage.
// Never send this encoding to players.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		ID:          s.id,
		Secret:      s.secret,
		MaxAttempts: s.maxAttempts,
		Attempts:    s.attempts,
		Status:      s.status,
		CreatedAt:   s.createdAt,
	})
}

// UnmarshalJSON restores a session and rebuilds its keyboard from the attempts.
func (s *Session) UnmarshalJSON(b []byte) error {
	var v sessionJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v.Secret == "" || !isAlpha(v.Secret) {
		return ErrInvalidSecret
	}
	if v.MaxAttempts < 1 {
		v.MaxAttempts = DefaultMaxAttempts
	}
	if v.Status == "" {
		v.Status = StatusInProgress
	}
	if !v.Status.Known() {
		return fmt.Errorf("%w: status %q", ErrCorruptSession, v.Status)
	}
	if len(v.Attempts) > v.MaxAttempts {
		return fmt.Errorf("%w: %d attempts on a %d-row board", ErrCorruptSession, len(v.Attempts), v.MaxAttempts)
	}
	if v.Attempts == nil {
		v.Attempts = []Attempt{}
	}
	n := len([]rune(v.Secret))
	for i, a := range v.Attempts {
		if len([]rune(a.Guess)) != n || len(a.Marks) != n {
			return fmt.Errorf("%w: attempt %d does not fit the secret", ErrCorruptSession, i)
		}
		v.Attempts[i].Row = i
	}
	kb := Keyboard{}
	for _, a := range v.Attempts {
		kb.Fold(a)
	}
	*s = Session{
		id:          v.ID,
		secret:      v.Secret,
		maxAttempts: v.MaxAttempts,
		attempts:    v.Attempts,
		keyboard:    kb,
		status:      v.Status,
		createdAt:   v.CreatedAt,
	}
	return nil
}

func cloneAttempt(a Attempt) Attempt {
	a.Marks = append([]Mark(nil), a.Marks...)
	return a
}

// normalize trims and uppercases player input.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// isAlpha checks that a string consists only of uppercase A–Z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
