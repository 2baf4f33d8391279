package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	// When: a session is created with a lowercase, padded secret
	s, err := NewSession("  robot ")

	// Then: it starts in progress with no attempts
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, StatusInProgress, s.Status())
	assert.Equal(t, 0, s.Row())
	assert.Equal(t, 5, s.WordLength())
	assert.Equal(t, DefaultMaxAttempts, s.MaxAttempts())
	assert.Equal(t, DefaultMaxAttempts, s.Remaining())
	assert.Empty(t, s.Attempts())
	assert.Empty(t, s.Keyboard())

	secret, ok := s.Secret()
	assert.False(t, ok)
	assert.Empty(t, secret)
}

func TestNewSession_InvalidSecret(t *testing.T) {
	for _, secret := range []string{"", "   ", "R0BOT", "ro-bot"} {
		_, err := NewSession(secret)
		assert.ErrorIs(t, err, ErrInvalidSecret, secret)
	}
}

func TestNewSession_Options(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s, err := NewSession("PLANT", WithID("abc"), WithMaxAttempts(3), WithClock(func() time.Time { return at }))

	require.NoError(t, err)
	assert.Equal(t, "abc", s.ID())
	assert.Equal(t, 3, s.MaxAttempts())
	assert.Equal(t, at, s.CreatedAt())
}

func TestSession_WinOnFirstGuess(t *testing.T) {
	s, err := NewSession("ROBOT")
	require.NoError(t, err)

	// When: the secret is guessed immediately
	res, err := s.SubmitGuess("robot")

	// Then: all tiles are correct and the game is won
	require.NoError(t, err)
	assert.Equal(t, StatusWon, res.Status)
	assert.Equal(t, 0, res.Attempt.Row)
	assert.Equal(t, "ROBOT", res.Attempt.Guess)
	assert.Equal(t, []Mark{MarkCorrect, MarkCorrect, MarkCorrect, MarkCorrect, MarkCorrect}, res.Attempt.Marks)
	assert.Len(t, s.Attempts(), 1)
	assert.Equal(t, 0, s.Remaining())

	secret, ok := s.Secret()
	assert.True(t, ok)
	assert.Equal(t, "ROBOT", secret)
}

func TestSession_LoseAfterMaxAttempts(t *testing.T) {
	s, err := NewSession("PLANT")
	require.NoError(t, err)

	guesses := []string{"MOUSE", "CHAIR", "LIGHT", "BRAVE", "HOUSE", "CLOUD"}
	for i, g := range guesses {
		res, err := s.SubmitGuess(g)
		require.NoError(t, err)
		if i < len(guesses)-1 {
			assert.Equal(t, StatusInProgress, res.Status, "after guess %d", i+1)
		} else {
			assert.Equal(t, StatusLost, res.Status)
		}
	}

	assert.Equal(t, 6, s.Row())
	secret, ok := s.Secret()
	assert.True(t, ok)
	assert.Equal(t, "PLANT", secret)
}

func TestSession_WinOnLastAttemptPreemptsLoss(t *testing.T) {
	s, err := NewSession("PLANT", WithMaxAttempts(2))
	require.NoError(t, err)

	_, err = s.SubmitGuess("MOUSE")
	require.NoError(t, err)
	res, err := s.SubmitGuess("PLANT")

	require.NoError(t, err)
	assert.Equal(t, StatusWon, res.Status)
}

func TestSession_RejectsAfterTerminal(t *testing.T) {
	s, err := NewSession("ROBOT")
	require.NoError(t, err)
	_, err = s.SubmitGuess("ROBOT")
	require.NoError(t, err)

	// When: another guess arrives after the win
	res, err := s.SubmitGuess("PLANT")

	// Then: it is rejected and nothing is appended
	require.ErrorIs(t, err, ErrSessionTerminated)
	assert.Equal(t, StatusWon, res.Status)
	assert.Len(t, s.Attempts(), 1)
}

func TestSession_StructuralErrorsLeaveStateUnchanged(t *testing.T) {
	s, err := NewSession("PLANT")
	require.NoError(t, err)
	_, err = s.SubmitGuess("MOUSE")
	require.NoError(t, err)
	before := s.Keyboard()

	_, err = s.SubmitGuess("TOOLONG")
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = s.SubmitGuess("ABC")
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = s.SubmitGuess("AB3DE")
	assert.ErrorIs(t, err, ErrInvalidCharacters)

	assert.Equal(t, 1, s.Row())
	assert.Equal(t, StatusInProgress, s.Status())
	assert.Equal(t, before, s.Keyboard())
}

func TestSession_KeyboardAcrossAttempts(t *testing.T) {
	s, err := NewSession("APPLE")
	require.NoError(t, err)

	_, err = s.SubmitGuess("PAPAL")
	require.NoError(t, err)
	_, err = s.SubmitGuess("SPEAR")
	require.NoError(t, err)

	kb := s.Keyboard()
	assert.Equal(t, MarkCorrect, kb['P'])
	assert.Equal(t, MarkPresent, kb['A'])
	assert.Equal(t, MarkPresent, kb['E'])
	assert.Equal(t, MarkAbsent, kb['S'])
	assert.Equal(t, MarkAbsent, kb['R'])
}

func TestSession_AccessorsReturnCopies(t *testing.T) {
	s, err := NewSession("APPLE")
	require.NoError(t, err)
	_, err = s.SubmitGuess("PAPAL")
	require.NoError(t, err)

	attempts := s.Attempts()
	attempts[0].Marks[0] = MarkCorrect
	kb := s.Keyboard()
	kb['Z'] = MarkCorrect

	assert.Equal(t, MarkPresent, s.Attempts()[0].Marks[0])
	assert.NotContains(t, s.Keyboard(), 'Z')
}

func TestSession_Subscribe(t *testing.T) {
	s, err := NewSession("ROBOT")
	require.NoError(t, err)

	var got []Result
	s.Subscribe(func(r Result) { got = append(got, r) })

	_, err = s.SubmitGuess("ABOUT")
	require.NoError(t, err)
	_, err = s.SubmitGuess("ABC")
	require.Error(t, err)
	_, err = s.SubmitGuess("ROBOT")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, StatusInProgress, got[0].Status)
	assert.Equal(t, StatusWon, got[1].Status)
	assert.Equal(t, 1, got[1].Attempt.Row)
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s, err := NewSession("APPLE", WithID("g1"), WithMaxAttempts(4))
	require.NoError(t, err)
	_, err = s.SubmitGuess("PAPAL")
	require.NoError(t, err)

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Session
	require.NoError(t, json.Unmarshal(b, &restored))

	assert.Equal(t, "g1", restored.ID())
	assert.Equal(t, 4, restored.MaxAttempts())
	assert.Equal(t, s.Attempts(), restored.Attempts())
	assert.Equal(t, s.Keyboard(), restored.Keyboard())
	assert.Equal(t, StatusInProgress, restored.Status())

	// The restored session keeps playing from where it left off.
	res, err := restored.SubmitGuess("APPLE")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempt.Row)
	assert.Equal(t, StatusWon, res.Status)
}

func TestSession_UnmarshalRejectsBadSecret(t *testing.T) {
	var s Session
	err := json.Unmarshal([]byte(`{"id":"x","secret":"","attempts":[]}`), &s)
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestSession_UnmarshalRejectsCorruptState(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"unknown status", `{"id":"x","secret":"APPLE","maxAttempts":6,"status":"paused","attempts":[]}`},
		{"too many attempts", `{"id":"x","secret":"APPLE","maxAttempts":1,"status":"in_progress","attempts":[
			{"row":0,"guess":"CRANE","marks":["absent","absent","present","absent","correct"]},
			{"row":1,"guess":"HOUSE","marks":["absent","absent","absent","absent","correct"]}]}`},
		{"short guess", `{"id":"x","secret":"APPLE","maxAttempts":6,"status":"in_progress","attempts":[
			{"row":0,"guess":"CRAN","marks":["absent","absent","present","absent"]}]}`},
		{"missing marks", `{"id":"x","secret":"APPLE","maxAttempts":6,"status":"in_progress","attempts":[
			{"row":0,"guess":"CRANE","marks":[]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			err := json.Unmarshal([]byte(tt.blob), &s)
			assert.ErrorIs(t, err, ErrCorruptSession)
		})
	}
}

func TestSession_Validate(t *testing.T) {
	s, err := NewSession("PLANT")
	require.NoError(t, err)

	guess, err := s.Validate(" mouse ")
	require.NoError(t, err)
	assert.Equal(t, "MOUSE", guess)
	assert.Equal(t, 0, s.Row())

	_, err = s.Validate("MOU")
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = s.SubmitGuess("PLANT")
	require.NoError(t, err)
	_, err = s.Validate("MOUSE")
	assert.ErrorIs(t, err, ErrSessionTerminated)
}
