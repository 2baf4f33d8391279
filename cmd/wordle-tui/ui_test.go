package main

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/stats"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/words"
)

func newTestApp(t *testing.T, secret string) *App {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 40)
	t.Cleanup(screen.Fini)

	lists, err := words.NewLists([]string{"APPLE", "CRANE"}, []string{"HOUSE", "MOUSE", "LIGHT", "BRAVE", "CHAIR"})
	require.NoError(t, err)

	a := &App{
		ctx:         context.Background(),
		screen:      screen,
		picker:      &words.Chain{Providers: []words.Source{words.ListSource{Lists: lists}}},
		validator:   lists,
		stats:       stats.NewMemoryStore(),
		player:      localPlayer,
		maxAttempts: 6,
	}
	require.NoError(t, a.newMatchWith(secret))
	return a
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func typeWord(a *App, w string) {
	for _, r := range w {
		a.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestApp_TypingAndBackspace(t *testing.T) {
	a := newTestApp(t, "apple")

	typeWord(a, "cr4anex")
	assert.Equal(t, "crane", string(a.input), "digits dropped, extra letters ignored")

	a.HandleKey(key(tcell.KeyBackspace2))
	assert.Equal(t, "cran", string(a.input))

	a.HandleKey(key(tcell.KeyEnter))
	assert.Equal(t, 0, a.game.Row())
	assert.True(t, a.isError)
	assert.Equal(t, "Not enough letters.", a.message)
	a.Draw()
}

func TestApp_RejectsUnknownWord(t *testing.T) {
	a := newTestApp(t, "apple")

	typeWord(a, "zzzzz")
	a.HandleKey(key(tcell.KeyEnter))
	assert.Equal(t, 0, a.game.Row())
	assert.Equal(t, "Not a valid English word!", a.message)
	assert.Equal(t, "zzzzz", string(a.input), "input kept for editing")
}

func TestApp_WinRecordsStats(t *testing.T) {
	a := newTestApp(t, "apple")

	typeWord(a, "crane")
	a.HandleKey(key(tcell.KeyEnter))
	assert.Equal(t, 1, a.game.Row())
	assert.Empty(t, a.input)
	assert.Equal(t, "5 guesses left.", a.message)

	typeWord(a, "apple")
	a.HandleKey(key(tcell.KeyEnter))
	assert.Equal(t, game.StatusWon, a.game.Status())
	assert.Equal(t, "Solved in 2! Ctrl+N for a new game.", a.message)
	a.Draw()

	st, err := a.stats.Read(context.Background(), localPlayer)
	require.NoError(t, err)
	assert.Equal(t, stats.Stats{Played: 1, Wins: 1, CurrentStreak: 1, BestStreak: 1}, st)

	// Then: typing is ignored until a new match starts
	typeWord(a, "house")
	assert.Empty(t, a.input)

	a.HandleKey(key(tcell.KeyCtrlN))
	assert.Equal(t, game.StatusInProgress, a.game.Status())
	assert.Equal(t, 0, a.game.Row())
}

func TestApp_LossRevealsAnswer(t *testing.T) {
	a := newTestApp(t, "apple")

	for _, w := range []string{"crane", "house", "mouse", "light", "brave", "chair"} {
		typeWord(a, w)
		a.HandleKey(key(tcell.KeyEnter))
	}
	assert.Equal(t, game.StatusLost, a.game.Status())
	assert.Contains(t, a.message, "APPLE")

	st, err := a.stats.Read(context.Background(), localPlayer)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Played)
	assert.Equal(t, 0, st.Wins)
}

func TestApp_EscapeQuits(t *testing.T) {
	a := newTestApp(t, "apple")
	assert.True(t, a.HandleKey(key(tcell.KeyEnter)))
	assert.False(t, a.HandleKey(key(tcell.KeyEscape)))
}
