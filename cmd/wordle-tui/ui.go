package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/stats"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/words"
)

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleCorrect = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack).Bold(true)
	stylePresent = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack).Bold(true)
	styleAbsent  = tcell.StyleDefault.Background(tcell.ColorDimGray).Foreground(tcell.ColorWhite)
	styleEmpty   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

func markStyle(m game.Mark) tcell.Style {
	switch m {
	case game.MarkCorrect:
		return styleCorrect
	case game.MarkPresent:
		return stylePresent
	case game.MarkAbsent:
		return styleAbsent
	}
	return styleEmpty
}

// App is the terminal client: one local player, one match at a time.
type App struct {
	ctx         context.Context
	screen      tcell.Screen
	picker      *words.Chain
	validator   words.Validator
	stats       stats.Store
	player      string
	maxAttempts int

	game    *game.Session
	input   []rune
	message string
	isError bool
}

// NewMatch starts a match with a secret from the picker.
func (a *App) NewMatch() error {
	secret, fallback := a.picker.Pick(a.ctx)
	if fallback {
		log.Info().Msg("offline word pick")
	}
	return a.newMatchWith(secret)
}

func (a *App) newMatchWith(secret string) error {
	g, err := game.NewSession(secret, game.WithMaxAttempts(a.maxAttempts))
	if err != nil {
		return err
	}
	g.Subscribe(a.onResult)
	a.game = g
	a.input = a.input[:0]
	a.setMessage("New game. Type a word and press Enter.", false)
	return nil
}

// onResult records finished matches.
func (a *App) onResult(res game.Result) {
	if !res.Status.Terminal() {
		return
	}
	if err := a.stats.Record(a.ctx, a.player, res.Status); err != nil {
		log.Warn().Err(err).Msg("record stats")
	}
	answer, _ := a.game.Secret()
	if res.Status == game.StatusWon {
		a.setMessage(fmt.Sprintf("Solved in %d! Ctrl+N for a new game.", res.Attempt.Row+1), false)
	} else {
		a.setMessage(fmt.Sprintf("Out of guesses. The word was %s. Ctrl+N for a new game.", answer), false)
	}
}

func (a *App) setMessage(msg string, isErr bool) {
	a.message, a.isError = msg, isErr
}

// HandleKey applies one key press. It returns false when the app should quit.
func (a *App) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyCtrlN:
		if err := a.NewMatch(); err != nil {
			a.setMessage(err.Error(), true)
		}
	case tcell.KeyEnter:
		a.submit()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.input); n > 0 {
			a.input = a.input[:n-1]
		}
	case tcell.KeyRune:
		r := ev.Rune()
		if a.game.Status().Terminal() || len(a.input) >= a.game.WordLength() {
			break
		}
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			a.input = append(a.input, r)
		}
	}
	return true
}

func (a *App) submit() {
	guess, err := a.game.Validate(string(a.input))
	switch {
	case errors.Is(err, game.ErrSessionTerminated):
		a.setMessage("Game over. Ctrl+N for a new game.", true)
		return
	case errors.Is(err, game.ErrInvalidLength):
		a.setMessage("Not enough letters.", true)
		return
	case err != nil:
		a.setMessage(err.Error(), true)
		return
	}

	ok, err := a.validator.IsValid(a.ctx, guess)
	if err != nil {
		a.setMessage("Dictionary unavailable, try again.", true)
		return
	}
	if !ok {
		a.setMessage("Not a valid English word!", true)
		return
	}

	res, err := a.game.SubmitGuess(guess)
	if err != nil {
		a.setMessage(err.Error(), true)
		return
	}
	a.input = a.input[:0]
	if res.Status == game.StatusInProgress {
		a.setMessage(fmt.Sprintf("%d guesses left.", a.game.Remaining()), false)
	}
}

// Draw renders the grid, keyboard, status line and stats.
func (a *App) Draw() {
	s := a.screen
	s.Clear()
	drawText(s, 2, 0, styleTitle, "WORDLE")

	attempts := a.game.Attempts()
	n := a.game.WordLength()
	y := 2
	for row := 0; row < a.game.MaxAttempts(); row++ {
		for col := 0; col < n; col++ {
			ch, st := ' ', styleEmpty
			switch {
			case row < len(attempts):
				ch = []rune(attempts[row].Guess)[col]
				st = markStyle(attempts[row].Marks[col])
			case row == len(attempts) && col < len(a.input):
				ch = toUpper(a.input[col])
			}
			drawTile(s, 2+col*4, y, ch, st)
		}
		y += 2
	}

	y++
	kb := a.game.Keyboard()
	for i, line := range keyboardRows {
		x := 2 + i*2
		for _, k := range line {
			st := styleDefault
			if m := kb[k]; m != game.MarkUnknown {
				st = markStyle(m)
			}
			drawTile(s, x, y, k, st)
			x += 4
		}
		y += 2
	}

	msgStyle := styleDefault
	if a.isError {
		msgStyle = styleError
	}
	drawText(s, 2, y, msgStyle, a.message)
	y += 2

	if st, err := a.stats.Read(a.ctx, a.player); err == nil {
		drawText(s, 2, y, styleDefault, fmt.Sprintf("Played %d  Win %d%%  Streak %d  Best %d",
			st.Played, st.WinRate(), st.CurrentStreak, st.BestStreak))
	}
	drawText(s, 2, y+1, styleDefault, "Enter submit · Backspace delete · Ctrl+N new game · Esc quit")
	s.Show()
}

// Run polls events until the user quits or ctx is cancelled.
func (a *App) Run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	a.Draw()
	for {
		select {
		case <-a.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.HandleKey(ev) {
					return
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}
			a.Draw()
		}
	}
}

func drawTile(s tcell.Screen, x, y int, ch rune, st tcell.Style) {
	s.SetContent(x, y, ' ', nil, st)
	s.SetContent(x+1, y, ch, nil, st)
	s.SetContent(x+2, y, ' ', nil, st)
}

func drawText(s tcell.Screen, x, y int, st tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}

func toUpper(r rune) rune { return []rune(strings.ToUpper(string(r)))[0] }
