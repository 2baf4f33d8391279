// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can play once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play; the result is persisted once
// the game is won or lost.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/daily"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // keyed by playerID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession is an in-progress daily game.
type dailySession struct {
	game      *game.Session
	date      string
	wordIndex int
	start     time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.Daily.Salt,
		sessions: make(map[string]*dailySession),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

func (d *dailyServer) puzzle() daily.Puzzle {
	return daily.PuzzleFor(d.srv.now(), d.salt, d.srv.lists.Answers())
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID      string `json:"gameId"`
	Date        string `json:"date"`
	Played      bool   `json:"played"`
	WordLength  int    `json:"wordLength,omitempty"`
	MaxAttempts int    `json:"maxAttempts,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
// A player with a stored result for today gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.playerID(w, r)
	p := d.puzzle()
	if p.Answer == "" {
		writeError(w, http.StatusServiceUnavailable, "no_answers", "")
		return
	}

	played, err := d.store.AlreadyPlayed(r.Context(), uid, p.Date)
	if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: p.Date, Played: true})
		return
	}

	key := uid + "|" + p.Date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(p.Date)
	sess, ok := d.sessions[key]
	if !ok {
		g, err := game.NewSession(p.Answer, game.WithMaxAttempts(d.srv.cfg.Game.MaxAttempts))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "invalid_answer", err.Error())
			return
		}
		sess = &dailySession{game: g, date: p.Date, wordIndex: p.WordIndex, start: d.srv.now()}
		d.sessions[key] = sess
	}
	writeJSON(w, http.StatusOK, dailyNewRes{
		GameID:      sess.game.ID(),
		Date:        p.Date,
		WordLength:  sess.game.WordLength(),
		MaxAttempts: sess.game.MaxAttempts(),
	})
}

// pruneLocked drops abandoned sessions from earlier days. Callers hold d.mu.
func (d *dailyServer) pruneLocked(today string) {
	for k, sess := range d.sessions {
		if sess.date != today {
			delete(d.sessions, k)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

type dailyGuessRes struct {
	Marks    []game.Mark          `json:"marks"`
	State    string               `json:"state"` // in_progress | won | lost | locked
	Guesses  int                  `json:"guesses"`
	Keyboard map[string]game.Mark `json:"keyboard,omitempty"`
	Answer   string               `json:"answer,omitempty"`
}

// handleGuess validates and applies a guess for today's daily session and
// stores the result once the game ends.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	date := daily.DateKey(d.srv.now())

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.game.ID() != p.GameID {
		writeError(w, http.StatusConflict, "no_session", "Start today's game first.")
		return
	}

	if !d.srv.inflight.acquire(p.GameID) {
		writeError(w, http.StatusConflict, "guess_in_flight", "A guess for this game is already being processed.")
		return
	}
	defer d.srv.inflight.release(p.GameID)

	g := sess.game
	if g.Status().Terminal() {
		writeJSON(w, http.StatusOK, dailyGuessRes{Marks: []game.Mark{}, State: "locked", Guesses: g.Row()})
		return
	}

	guess, err := g.Validate(p.Word)
	if err != nil {
		writeGameError(w, err)
		return
	}
	valid, err := d.srv.validator.IsValid(r.Context(), guess)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "dictionary_unavailable", "")
		return
	}
	if !valid {
		writeError(w, http.StatusUnprocessableEntity, "not_a_word", "Not a valid English word!")
		return
	}

	res, err := g.SubmitGuess(guess)
	if err != nil {
		writeGameError(w, err)
		return
	}

	out := dailyGuessRes{
		Marks:    res.Attempt.Marks,
		State:    string(res.Status),
		Guesses:  g.Row(),
		Keyboard: g.Keyboard().Strings(),
	}
	if res.Status.Terminal() {
		elapsed := int(d.srv.now().Sub(sess.start).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:    uid,
			Date:      sess.date,
			WordIndex: sess.wordIndex,
			Won:       res.Status == game.StatusWon,
			Guesses:   g.Row(),
			ElapsedMs: elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("player", uid).Msg("insert daily result")
		}
		d.mu.Lock()
		delete(d.sessions, key)
		d.mu.Unlock()
		out.Answer, _ = g.Secret()
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
