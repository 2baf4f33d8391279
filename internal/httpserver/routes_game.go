// internal/httpserver/routes_game.go
//
// Free-play game endpoints:
//   - POST /game/new             → pick a secret, create a session
//   - POST /game/guess           → dictionary gate + SubmitGuess
//   - GET  /game/{id}            → read-only snapshot (answer only once over)
//   - GET  /game/{id}/definition → dictionary entry for the answer, once over
//
// Every game belongs to the account or guest cookie that created it; other
// callers get 404 as if the id did not exist.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/store"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/words"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Get("/game/{id}", s.handleGameState)
	r.Get("/game/{id}/definition", s.handleDefinition)
}

type newGameReq struct {
	Answer string `json:"answer"` // fixed answer, honored only when enabled in config
}

type newGameRes struct {
	GameID      string `json:"gameId"`
	WordLength  int    `json:"wordLength"`
	MaxAttempts int    `json:"maxAttempts"`
}

// handleNewGame picks a secret through the provider chain, records the owner
// row (user or anonymous) and stores the session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	secret := ""
	if s.cfg.Game.AllowFixedAnswer && req.Answer != "" {
		secret = req.Answer
	} else {
		var fallback bool
		secret, fallback = s.picker.Pick(r.Context())
		if fallback {
			log.Info().Msg("new game uses fallback word")
		}
	}

	g, err := game.NewSession(secret, game.WithMaxAttempts(s.cfg.Game.MaxAttempts))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_answer", err.Error())
		return
	}
	now := s.now().UTC().Format(time.RFC3339)
	if me := userFrom(r); me != nil {
		_, err = s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, started_at, status, guesses)
		                     VALUES (?,?,?,?,0)`, g.ID(), me.ID, now, string(game.StatusInProgress))
	} else {
		_, err = s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, started_at, status, guesses)
		                     VALUES (?,?,?,?,0)`, g.ID(), s.ensureAnonID(w, r), now, string(game.StatusInProgress))
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID()).Msg("insert game row")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	if err := s.sessions.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID(), WordLength: g.WordLength(), MaxAttempts: g.MaxAttempts()})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Row       int                  `json:"row"`
	Marks     []game.Mark          `json:"marks"`
	State     game.Status          `json:"state"`
	Remaining int                  `json:"remaining"`
	Keyboard  map[string]game.Mark `json:"keyboard"`
	Answer    string               `json:"answer,omitempty"` // revealed once the game is over
}

// handleGuess gates the guess through the dictionary, applies it, persists
// progress and, on a finished game, records the player's stats.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if !s.inflight.acquire(req.GameID) {
		writeError(w, http.StatusConflict, "guess_in_flight", "A guess for this game is already being processed.")
		return
	}
	defer s.inflight.release(req.GameID)

	g, ok := s.ownedGame(w, r, req.GameID)
	if !ok {
		return
	}

	guess, err := g.Validate(req.Guess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	valid, err := s.validator.IsValid(r.Context(), guess)
	if err != nil {
		log.Warn().Err(err).Msg("dictionary lookup")
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
	if err := s.sessions.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}

	playerID := s.playerID(w, r)
	s.persistProgress(r, g.ID(), res.Status, playerID)
	if res.Status.Terminal() {
		if err := s.stats.Record(r.Context(), playerID, res.Status); err != nil {
			log.Warn().Err(err).Str("player", playerID).Msg("record stats")
		}
	}

	out := guessRes{
		Row:       res.Attempt.Row,
		Marks:     res.Attempt.Marks,
		State:     res.Status,
		Remaining: g.Remaining(),
		Keyboard:  g.Keyboard().Strings(),
	}
	out.Answer, _ = g.Secret()
	writeJSON(w, http.StatusOK, out)
}

// persistProgress bumps the guess counter and closes finished games (best effort).
func (s *Server) persistProgress(r *http.Request, gameID string, state game.Status, playerID string) {
	ownerClause := `anonymous_id=?`
	if userFrom(r) != nil {
		ownerClause = `user_id=?`
	}

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin progress tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+ownerClause, gameID, playerID); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}
	if state.Terminal() {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			string(state), s.now().UTC().Format(time.RFC3339), gameID, playerID); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit progress")
	}
}

// ownedGame loads a session the caller owns. Unknown ids and games owned by
// someone else both answer 404.
func (s *Server) ownedGame(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	ownerClause, ownerArg := `user_id=?`, ""
	if me := userFrom(r); me != nil {
		ownerArg = me.ID
	} else if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		ownerClause, ownerArg = `anonymous_id=?`, c.Value
	} else {
		writeGameError(w, store.ErrNotFound)
		return nil, false
	}

	var one int
	err := s.db.QueryRowContext(r.Context(), `SELECT 1 FROM games WHERE id=? AND `+ownerClause, id, ownerArg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		writeGameError(w, store.ErrNotFound)
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Msg("game owner lookup")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return nil, false
	}

	g, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeGameError(w, err)
		return nil, false
	}
	return g, true
}

type gameStateRes struct {
	GameID      string               `json:"gameId"`
	State       game.Status          `json:"state"`
	Row         int                  `json:"row"`
	WordLength  int                  `json:"wordLength"`
	MaxAttempts int                  `json:"maxAttempts"`
	Attempts    []game.Attempt       `json:"attempts"`
	Keyboard    map[string]game.Mark `json:"keyboard"`
	Answer      string               `json:"answer,omitempty"`
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	out := gameStateRes{
		GameID:      g.ID(),
		State:       g.Status(),
		Row:         g.Row(),
		WordLength:  g.WordLength(),
		MaxAttempts: g.MaxAttempts(),
		Attempts:    g.Attempts(),
		Keyboard:    g.Keyboard().Strings(),
	}
	out.Answer, _ = g.Secret()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDefinition(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	answer, over := g.Secret()
	if !over {
		writeError(w, http.StatusConflict, "game_in_progress", "Definitions are shown once the game is over.")
		return
	}
	if s.definer == nil {
		writeError(w, http.StatusNotFound, "definitions_disabled", "")
		return
	}
	def, err := s.definer.Define(r.Context(), answer)
	if errors.Is(err, words.ErrNoDefinition) {
		writeError(w, http.StatusNotFound, "no_definition", "")
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("define answer")
		writeError(w, http.StatusBadGateway, "dictionary_unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, def)
}
