package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/stats"
)

func (s *Server) mountStats(r chi.Router) {
	r.Get("/stats/me", s.handleMyStats)
}

type statsRes struct {
	stats.Stats
	WinRate int `json:"winRate"`
}

// handleMyStats returns stats for the logged-in user or the anonymous player.
func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	id := s.playerID(w, r)
	st, err := s.stats.Read(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("player", id).Msg("read stats")
		writeError(w, http.StatusInternalServerError, "stats_unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, statsRes{Stats: st, WinRate: st.WinRate()})
}
