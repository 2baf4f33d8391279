// internal/stats/stats.go
//
// Win/loss statistics per player.
// Responsibilities:
//   - Stats value and the pure Apply fold (played, wins, streaks).
//   - Store interface with memory, SQLite and Redis backends.
//
// Streak rules: a win extends the current streak, a loss resets it to 0,
// and the best streak is the maximum current streak ever reached.

package stats

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
)

// ErrNotTerminal is returned when recording a status that is not won/lost.
var ErrNotTerminal = errors.New("stats: outcome must be won or lost")

// Stats are a player's accumulated results.
type Stats struct {
	Played        int `json:"played"`
	Wins          int `json:"wins"`
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
}

// Apply returns s updated with one finished game.
func (s Stats) Apply(outcome game.Status) (Stats, error) {
	switch outcome {
	case game.StatusWon:
		s.Played++
		s.Wins++
		s.CurrentStreak++
	case game.StatusLost:
		s.Played++
		s.CurrentStreak = 0
	default:
		return s, ErrNotTerminal
	}
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}
	return s, nil
}

// WinRate is wins/played as a percentage, 0 when nothing was played.
func (s Stats) WinRate() int {
	if s.Played == 0 {
		return 0
	}
	return s.Wins * 100 / s.Played
}

// Store persists stats across sessions.
type Store interface {
	// Record folds one finished game into the player's stats.
	Record(ctx context.Context, playerID string, outcome game.Status) error

	// Read returns the player's stats; unknown players read as zero.
	Read(ctx context.Context, playerID string) (Stats, error)
}

// MemoryStore keeps stats in a map. State is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	stats map[string]Stats
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stats: make(map[string]Stats)}
}

// Record implements Store.
func (m *MemoryStore) Record(_ context.Context, playerID string, outcome game.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := m.stats[playerID].Apply(outcome)
	if err != nil {
		return err
	}
	m.stats[playerID] = next
	return nil
}

// Read implements Store.
func (m *MemoryStore) Read(_ context.Context, playerID string) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats[playerID], nil
}
