package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordle/apps/go-wordle/internal/game"
)

// SQLiteStore keeps stats in the player_stats table.
type SQLiteStore struct{ db *sql.DB }

// NewSQLiteStore wraps a migrated database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

// Record implements Store with a read-modify-write inside one transaction.
func (s *SQLiteStore) Record(ctx context.Context, playerID string, outcome game.Status) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := readStats(ctx, tx, playerID)
	if err != nil {
		return err
	}
	next, err := cur.Apply(outcome)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO player_stats (player_id, played, wins, current_streak, best_streak, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET
            played=excluded.played,
            wins=excluded.wins,
            current_streak=excluded.current_streak,
            best_streak=excluded.best_streak,
            updated_at=excluded.updated_at`,
		playerID, next.Played, next.Wins, next.CurrentStreak, next.BestStreak,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	return tx.Commit()
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, playerID string) (Stats, error) {
	return readStats(ctx, s.db, playerID)
}

// Reassign moves stats from one player id to another when the target has none.
// Used when an anonymous player signs up.
func (s *SQLiteStore) Reassign(ctx context.Context, fromID, toID string) error {
	_, err := s.db.ExecContext(ctx, `
        UPDATE player_stats SET player_id=?
        WHERE player_id=? AND NOT EXISTS (SELECT 1 FROM player_stats WHERE player_id=?)`,
		toID, fromID, toID)
	return err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readStats(ctx context.Context, q queryer, playerID string) (Stats, error) {
	var st Stats
	err := q.QueryRowContext(ctx,
		`SELECT played, wins, current_streak, best_streak FROM player_stats WHERE player_id=?`,
		playerID,
	).Scan(&st.Played, &st.Wins, &st.CurrentStreak, &st.BestStreak)
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("read stats: %w", err)
	}
	return st, nil
}
