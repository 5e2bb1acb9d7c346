// internal/results/store.go
//
// Ledger of finished games.
// Exposes:
//   - Record:        persist one won/lost game.
//   - AlreadyPlayed: whether a player has a daily-mode result for a date.
//   - Stats:         games played, wins and current win streak for a player.
//   - Leaderboard:   fewest-guess daily-mode wins for a date.
//
// Rows live in the results table created by the db package migrations.
// A player keeps only the first daily-mode result per UTC date; a unique
// index enforces it and Record silently skips the rest.
package results

import (
	"context"
	"database/sql"
	"time"
)

// Result is one finished game.
type Result struct {
	Player     string    `json:"player"`
	Target     string    `json:"target"`
	Outcome    string    `json:"outcome"` // won | lost
	Guesses    int       `json:"guesses"`
	Mode       string    `json:"mode"` // random | daily
	FinishedAt time.Time `json:"finishedAt"`
}

// Stats summarizes a player's history.
type Stats struct {
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
	Streak      int `json:"streak"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Player  string `json:"player"`
	Guesses int    `json:"guesses"`
}

// Target modes stored with each result.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
)

// timeLayout is fixed-width so finished_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Store reads and writes the results table.
type Store struct{ db *sql.DB }

// NewStore returns a Store over an already migrated db.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts a finished game. A zero FinishedAt means now and an empty
// Mode means ModeRandom. A second daily result for the same player and date
// is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	if r.Mode == "" {
		r.Mode = ModeRandom
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO results (player, target, outcome, guesses, mode, finished_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT DO NOTHING`,
		r.Player, r.Target, r.Outcome, r.Guesses, r.Mode, r.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

// AlreadyPlayed reports whether player finished a daily-mode game on date
// (YYYY-MM-DD).
func (s *Store) AlreadyPlayed(ctx context.Context, player, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1) FROM results
        WHERE player=? AND mode='daily' AND substr(finished_at, 1, 10)=?`,
		player, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// Stats counts games and wins; the streak is the run of wins ending at the
// most recent game.
func (s *Store) Stats(ctx context.Context, player string) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT outcome FROM results
        WHERE player=?
        ORDER BY finished_at DESC, id DESC`, player,
	)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	var st Stats
	streakOpen := true
	for rows.Next() {
		var outcome string
		if err := rows.Scan(&outcome); err != nil {
			return Stats{}, err
		}
		st.GamesPlayed++
		won := outcome == "won"
		if won {
			st.Wins++
		}
		if streakOpen && won {
			st.Streak++
		} else {
			streakOpen = false
		}
	}
	return st, rows.Err()
}

// Leaderboard returns daily-mode wins for date (YYYY-MM-DD), fewest guesses
// first, earliest finish breaking ties. Default limit is 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player, guesses
        FROM results
        WHERE mode='daily' AND outcome='won' AND substr(finished_at, 1, 10)=?
        ORDER BY guesses ASC, finished_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Player, &r.Guesses); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
