package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlemon/internal/db"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(sqlDB))
	return NewStore(sqlDB)
}

func TestStats(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	st, err := s.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)

	outcomes := []string{"won", "lost", "won", "won"}
	for i, o := range outcomes {
		require.NoError(t, s.Record(ctx, Result{
			Player: "p1", Target: "Vulpix", Outcome: o, Guesses: 3, FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.Record(ctx, Result{Player: "p2", Target: "Abra", Outcome: "lost", Guesses: 8, FinishedAt: base}))

	st, err = s.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, Stats{GamesPlayed: 4, Wins: 3, Streak: 2}, st)

	st, err = s.Stats(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, Stats{GamesPlayed: 1, Wins: 0, Streak: 0}, st)
}

func TestLeaderboard_DailyWinsOnly(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	rows := []Result{
		{Player: "slow", Outcome: "won", Guesses: 6, Mode: "daily", FinishedAt: day},
		{Player: "fast", Outcome: "won", Guesses: 2, Mode: "daily", FinishedAt: day.Add(time.Hour)},
		{Player: "loser", Outcome: "lost", Guesses: 8, Mode: "daily", FinishedAt: day},
		{Player: "random", Outcome: "won", Guesses: 1, Mode: "random", FinishedAt: day},
		{Player: "yesterday", Outcome: "won", Guesses: 1, Mode: "daily", FinishedAt: day.Add(-24 * time.Hour)},
	}
	for _, r := range rows {
		r.Target = "Vulpix"
		require.NoError(t, s.Record(ctx, r))
	}

	top, err := s.Leaderboard(ctx, "2026-03-01", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{{Player: "fast", Guesses: 2}, {Player: "slow", Guesses: 6}}, top)
}

func TestRecord_RejectsUnknownOutcome(t *testing.T) {
	s := newStore(t)
	err := s.Record(context.Background(), Result{Player: "p1", Target: "Vulpix", Outcome: "in_progress"})
	assert.Error(t, err)
}

func TestRecord_KeepsFirstDailyResultPerDay(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	played, err := s.AlreadyPlayed(ctx, "p1", "2026-03-01")
	require.NoError(t, err)
	assert.False(t, played)

	// lose, then replay the same target and win in one
	require.NoError(t, s.Record(ctx, Result{Player: "p1", Target: "Vulpix", Outcome: "lost", Guesses: 8, Mode: ModeDaily, FinishedAt: day}))
	require.NoError(t, s.Record(ctx, Result{Player: "p1", Target: "Vulpix", Outcome: "won", Guesses: 1, Mode: ModeDaily, FinishedAt: day.Add(time.Minute)}))

	played, err = s.AlreadyPlayed(ctx, "p1", "2026-03-01")
	require.NoError(t, err)
	assert.True(t, played)

	top, err := s.Leaderboard(ctx, "2026-03-01", 0)
	require.NoError(t, err)
	assert.Empty(t, top, "the replayed win is not recorded")

	st, err := s.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, Stats{GamesPlayed: 1}, st)

	// next day is a new daily game
	require.NoError(t, s.Record(ctx, Result{Player: "p1", Target: "Abra", Outcome: "won", Guesses: 3, Mode: ModeDaily, FinishedAt: day.Add(24 * time.Hour)}))
	played, err = s.AlreadyPlayed(ctx, "p1", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, played)
}

func TestRecord_RandomModeHasNoDailyLimit(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Record(ctx, Result{Player: "p1", Target: "Vulpix", Outcome: "won", Guesses: 2, FinishedAt: day.Add(time.Duration(i) * time.Minute)}))
	}
	st, err := s.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, st.GamesPlayed)

	played, err := s.AlreadyPlayed(ctx, "p1", "2026-03-01")
	require.NoError(t, err)
	assert.False(t, played)
}
