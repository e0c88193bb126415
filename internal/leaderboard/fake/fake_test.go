package fake_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
	"github.com/st3v3nmw/lbcheck/internal/leaderboard/fake"
)

func TestRanking(t *testing.T) {
	lb := fake.New(map[int]int{1: 50, 2: 70, 3: 70, 4: 10})

	top, err := lb.Top(context.Background(), 10)
	require.NoError(t, err)

	ranks := map[int]int{}
	for _, entry := range top {
		ranks[entry.UserID] = entry.Rank
	}
	assert.Equal(t, map[int]int{2: 1, 3: 1, 1: 3, 4: 4}, ranks)

	top, err = lb.Top(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestSettlement(t *testing.T) {
	ctx := context.Background()
	lb := fake.New(map[int]int{1: 100})
	lb.SettleAfter = 30 * time.Millisecond

	require.NoError(t, lb.Submit(ctx, 2, 500, leaderboard.Solo))
	require.NoError(t, lb.Submit(ctx, 1, 50, leaderboard.Team))

	_, err := lb.RankOf(ctx, 2)
	assert.ErrorIs(t, err, leaderboard.ErrNotFound)

	standing, err := lb.RankOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, standing.TotalScore)

	time.Sleep(40 * time.Millisecond)

	standing, err = lb.RankOf(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.Standing{UserID: 2, TotalScore: 500, Rank: 1}, standing)

	standing, err = lb.RankOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.Standing{UserID: 1, TotalScore: 150, Rank: 2}, standing)

	assert.Len(t, lb.Submissions(), 2)
}
