package verify_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
	"github.com/st3v3nmw/lbcheck/internal/verify"
)

func snapshot(totals ...int) verify.Snapshot {
	entries := make([]leaderboard.Entry, len(totals))
	for i, total := range totals {
		entries[i] = leaderboard.Entry{ID: i + 1, UserID: i + 1, TotalScore: total, Rank: i + 1}
	}

	return verify.Snapshot{Entries: entries}
}

func TestExpectedTotalAdditivity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 200 {
		baseline := rng.IntN(1_000_000)
		scores := make([]int, rng.IntN(6))

		tracker := verify.NewTracker()
		sum := 0
		for i := range scores {
			scores[i] = rng.IntN(10_000)
			sum += scores[i]
			tracker.Record(1, scores[i])
		}

		assert.Equal(t, baseline+sum, verify.ExpectedTotal(baseline, tracker.TotalSubmitted(1)))
	}

	assert.Equal(t, 100, verify.ExpectedTotal(100, verify.NewTracker().TotalSubmitted(1)))
}

func TestExpectedRank(t *testing.T) {
	comparison := snapshot(1000, 900, 800, 700)

	tests := []struct {
		name      string
		subjectID int
		total     int
		rank      int
		member    bool
	}{
		{"Above Everyone", 99, 1500, 1, true},
		{"Between", 99, 850, 3, true},
		{"Ties Do Not Count", 99, 900, 2, true},
		{"Below Everyone", 99, 100, 5, false},
		{"Self Is Skipped", 2, 100, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rank, verify.ExpectedRank(tt.subjectID, tt.total, comparison))
			assert.Equal(t, tt.member, verify.ExpectedMembership(tt.subjectID, tt.total, comparison, 4))
		})
	}
}

func TestExpectedMembershipMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for range 100 {
		totals := make([]int, 1+rng.IntN(15))
		for i := range totals {
			totals[i] = rng.IntN(10_000)
		}
		comparison := snapshot(totals...)
		n := 1 + rng.IntN(10)

		previous := false
		for total := 0; total <= 10_000; total += 250 {
			member := verify.ExpectedMembership(999, total, comparison, n)
			if previous {
				assert.True(t, member, "membership lost when raising total to %d", total)
			}
			previous = member
		}
	}
}
