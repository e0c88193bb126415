package verify

import (
	"time"

	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
)

// Snapshot is one point-in-time read of the top-N view.
type Snapshot struct {
	Entries    []leaderboard.Entry `json:"entries"`
	CapturedAt time.Time           `json:"captured_at"`
}

// NewSnapshot captures entries at the given time. The entries are copied.
func NewSnapshot(entries []leaderboard.Entry, at time.Time) Snapshot {
	copied := make([]leaderboard.Entry, len(entries))
	copy(copied, entries)

	return Snapshot{Entries: copied, CapturedAt: at}
}

// UserIDs returns the set of users present in the snapshot.
func (s Snapshot) UserIDs() map[int]bool {
	ids := make(map[int]bool, len(s.Entries))
	for _, entry := range s.Entries {
		ids[entry.UserID] = true
	}

	return ids
}

// Contains reports whether userID appears in the snapshot.
func (s Snapshot) Contains(userID int) bool {
	for _, entry := range s.Entries {
		if entry.UserID == userID {
			return true
		}
	}

	return false
}

// Subject is a test user selected for one run.
type Subject struct {
	ID            int  `json:"id"`
	BaselineTotal int  `json:"baseline_total"`
	BaselineRank  int  `json:"baseline_rank,omitempty"`
	Ranked        bool `json:"ranked"`
}
