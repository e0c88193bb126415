// Package fake provides an in-memory leaderboard that applies submissions
// in batches, the way the real service's recalculation worker does.
package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
)

type pending struct {
	userID int
	score  int
	at     time.Time
}

// Leaderboard is a leaderboard.Client backed by memory.
// Submissions become visible once SettleAfter has elapsed since they were
// accepted; reads trigger the recalculation.
type Leaderboard struct {
	SettleAfter time.Duration

	// Failure injection.
	SubmitErr map[int]error
	RankErr   map[int]error
	TopErr    error
	// Drop accepts submissions for these users but never applies them.
	Drop map[int]bool
	// Bonus is added to a user's total when the submission is applied.
	Bonus map[int]int

	mu       sync.Mutex
	totals   map[int]int
	entryIDs map[int]int
	pending  []pending
	ranked   []leaderboard.Entry
	submits  []leaderboard.Standing
	now      func() time.Time
}

var _ leaderboard.Client = (*Leaderboard)(nil)

// New creates a leaderboard seeded with the given user totals.
func New(totals map[int]int) *Leaderboard {
	lb := &Leaderboard{
		SubmitErr: map[int]error{},
		RankErr:   map[int]error{},
		Drop:      map[int]bool{},
		Bonus:     map[int]int{},
		totals:    map[int]int{},
		entryIDs:  map[int]int{},
		now:       time.Now,
	}

	for userID, total := range totals {
		lb.totals[userID] = total
		lb.entryIDs[userID] = len(lb.entryIDs) + 1
	}
	lb.rerank()

	return lb
}

// Submit queues a score for the next recalculation.
func (lb *Leaderboard) Submit(ctx context.Context, userID, score int, mode leaderboard.GameMode) error {
	if err := ctx.Err(); err != nil {
		return &leaderboard.TransportError{Op: "submit", Err: err}
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()

	if err, ok := lb.SubmitErr[userID]; ok {
		return &leaderboard.TransportError{Op: "submit", Status: 500, Err: err}
	}

	lb.submits = append(lb.submits, leaderboard.Standing{UserID: userID, TotalScore: score})
	if lb.Drop[userID] {
		return nil
	}

	lb.pending = append(lb.pending, pending{userID: userID, score: score, at: lb.now()})
	return nil
}

// Top returns the first n ranked entries.
func (lb *Leaderboard) Top(ctx context.Context, n int) ([]leaderboard.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, &leaderboard.TransportError{Op: "top", Err: err}
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.TopErr != nil {
		return nil, &leaderboard.TransportError{Op: "top", Status: 500, Err: lb.TopErr}
	}

	lb.settle()

	if n > len(lb.ranked) {
		n = len(lb.ranked)
	}

	entries := make([]leaderboard.Entry, n)
	copy(entries, lb.ranked[:n])
	return entries, nil
}

// RankOf returns the user's settled standing.
func (lb *Leaderboard) RankOf(ctx context.Context, userID int) (leaderboard.Standing, error) {
	if err := ctx.Err(); err != nil {
		return leaderboard.Standing{}, &leaderboard.TransportError{Op: "rank", Err: err}
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()

	if err, ok := lb.RankErr[userID]; ok {
		return leaderboard.Standing{}, &leaderboard.TransportError{Op: "rank", Status: 500, Err: err}
	}

	lb.settle()

	for _, entry := range lb.ranked {
		if entry.UserID == userID {
			return leaderboard.Standing{UserID: userID, TotalScore: entry.TotalScore, Rank: entry.Rank}, nil
		}
	}

	return leaderboard.Standing{}, fmt.Errorf("rank %d: %w", userID, leaderboard.ErrNotFound)
}

// Submissions returns every accepted submission in arrival order.
func (lb *Leaderboard) Submissions() []leaderboard.Standing {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	out := make([]leaderboard.Standing, len(lb.submits))
	copy(out, lb.submits)
	return out
}

// settle applies due submissions and recomputes ranks. Callers hold mu.
func (lb *Leaderboard) settle() {
	now := lb.now()

	kept := lb.pending[:0]
	applied := false
	for _, p := range lb.pending {
		if now.Sub(p.at) < lb.SettleAfter {
			kept = append(kept, p)
			continue
		}

		if _, ok := lb.entryIDs[p.userID]; !ok {
			lb.entryIDs[p.userID] = len(lb.entryIDs) + 1
		}
		lb.totals[p.userID] += p.score + lb.Bonus[p.userID]
		applied = true
	}
	lb.pending = kept

	if applied {
		lb.rerank()
	}
}

// rerank orders users by total, ties broken by user ID, with competition ranking.
func (lb *Leaderboard) rerank() {
	entries := make([]leaderboard.Entry, 0, len(lb.totals))
	for userID, total := range lb.totals {
		entries = append(entries, leaderboard.Entry{ID: lb.entryIDs[userID], UserID: userID, TotalScore: total})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		if i > 0 && entries[i].TotalScore == entries[i-1].TotalScore {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	lb.ranked = entries
}
