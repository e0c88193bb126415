package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// GameMode is the mode a score was earned in.
type GameMode string

const (
	Solo GameMode = "solo"
	Team GameMode = "team"
)

// ParseGameMode validates a game mode name.
func ParseGameMode(s string) (GameMode, error) {
	switch GameMode(s) {
	case Solo, Team:
		return GameMode(s), nil
	default:
		return "", fmt.Errorf("unknown game mode %q (want %q or %q)", s, Solo, Team)
	}
}

// Entry is one row of the top-N view.
type Entry struct {
	ID         int `json:"id"`
	UserID     int `json:"user_id"`
	TotalScore int `json:"total_score"`
	Rank       int `json:"rank"`
}

// Standing is a single user's total and rank.
type Standing struct {
	UserID     int `json:"user_id"`
	TotalScore int `json:"total_score"`
	Rank       int `json:"rank"`
}

// Client is the capability the harness needs from the service under test.
// Every call is attempted exactly once.
type Client interface {
	// Submit records a score. A nil error means the service durably accepted
	// the write, not that rankings reflect it yet.
	Submit(ctx context.Context, userID, score int, mode GameMode) error
	// Top returns at most n entries ordered by rank.
	Top(ctx context.Context, n int) ([]Entry, error)
	// RankOf returns ErrNotFound when the user has no recorded score.
	RankOf(ctx context.Context, userID int) (Standing, error)
}

// ErrNotFound is returned by RankOf for users without a recorded score.
var ErrNotFound = errors.New("user not found")

// TransportError is a network failure or an unsuccessful response.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d %s: %v", e.Op, e.Status, http.StatusText(e.Status), e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
