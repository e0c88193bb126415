package verify

import (
	"fmt"
	"time"

	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
)

// IDRange is an inclusive range of user identifiers.
type IDRange struct {
	Min int
	Max int
}

// Size returns the number of identifiers in the range.
func (r IDRange) Size() int {
	if r.Max < r.Min {
		return 0
	}

	return r.Max - r.Min + 1
}

// Contains reports whether id lies in the range.
func (r IDRange) Contains(id int) bool {
	return id >= r.Min && id <= r.Max
}

// Config holds the parameters of one verification run.
type Config struct {
	// TopN is the size of the leaderboard view under test.
	TopN int
	// Subjects is how many test users to select.
	Subjects int
	// SubmissionsPerSubject is how many scores each subject submits.
	SubmissionsPerSubject int
	// IDRange is where subjects are drawn from.
	IDRange IDRange

	// Scores are cycled across subjects and submissions.
	Scores []int
	// GameModes are picked at random per submission.
	GameModes []leaderboard.GameMode

	// BatchInterval is the service's recalculation interval.
	BatchInterval time.Duration
	// SettleBuffer is added to BatchInterval to form the settlement window.
	SettleBuffer time.Duration
	// TickInterval is the cadence of settlement progress ticks.
	TickInterval time.Duration

	// SubmitDelay spaces consecutive submissions.
	SubmitDelay time.Duration
	// LookupDelay spaces consecutive rank lookups.
	LookupDelay time.Duration

	// Parallel submits for different subjects concurrently.
	Parallel bool
	// MaxInFlight bounds concurrent submissions in parallel mode.
	MaxInFlight int

	// Seed makes subject selection and game modes reproducible. Zero picks a random seed.
	Seed uint64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TopN:                  10,
		Subjects:              5,
		SubmissionsPerSubject: 1,
		IDRange:               IDRange{Min: 10_000, Max: 100_000},
		Scores:                []int{9000, 9500, 8800, 9200, 8900},
		GameModes:             []leaderboard.GameMode{leaderboard.Solo, leaderboard.Team},
		BatchInterval:         3 * time.Minute,
		SettleBuffer:          30 * time.Second,
		TickInterval:          time.Second,
		SubmitDelay:           200 * time.Millisecond,
		LookupDelay:           100 * time.Millisecond,
		MaxInFlight:           4,
	}
}

// Merge returns the defaults overridden by every non-zero field of config.
func Merge(config *Config) *Config {
	merged := DefaultConfig()
	if config == nil {
		return merged
	}

	if config.TopN != 0 {
		merged.TopN = config.TopN
	}

	if config.Subjects != 0 {
		merged.Subjects = config.Subjects
	}

	if config.SubmissionsPerSubject != 0 {
		merged.SubmissionsPerSubject = config.SubmissionsPerSubject
	}

	if config.IDRange != (IDRange{}) {
		merged.IDRange = config.IDRange
	}

	if len(config.Scores) != 0 {
		merged.Scores = config.Scores
	}

	if len(config.GameModes) != 0 {
		merged.GameModes = config.GameModes
	}

	if config.BatchInterval != 0 {
		merged.BatchInterval = config.BatchInterval
	}

	if config.SettleBuffer != 0 {
		merged.SettleBuffer = config.SettleBuffer
	}

	if config.TickInterval != 0 {
		merged.TickInterval = config.TickInterval
	}

	if config.SubmitDelay != 0 {
		merged.SubmitDelay = config.SubmitDelay
	}

	if config.LookupDelay != 0 {
		merged.LookupDelay = config.LookupDelay
	}

	if config.MaxInFlight != 0 {
		merged.MaxInFlight = config.MaxInFlight
	}

	merged.Parallel = config.Parallel
	merged.Seed = config.Seed

	return merged
}

// Validate checks that the configuration describes a runnable verification.
func (c *Config) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("top N must be positive, got %d", c.TopN)
	}

	if c.Subjects < 0 {
		return fmt.Errorf("subject count cannot be negative, got %d", c.Subjects)
	}

	if c.SubmissionsPerSubject < 1 {
		return fmt.Errorf("submissions per subject must be positive, got %d", c.SubmissionsPerSubject)
	}

	if c.IDRange.Min < 1 || c.IDRange.Max > 1_000_000 || c.IDRange.Size() == 0 {
		return fmt.Errorf("id range [%d, %d] must lie within [1, 1000000]", c.IDRange.Min, c.IDRange.Max)
	}

	if len(c.Scores) == 0 {
		return fmt.Errorf("at least one score is required")
	}

	if len(c.GameModes) == 0 {
		return fmt.Errorf("at least one game mode is required")
	}

	for _, mode := range c.GameModes {
		if _, err := leaderboard.ParseGameMode(string(mode)); err != nil {
			return err
		}
	}

	if c.BatchInterval < 0 || c.SettleBuffer < 0 || c.SubmitDelay < 0 || c.LookupDelay < 0 {
		return fmt.Errorf("durations cannot be negative")
	}

	if c.Parallel && c.MaxInFlight < 1 {
		return fmt.Errorf("max in-flight submissions must be positive in parallel mode")
	}

	return nil
}

// SettleWindow is how long to wait for the service to apply submissions.
func (c *Config) SettleWindow() time.Duration {
	return SettleWindow(c.BatchInterval, c.SettleBuffer)
}
