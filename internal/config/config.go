package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
	"github.com/st3v3nmw/lbcheck/internal/verify"
)

// DefaultPath is where lbcheck looks for its configuration file.
const DefaultPath = "lbcheck.yaml"

// Environment overrides.
const (
	EnvBatchInterval = "LBCHECK_BATCH_INTERVAL"
	EnvBaseURL       = "LBCHECK_BASE_URL"
)

const defaultRequestTimeout = 10 * time.Second

type IDRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Config is the on-disk configuration. Zero fields fall back to defaults.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	TopN                  int      `yaml:"top_n"`
	Subjects              int      `yaml:"subjects"`
	SubmissionsPerSubject int      `yaml:"submissions_per_subject"`
	IDRange               IDRange  `yaml:"id_range"`
	Scores                []int    `yaml:"scores"`
	GameModes             []string `yaml:"game_modes"`

	BatchInterval time.Duration `yaml:"batch_interval"`
	SettleBuffer  time.Duration `yaml:"settle_buffer"`
	TickInterval  time.Duration `yaml:"tick_interval"`
	SubmitDelay   time.Duration `yaml:"submit_delay"`
	LookupDelay   time.Duration `yaml:"lookup_delay"`

	Parallel    bool   `yaml:"parallel"`
	MaxInFlight int    `yaml:"max_in_flight"`
	Seed        uint64 `yaml:"seed,omitempty"`
}

// Default returns a fully populated configuration.
func Default() *Config {
	v := verify.DefaultConfig()

	modes := make([]string, len(v.GameModes))
	for i, mode := range v.GameModes {
		modes[i] = string(mode)
	}

	return &Config{
		BaseURL:               leaderboard.DefaultBaseURL,
		RequestTimeout:        defaultRequestTimeout,
		TopN:                  v.TopN,
		Subjects:              v.Subjects,
		SubmissionsPerSubject: v.SubmissionsPerSubject,
		IDRange:               IDRange{Min: v.IDRange.Min, Max: v.IDRange.Max},
		Scores:                v.Scores,
		GameModes:             modes,
		BatchInterval:         v.BatchInterval,
		SettleBuffer:          v.SettleBuffer,
		TickInterval:          v.TickInterval,
		SubmitDelay:           v.SubmitDelay,
		LookupDelay:           v.LookupDelay,
		Parallel:              v.Parallel,
		MaxInFlight:           v.MaxInFlight,
	}
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

func Save(cfg *Config) error {
	return SaveTo(cfg, DefaultPath)
}

func SaveTo(cfg *Config, path string) error {
	bytes, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if raw := getenv(EnvBatchInterval); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvBatchInterval, raw, err)
		}

		c.BatchInterval = interval
	}

	if raw := getenv(EnvBaseURL); raw != "" {
		c.BaseURL = raw
	}

	return nil
}

// BaseURLOrDefault returns the configured service URL.
func (c *Config) BaseURLOrDefault() string {
	if c.BaseURL == "" {
		return leaderboard.DefaultBaseURL
	}

	return c.BaseURL
}

// RequestTimeoutOrDefault returns the per-request timeout.
func (c *Config) RequestTimeoutOrDefault() time.Duration {
	if c.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}

	return c.RequestTimeout
}

// Verify converts the file settings into run parameters, filling defaults.
func (c *Config) Verify() (*verify.Config, error) {
	modes := make([]leaderboard.GameMode, 0, len(c.GameModes))
	for _, raw := range c.GameModes {
		mode, err := leaderboard.ParseGameMode(raw)
		if err != nil {
			return nil, err
		}

		modes = append(modes, mode)
	}

	merged := verify.Merge(&verify.Config{
		TopN:                  c.TopN,
		Subjects:              c.Subjects,
		SubmissionsPerSubject: c.SubmissionsPerSubject,
		IDRange:               verify.IDRange{Min: c.IDRange.Min, Max: c.IDRange.Max},
		Scores:                c.Scores,
		GameModes:             modes,
		BatchInterval:         c.BatchInterval,
		SettleBuffer:          c.SettleBuffer,
		TickInterval:          c.TickInterval,
		SubmitDelay:           c.SubmitDelay,
		LookupDelay:           c.LookupDelay,
		Parallel:              c.Parallel,
		MaxInFlight:           c.MaxInFlight,
		Seed:                  c.Seed,
	})

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return merged, nil
}
