package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
	commands "github.com/urfave/cli/v3"

	"github.com/st3v3nmw/lbcheck/internal/config"
	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
	"github.com/st3v3nmw/lbcheck/internal/verify"
)

// RunCheck verifies the leaderboard service and prints the report.
func RunCheck(ctx context.Context, cmd *commands.Command) error {
	logger, err := newLogger(os.Stderr, cmd.String("log-level"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}

	if err := applyFlags(cfg, cmd); err != nil {
		return err
	}

	runConfig, err := cfg.Verify()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	jsonOutput := cmd.Bool("json")
	opts := []verify.Option{verify.WithLogger(logger)}
	if !jsonOutput {
		opts = append(opts, verify.WithProgress(countdown(os.Stderr)))
	}

	client := leaderboard.NewHTTPClient(cfg.BaseURLOrDefault(), cfg.RequestTimeoutOrDefault())
	harness, err := verify.New(client, runConfig, opts...)
	if err != nil {
		return err
	}

	if !jsonOutput {
		PrintHeader(os.Stdout, cfg.BaseURLOrDefault(), runConfig)
	}

	report, runErr := harness.Run(ctx)

	if jsonOutput {
		if err := writeJSON(os.Stdout, report); err != nil {
			return err
		}
	} else {
		PrintReport(os.Stdout, report)
	}

	if runErr != nil {
		return runErr
	}

	if !report.OK() {
		return commands.Exit("", 1)
	}

	return nil
}

// InitConfig writes a configuration file populated with defaults.
func InitConfig(ctx context.Context, cmd *commands.Command) error {
	path := config.DefaultPath
	if cmd.NArg() > 0 {
		path = cmd.Args().First()
	}

	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists\nUse --force to overwrite it", path)
	}

	if err := config.SaveTo(config.Default(), path); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	fmt.Printf("Set batch_interval to your service's recalculation interval, then run 'lbcheck run'.\n")

	return nil
}

// loadConfig reads the config file. A missing file is only an error when the
// path was given explicitly.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return &config.Config{}, nil
	}

	return cfg, err
}

func applyFlags(cfg *config.Config, cmd *commands.Command) error {
	if cmd.IsSet("base-url") {
		cfg.BaseURL = cmd.String("base-url")
	}

	if cmd.IsSet("timeout") {
		cfg.RequestTimeout = cmd.Duration("timeout")
	}

	if cmd.IsSet("top") {
		cfg.TopN = int(cmd.Int("top"))
	}

	if cmd.IsSet("subjects") {
		cfg.Subjects = int(cmd.Int("subjects"))
	}

	if cmd.IsSet("submissions") {
		cfg.SubmissionsPerSubject = int(cmd.Int("submissions"))
	}

	if cmd.IsSet("batch-interval") {
		cfg.BatchInterval = cmd.Duration("batch-interval")
	}

	if cmd.IsSet("buffer") {
		cfg.SettleBuffer = cmd.Duration("buffer")
	}

	if cmd.IsSet("parallel") {
		cfg.Parallel = cmd.Bool("parallel")
	}

	if cmd.IsSet("seed") {
		seed, err := strconv.ParseUint(cmd.String("seed"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", cmd.String("seed"), err)
		}

		cfg.Seed = seed
	}

	return nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
	})), nil
}

// countdown renders the settlement progress on a single terminal line.
func countdown(w io.Writer) func(elapsed, remaining time.Duration) {
	return func(elapsed, remaining time.Duration) {
		secs := int(remaining.Round(time.Second).Seconds())
		fmt.Fprintf(w, "\r  Time remaining: %02d:%02d (%ds elapsed) ", secs/60, secs%60, int(elapsed.Seconds()))
	}
}

func writeJSON(w io.Writer, report *verify.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return nil
}
