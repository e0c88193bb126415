package cli

import (
	commands "github.com/urfave/cli/v3"

	"github.com/st3v3nmw/lbcheck/internal/config"
)

// NewCommand builds the lbcheck command tree.
func NewCommand() *commands.Command {
	return &commands.Command{
		Name:  "lbcheck",
		Usage: "Check that a leaderboard service converges to correct totals and ranks",
		Commands: []*commands.Command{
			{
				Name:  "run",
				Usage: "Submit scores, wait for settlement and verify the leaderboard",
				Flags: []commands.Flag{
					&commands.StringFlag{
						Name:    "config",
						Usage:   "Path to the configuration file",
						Aliases: []string{"c"},
						Value:   config.DefaultPath,
					},
					&commands.StringFlag{
						Name:  "base-url",
						Usage: "Leaderboard API base URL",
					},
					&commands.DurationFlag{
						Name:  "timeout",
						Usage: "Per-request timeout",
					},
					&commands.IntFlag{
						Name:    "top",
						Usage:   "Size of the top-N listing to inspect",
						Aliases: []string{"n"},
					},
					&commands.IntFlag{
						Name:  "subjects",
						Usage: "Number of test users",
					},
					&commands.IntFlag{
						Name:  "submissions",
						Usage: "Score submissions per test user",
					},
					&commands.DurationFlag{
						Name:  "batch-interval",
						Usage: "How often the service recalculates rankings",
					},
					&commands.DurationFlag{
						Name:  "buffer",
						Usage: "Extra wait on top of the batch interval",
					},
					&commands.BoolFlag{
						Name:  "parallel",
						Usage: "Submit scores concurrently",
					},
					&commands.StringFlag{
						Name:  "seed",
						Usage: "Seed for subject selection and score assignment",
					},
					&commands.BoolFlag{
						Name:  "json",
						Usage: "Print the report as JSON",
					},
					&commands.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
						Value: "info",
					},
				},
				Action: RunCheck,
			},
			{
				Name:      "init",
				Usage:     "Write a configuration file with defaults",
				ArgsUsage: "[path]",
				Flags: []commands.Flag{
					&commands.BoolFlag{
						Name:    "force",
						Usage:   "Overwrite an existing file",
						Aliases: []string{"f"},
					},
				},
				Action: InitConfig,
			},
		},
	}
}
