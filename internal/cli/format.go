package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/st3v3nmw/lbcheck/internal/verify"
)

var (
	green     = color.New(color.FgGreen).SprintFunc()
	red       = color.New(color.FgRed).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	bold      = color.New(color.Bold).SprintFunc()
	checkMark = green("✓")
	crossMark = red("✗")
	skipMark  = yellow("○")
)

// PrintHeader describes the run about to start.
func PrintHeader(w io.Writer, baseURL string, cfg *verify.Config) {
	fmt.Fprintf(w, "%s %s\n", bold("Leaderboard correctness check"), baseURL)
	fmt.Fprintf(w, "  Top %d, %d subjects, batch interval %s, settle window %s\n\n",
		cfg.TopN, cfg.Subjects, cfg.BatchInterval, cfg.SettleWindow())
}

// PrintReport renders a report for humans.
func PrintReport(w io.Writer, r *verify.Report) {
	fmt.Fprintln(w)

	if len(r.Initial.Entries) > 0 {
		printSnapshot(w, fmt.Sprintf("Initial top %d", r.TopN), r.Initial)
	}

	if len(r.Final.Entries) > 0 {
		printSnapshot(w, fmt.Sprintf("Final top %d", r.TopN), r.Final)
	}

	for _, v := range r.Verdicts {
		printVerdict(w, v, r.TopN)
	}

	for _, e := range r.Excluded {
		fmt.Fprintf(w, "%s User %d [excluded during %s]\n", skipMark, e.SubjectID, e.Phase)
		fmt.Fprintf(w, "  %s\n", e.Reason)
	}

	fmt.Fprintln(w)

	if r.Aborted != "" {
		fmt.Fprintf(w, "%s %s\n", bold("ABORTED"), crossMark)
		fmt.Fprintf(w, "  %s\n", r.Aborted)
		return
	}

	fmt.Fprintf(w, "Total:     %d\n", r.Total)
	fmt.Fprintf(w, "Passed:    %d\n", r.Passed)
	fmt.Fprintf(w, "Failed:    %d\n", r.Failed)
	fmt.Fprintf(w, "Pass rate: %.1f%%\n", r.PassRate*100)

	if !r.SubmitStart.IsZero() && !r.VerifiedAt.IsZero() {
		took := r.VerifiedAt.Sub(r.SubmitStart)
		fmt.Fprintf(w, "Duration:  %s (submission to verification)\n", took.Round(time.Second))
	}

	fmt.Fprintln(w)

	switch {
	case r.Total == 0:
		fmt.Fprintf(w, "%s %s\n", bold("NOTHING TESTED"), skipMark)
	case r.OK():
		fmt.Fprintf(w, "%s %s\n", bold("PASSED"), checkMark)
	default:
		fmt.Fprintf(w, "%s %d/%d subjects passed %s\n", bold("FAILED"), r.Passed, r.Total, crossMark)
	}
}

func printSnapshot(w io.Writer, title string, s verify.Snapshot) {
	fmt.Fprintf(w, "%s (%s)\n", bold(title), s.CapturedAt.Format(time.TimeOnly))
	fmt.Fprintf(w, "  %-6s %-10s %-12s %-15s\n", "Rank", "User ID", "Total Score", "Leaderboard ID")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 46))

	for _, e := range s.Entries {
		fmt.Fprintf(w, "  %-6d %-10d %-12d %-15d\n", e.Rank, e.UserID, e.TotalScore, e.ID)
	}

	fmt.Fprintln(w)
}

func printVerdict(w io.Writer, v verify.Verdict, topN int) {
	mark := checkMark
	if !v.Pass {
		mark = crossMark
	}

	fmt.Fprintf(w, "%s User %d\n", mark, v.SubjectID)
	fmt.Fprintf(w, "  Baseline total:  %d\n", v.BaselineTotal)
	fmt.Fprintf(w, "  Submitted:       %d\n", v.Submitted)
	fmt.Fprintf(w, "  Expected total:  %d\n", v.ExpectedTotal)

	if v.Found {
		fmt.Fprintf(w, "  Observed total:  %d\n", v.ObservedTotal)
		fmt.Fprintf(w, "  Observed rank:   %d (in top %d: %t)\n", v.ObservedRank, topN, v.InTopN)
	}

	if v.MembershipDrift {
		fmt.Fprintf(w, "  %s predicted in top %d: %t, listed: %t\n",
			yellow("drift:"), topN, v.ExpectedInTopN, v.InTopN)
	}

	for _, failure := range v.Failures {
		fmt.Fprintf(w, "  %s\n", red(failure))
	}
}
