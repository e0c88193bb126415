package verify

import (
	"errors"
	"fmt"

	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
)

// Verdict is the pass/fail determination for one subject.
type Verdict struct {
	SubjectID     int `json:"subject_id"`
	BaselineTotal int `json:"baseline_total"`
	Submitted     int `json:"submitted"`
	ExpectedTotal int `json:"expected_total"`

	Found         bool `json:"found"`
	ObservedTotal int  `json:"observed_total"`
	ObservedRank  int  `json:"observed_rank"`
	InTopN        bool `json:"in_top_n"`

	ExpectedRank   int  `json:"expected_rank"`
	ExpectedInTopN bool `json:"expected_in_top_n"`
	// MembershipDrift is set when the pre-run prediction disagrees with the
	// final snapshot. It is informational and never fails a verdict.
	MembershipDrift bool `json:"membership_drift"`

	ScoreMatch    bool     `json:"score_match"`
	RankPlausible bool     `json:"rank_plausible"`
	Pass          bool     `json:"pass"`
	Failures      []string `json:"failures,omitempty"`
}

// ReconcileInput is everything a verdict is derived from.
type ReconcileInput struct {
	Subject   Subject
	Submitted int

	// Initial is the comparison snapshot taken before any submission.
	Initial Snapshot
	// Final is the snapshot read after settlement.
	Final Snapshot
	// FinalErr is set when the final snapshot could not be read.
	FinalErr error

	// Standing and LookupErr are the result of the post-settlement rank lookup.
	Standing  leaderboard.Standing
	LookupErr error
}

// Reconciler compares expected and observed state.
type Reconciler struct {
	TopN int
}

// Reconcile derives the verdict for one subject. It has no hidden state.
func (r Reconciler) Reconcile(in ReconcileInput) Verdict {
	id := in.Subject.ID
	expected := ExpectedTotal(in.Subject.BaselineTotal, in.Submitted)

	v := Verdict{
		SubjectID:      id,
		BaselineTotal:  in.Subject.BaselineTotal,
		Submitted:      in.Submitted,
		ExpectedTotal:  expected,
		ExpectedRank:   ExpectedRank(id, expected, in.Initial),
		ExpectedInTopN: ExpectedMembership(id, expected, in.Initial, r.TopN),
	}

	if in.FinalErr != nil {
		v.Failures = append(v.Failures, fmt.Sprintf("final top %d unavailable: %v", r.TopN, in.FinalErr))
	} else {
		v.InTopN = in.Final.Contains(id)
		v.MembershipDrift = v.InTopN != v.ExpectedInTopN
	}

	if in.LookupErr != nil {
		if errors.Is(in.LookupErr, leaderboard.ErrNotFound) {
			v.Failures = append(v.Failures, "missing subject: service has no standing after settlement")
		} else {
			v.Failures = append(v.Failures, fmt.Sprintf("rank lookup failed: %v", in.LookupErr))
		}

		return v
	}

	v.Found = true
	v.ObservedTotal = in.Standing.TotalScore
	v.ObservedRank = in.Standing.Rank

	score := Is(expected)
	v.ScoreMatch = score.Check(v.ObservedTotal)
	if !v.ScoreMatch {
		v.Failures = append(v.Failures, fmt.Sprintf("total score: expected %s, got %d", score.Expected(), v.ObservedTotal))
	}

	if in.FinalErr != nil {
		return v
	}

	var rank Checker[int] = Above(r.TopN)
	if v.InTopN {
		rank = AtMost(r.TopN)
	}

	v.RankPlausible = rank.Check(v.ObservedRank)
	if !v.RankPlausible {
		v.Failures = append(v.Failures, fmt.Sprintf("rank: expected %s (listed in top %d: %t), got %d",
			rank.Expected(), r.TopN, v.InTopN, v.ObservedRank))
	}

	v.Pass = v.ScoreMatch && v.RankPlausible
	return v
}
