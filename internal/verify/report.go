package verify

import "time"

// Phase names where a subject can drop out of a run.
const (
	PhaseBaseline = "baseline"
	PhaseSubmit   = "submit"
)

// Exclusion is a subject whose contribution became unusable before
// reconciliation.
type Exclusion struct {
	SubjectID int    `json:"subject_id"`
	Phase     string `json:"phase"`
	Reason    string `json:"reason"`
}

// Summary is the pass/fail tally over a list of verdicts.
type Summary struct {
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Total    int       `json:"total"`
	PassRate float64   `json:"pass_rate"`
	Verdicts []Verdict `json:"verdicts"`
}

// Aggregate tallies verdicts, keeping their input order.
func Aggregate(verdicts []Verdict) Summary {
	s := Summary{Total: len(verdicts), Verdicts: make([]Verdict, len(verdicts))}
	copy(s.Verdicts, verdicts)

	for _, v := range verdicts {
		if v.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}

	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total)
	}

	return s
}

// Report is the outcome of one run.
type Report struct {
	Summary

	RunID string `json:"run_id"`
	TopN  int    `json:"top_n"`
	Seed  uint64 `json:"seed"`

	Subjects []Subject   `json:"subjects"`
	Excluded []Exclusion `json:"excluded,omitempty"`
	Initial  Snapshot    `json:"initial"`
	Final    Snapshot    `json:"final"`

	SettleWindow time.Duration `json:"settle_window"`
	StartedAt    time.Time     `json:"started_at"`
	SubmitStart  time.Time     `json:"submit_start"`
	SubmitEnd    time.Time     `json:"submit_end"`
	VerifiedAt   time.Time     `json:"verified_at"`
	FinishedAt   time.Time     `json:"finished_at"`

	// Aborted holds the reason the run stopped early, if it did.
	Aborted string `json:"aborted,omitempty"`
}

// OK reports whether the run completed, tested at least one subject and
// every verdict passed.
func (r *Report) OK() bool {
	return r.Aborted == "" && r.Total > 0 && r.Failed == 0
}
