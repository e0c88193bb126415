package verify

import (
	"slices"

	"github.com/st3v3nmw/lbcheck/pkg/threadsafe"
)

// Tracker records every score the harness successfully submitted, per subject.
// Writers for different subjects may run concurrently.
type Tracker struct {
	scores *threadsafe.Map[int, []int]
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{scores: threadsafe.NewMap[int, []int]()}
}

// Record appends score to the subject's history.
func (t *Tracker) Record(subjectID, score int) {
	t.scores.Update(subjectID, func(history []int, _ bool) []int {
		return append(history, score)
	})
}

// Scores returns a copy of the subject's history.
func (t *Tracker) Scores(subjectID int) []int {
	history, _ := t.scores.Get(subjectID)
	return slices.Clone(history)
}

// TotalSubmitted returns the sum of the subject's history, 0 if none.
func (t *Tracker) TotalSubmitted(subjectID int) int {
	history, _ := t.scores.Get(subjectID)

	total := 0
	for _, score := range history {
		total += score
	}

	return total
}

// Subjects returns the identifiers with at least one recorded score, sorted.
func (t *Tracker) Subjects() []int {
	ids := make([]int, 0, t.scores.Len())
	for id := range t.scores.All() {
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids
}
