package verify_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st3v3nmw/lbcheck/internal/verify"
)

func TestTracker(t *testing.T) {
	tracker := verify.NewTracker()

	assert.Equal(t, 0, tracker.TotalSubmitted(42))
	assert.Empty(t, tracker.Scores(42))

	tracker.Record(42, 50)
	tracker.Record(42, 30)
	tracker.Record(7, 9000)

	assert.Equal(t, 80, tracker.TotalSubmitted(42))
	assert.Equal(t, []int{50, 30}, tracker.Scores(42))
	assert.Equal(t, []int{7, 42}, tracker.Subjects())

	// Returned history is a copy.
	scores := tracker.Scores(42)
	scores[0] = 1
	assert.Equal(t, []int{50, 30}, tracker.Scores(42))
}

func TestTrackerConcurrentSubjects(t *testing.T) {
	tracker := verify.NewTracker()

	var wg sync.WaitGroup
	for subject := 1; subject <= 8; subject++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range 100 {
				tracker.Record(subject, subject)
			}
		}()
	}
	wg.Wait()

	for subject := 1; subject <= 8; subject++ {
		assert.Equal(t, subject*100, tracker.TotalSubmitted(subject))
	}
}
