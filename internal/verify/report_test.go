package verify_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st3v3nmw/lbcheck/internal/verify"
)

func TestAggregateEmpty(t *testing.T) {
	summary := verify.Aggregate(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.PassRate)
	assert.NotNil(t, summary.Verdicts)

	report := &verify.Report{Summary: summary}
	assert.False(t, report.OK())
}

func TestAggregateConsistency(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))

	for range 100 {
		verdicts := make([]verify.Verdict, rng.IntN(20))
		for i := range verdicts {
			verdicts[i] = verify.Verdict{SubjectID: rng.IntN(1000), Pass: rng.IntN(2) == 1}
		}

		summary := verify.Aggregate(verdicts)

		assert.Equal(t, len(verdicts), summary.Total)
		assert.Equal(t, summary.Total, summary.Passed+summary.Failed)
		if summary.Total > 0 {
			assert.InDelta(t, float64(summary.Passed)/float64(summary.Total), summary.PassRate, 1e-12)
		} else {
			assert.Equal(t, 0.0, summary.PassRate)
		}

		// Input order is preserved.
		assert.Equal(t, verdicts, summary.Verdicts)
	}
}

func TestAggregateCounts(t *testing.T) {
	summary := verify.Aggregate([]verify.Verdict{
		{SubjectID: 3, Pass: false},
		{SubjectID: 1, Pass: true},
		{SubjectID: 2, Pass: true},
		{SubjectID: 4, Pass: true},
	})

	assert.Equal(t, 3, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0.75, summary.PassRate)
	assert.Equal(t, 3, summary.Verdicts[0].SubjectID)

	report := &verify.Report{Summary: summary}
	assert.False(t, report.OK())
}
