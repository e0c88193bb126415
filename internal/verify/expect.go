package verify

// ExpectedTotal is the total the service must report once settled.
func ExpectedTotal(baseline, submitted int) int {
	return baseline + submitted
}

// ExpectedRank is one more than the number of other entries in comparison
// that strictly exceed total.
func ExpectedRank(subjectID, total int, comparison Snapshot) int {
	return higherThan(subjectID, total, comparison) + 1
}

// ExpectedMembership reports whether total qualifies subjectID for the top n
// of comparison.
//
// comparison is the snapshot taken before any submission, so concurrent
// traffic from other users can make this prediction wrong. Disagreement with
// the observed membership is reported as drift, not as a failure.
func ExpectedMembership(subjectID, total int, comparison Snapshot, n int) bool {
	return higherThan(subjectID, total, comparison) < n
}

func higherThan(subjectID, total int, comparison Snapshot) int {
	count := 0
	for _, entry := range comparison.Entries {
		if entry.UserID == subjectID {
			continue
		}

		if entry.TotalScore > total {
			count++
		}
	}

	return count
}
