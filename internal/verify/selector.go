package verify

import "math/rand/v2"

// attemptsPerSubject bounds random sampling to count*attemptsPerSubject draws.
const attemptsPerSubject = 10

// sweepLimit is the largest range that may be swept linearly once random
// sampling runs out of attempts.
const sweepLimit = 1 << 16

// Select draws count unique identifiers from r, none of which are in exclude.
// It returns fewer than count identifiers when the range cannot supply them
// within the attempt budget.
func Select(rng *rand.Rand, count int, exclude map[int]bool, r IDRange) []int {
	if count <= 0 || r.Size() == 0 {
		return []int{}
	}

	picked := make([]int, 0, count)
	seen := make(map[int]bool, count)
	take := func(id int) {
		if exclude[id] || seen[id] {
			return
		}

		seen[id] = true
		picked = append(picked, id)
	}

	for attempts := 0; len(picked) < count && attempts < count*attemptsPerSubject; attempts++ {
		take(r.Min + rng.IntN(r.Size()))
	}

	if len(picked) < count && r.Size() <= sweepLimit {
		offset := rng.IntN(r.Size())
		for i := 0; i < r.Size() && len(picked) < count; i++ {
			take(r.Min + (offset+i)%r.Size())
		}
	}

	return picked
}
