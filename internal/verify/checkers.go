package verify

import (
	"cmp"
	"fmt"
)

// Checker is a composable predicate used to judge observed values against
// expectations.
type Checker[T any] interface {
	// Check returns true if actual satisfies this checker's condition.
	Check(actual T) bool
	// Expected returns a human-readable description of what was expected.
	Expected() string
}

// isChecker validates exact value matching.
type isChecker[T comparable] struct {
	value T
}

// Is creates a checker that validates exact equality.
func Is[T comparable](value T) isChecker[T] {
	return isChecker[T]{value: value}
}

func (m isChecker[T]) Check(actual T) bool {
	return actual == m.value
}

func (m isChecker[T]) Expected() string {
	return fmt.Sprintf("%v", m.value)
}

// atMostChecker validates an upper bound.
type atMostChecker[T cmp.Ordered] struct {
	limit T
}

// AtMost creates a checker that accepts values <= limit.
func AtMost[T cmp.Ordered](limit T) atMostChecker[T] {
	return atMostChecker[T]{limit: limit}
}

func (m atMostChecker[T]) Check(actual T) bool {
	return actual <= m.limit
}

func (m atMostChecker[T]) Expected() string {
	return fmt.Sprintf("at most %v", m.limit)
}

// aboveChecker validates a strict lower bound.
type aboveChecker[T cmp.Ordered] struct {
	limit T
}

// Above creates a checker that accepts values > limit.
func Above[T cmp.Ordered](limit T) aboveChecker[T] {
	return aboveChecker[T]{limit: limit}
}

func (m aboveChecker[T]) Check(actual T) bool {
	return actual > m.limit
}

func (m aboveChecker[T]) Expected() string {
	return fmt.Sprintf("above %v", m.limit)
}
