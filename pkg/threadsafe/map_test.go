package threadsafe_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/st3v3nmw/lbcheck/pkg/threadsafe"
)

func TestMapUpdateConcurrent(t *testing.T) {
	m := threadsafe.NewMap[int, []int]()

	var wg sync.WaitGroup
	for key := range 4 {
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()

				m.Update(key, func(cur []int, _ bool) []int {
					return append(cur, i)
				})
			}()
		}
	}
	wg.Wait()

	assert.Equal(t, 4, m.Len())
	for _, v := range m.All() {
		assert.Len(t, v, 50)
	}
}

func TestMapGetSet(t *testing.T) {
	m := threadsafe.NewMap[string, int]()

	_, ok := m.Get("missing")
	assert.False(t, ok)

	m.Set("a", 1)
	m.Update("a", func(v int, exists bool) int {
		assert.True(t, exists)
		return v + 1
	})

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMapAllIsASnapshot(t *testing.T) {
	m := threadsafe.NewMap[int, string]()
	m.Set(1, "one")
	m.Set(2, "two")

	seen := 0
	for k := range m.All() {
		m.Set(k+10, "later")
		seen++
	}

	assert.Equal(t, 2, seen)
	assert.Equal(t, 4, m.Len())
}
