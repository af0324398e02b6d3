package games

import (
	"math/rand/v2"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 9, 19, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// countingRand counts IntN calls so tests can tell when a column was reshuffled.
type countingRand struct {
	r     *rand.Rand
	calls int
}

func newCountingRand(seed uint64) *countingRand {
	return &countingRand{r: rand.New(rand.NewPCG(seed, seed+1))}
}

func (c *countingRand) IntN(n int) int {
	c.calls++
	return c.r.IntN(n)
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func itemID(it Item) string { return it.ID }

func productID(p Product) string { return p.ID }
