package testutil

import (
	"strconv"
	"sync"
	"time"
)

// StubClock is a clip.Clock that only moves when a test advances it.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// FixedClock starts a StubClock at 2024-03-01 09:00 UTC.
func FixedClock() *StubClock {
	return &StubClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// StubIDGenerator is a clip.IDGenerator handing out "id-1", "id-2", ...
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "id-" + strconv.Itoa(g.next)
}
