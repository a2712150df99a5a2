package testutil

import (
	"testing"

	"clipkeep/internal/clip"
	"clipkeep/internal/clipboard"
)

// Engine bundles a fully wired engine over in-memory backends.
type Engine struct {
	DB        *FaultyDatabase
	Clipboard *clipboard.Memory
	Clock     *StubClock
	IDs       *StubIDGenerator
	Store     *clip.Store
	Monitor   *clip.Monitor
	Service   *clip.Service
}

// NewEngine wires a Store, Monitor and Service over an in-memory database
// and clipboard, with a fixed clock and sequential ids.
func NewEngine(t *testing.T) *Engine {
	t.Helper()

	e := &Engine{
		DB:        NewFaultyDatabase(NewTestDatabase(t)),
		Clipboard: clipboard.NewMemory(),
		Clock:     FixedClock(),
		IDs:       NewStubIDGenerator(),
	}
	logger := clip.NewNopLogger()
	e.Store = clip.NewStore(e.DB, logger)
	e.Monitor = clip.NewMonitor(e.Clipboard, e.Store, e.Clock, e.IDs, logger)
	e.Service = clip.NewService(e.Store, e.Monitor, logger, e.Clock, e.IDs)
	return e
}
