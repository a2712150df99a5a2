package clip

import (
	"fmt"
	"strings"
	"time"
)

// Monitor detects clipboard changes and captures them into the Store.
// It schedules nothing: callers invoke Poll on their own timer and must not
// run two polls at once.
type Monitor struct {
	clipboard Clipboard
	store     *Store
	clock     Clock
	idgen     IDGenerator
	logger    Logger

	lastObserved string
	active       bool
}

// NewMonitor creates a Monitor. Call Start before the first Poll so the
// text already on the clipboard is not captured.
func NewMonitor(clipboard Clipboard, store *Store, clock Clock, idgen IDGenerator, logger Logger) *Monitor {
	return &Monitor{
		clipboard: clipboard,
		store:     store,
		clock:     clock,
		idgen:     idgen,
		logger:    logger,
	}
}

// Start seeds the last observed text from the live clipboard, persists it
// and marks the monitor active. A clipboard failure is logged and leaves the
// seed to whatever the store last recorded.
func (m *Monitor) Start() {
	text, err := m.clipboard.ReadText()
	if err != nil {
		m.logger.Warn("reading clipboard at startup failed", "error", err)
		m.lastObserved, _ = m.store.LastObserved()
	} else {
		m.observe(text)
	}
	m.active = true
	m.logger.Info("clipboard monitoring started")
}

// Resume marks the monitor active without reading the clipboard. The seed is
// the text the store last recorded as observed, or fallback when none was
// recorded. One-shot callers pass the newest record's text as fallback.
func (m *Monitor) Resume(fallback string) {
	if last, ok := m.store.LastObserved(); ok {
		fallback = last
	}
	m.lastObserved = fallback
	m.active = true
}

// Stop marks the monitor inactive.
func (m *Monitor) Stop() {
	m.active = false
	m.logger.Info("clipboard monitoring stopped")
}

// Active reports whether Start has been called without a later Stop.
func (m *Monitor) Active() bool {
	return m.active
}

// LastObserved returns the most recent clipboard text the monitor has seen or written.
func (m *Monitor) LastObserved() string {
	return m.lastObserved
}

// Poll checks the clipboard once and reports whether a new record was captured.
// Nothing is read when auto-save is disabled. Failures are logged and
// reported as no change; the last observed text only advances once the
// record is stored, so a failed append is retried on the next poll.
func (m *Monitor) Poll() bool {
	if !m.store.Settings().AutoSave {
		return false
	}

	text, err := m.clipboard.ReadText()
	if err != nil {
		m.logger.Error("reading clipboard failed", "error", err)
		return false
	}

	// Another process may have copied out or captured since our last look.
	if last, ok := m.store.LastObserved(); ok {
		m.lastObserved = last
	}

	now := m.clock.Now()
	if strings.TrimSpace(text) == "" || text == m.lastObserved {
		m.recordCheck(now)
		return false
	}

	r := NewRecord(m.idgen.New(), text, now)
	if err := m.store.AppendRecord(r); err != nil {
		m.logger.Error("saving clipboard record failed", "error", err)
		return false
	}
	m.observe(text)
	m.recordCheck(now)

	m.logger.Info("clipboard captured", "id", r.ID, "type", string(r.Type), "preview", Truncate(text, 50))
	return true
}

// observe remembers text as the last observed clipboard text, in memory and
// in the store.
func (m *Monitor) observe(text string) {
	m.lastObserved = text
	if err := m.store.SaveLastObserved(text); err != nil {
		m.logger.Warn("saving last observed clipboard text failed", "error", err)
	}
}

func (m *Monitor) recordCheck(now time.Time) {
	if err := m.store.SaveLastCheck(now); err != nil {
		m.logger.Warn("saving last clipboard check failed", "error", err)
	}
}

// CopyOut writes text to the clipboard and remembers it as observed so the
// next Poll, in this process or another sharing the store, does not capture
// the app's own output.
func (m *Monitor) CopyOut(text string) error {
	if err := m.clipboard.WriteText(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	m.observe(text)
	return nil
}

// Current returns the live clipboard text, or "" if it cannot be read.
func (m *Monitor) Current() string {
	text, err := m.clipboard.ReadText()
	if err != nil {
		m.logger.Warn("reading clipboard failed", "error", err)
		return ""
	}
	return text
}

// Available reports whether the clipboard can be read.
func (m *Monitor) Available() bool {
	_, err := m.clipboard.ReadText()
	return err == nil
}
