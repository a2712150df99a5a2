// Package clipboard provides the host clipboard backends.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"clipkeep/internal/clip"
	"clipkeep/internal/config"
)

// ErrUnsupported is returned by System when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard not supported on this system")

// System reads and writes the desktop clipboard.
type System struct{}

func NewSystem() *System { return &System{} }

func (*System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading system clipboard: %w", err)
	}
	return text, nil
}

func (*System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing system clipboard: %w", err)
	}
	return nil
}

// Memory is an in-process clipboard. Safe for concurrent use.
type Memory struct {
	mu   sync.Mutex
	text string
	// failing, when set, is returned from every read and write.
	failing error
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return "", m.failing
	}
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	m.text = text
	return nil
}

// Set places text on the clipboard as if another application copied it.
func (m *Memory) Set(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

// Fail makes every subsequent operation return err; nil restores normal behavior.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = err
}

// NewFromConfig creates a clip.Clipboard based on the clipboard config type.
func NewFromConfig(cfg config.ClipboardConfig) (clip.Clipboard, error) {
	switch cfg.Type {
	case "system", "":
		return NewSystem(), nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown clipboard type: %s", cfg.Type)
	}
}

var (
	_ clip.Clipboard = (*System)(nil)
	_ clip.Clipboard = (*Memory)(nil)
)
