package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"clipkeep/internal/clip"
)

type memoryBackup struct {
	data    []byte
	version int64
}

// MemoryVault keeps backups in memory. It is safe for concurrent use.
type MemoryVault struct {
	name    string
	mu      sync.RWMutex
	backups map[string]memoryBackup // "hostID/name" -> backup
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:    name,
		backups: make(map[string]memoryBackup),
	}
}

func backupKey(hostID, name string) string {
	return hostID + "/" + name
}

func (m *MemoryVault) PutBackup(hostID string, name string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups[backupKey(hostID, name)] = memoryBackup{data: data, version: version}
	return nil
}

func (m *MemoryVault) GetBackup(hostID string, name string, w io.Writer) error {
	m.mu.RLock()
	b, ok := m.backups[backupKey(hostID, name)]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("backup %q for host %s: %w", name, hostID, clip.ErrNotFound)
	}

	if _, err := io.Copy(w, bytes.NewReader(b.data)); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

func (m *MemoryVault) GetBackupVersion(hostID string, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backups[backupKey(hostID, name)].version, nil
}

// ValidateSetup always succeeds for an in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

var _ clip.Vault = (*MemoryVault)(nil)
