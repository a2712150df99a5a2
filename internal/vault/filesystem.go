package vault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"clipkeep/internal/clip"
)

// FileSystemVault stores backups as files under a root directory:
//
//	<root>/
//	  <hostID>/
//	    <name>           (the backup document)
//	    <name>.version   (its version number)
type FileSystemVault struct {
	name string
	root string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vault root: %w", err)
	}
	return &FileSystemVault{name: name, root: root}, nil
}

func (v *FileSystemVault) hostDir(hostID string) string {
	return filepath.Join(v.root, hostID)
}

// PutBackup writes the backup and then its version file, each atomically.
func (v *FileSystemVault) PutBackup(hostID string, name string, r io.Reader, size int64, version int64) error {
	dir := v.hostDir(hostID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create host directory: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, name), r, size); err != nil {
		return err
	}
	versionData := strconv.FormatInt(version, 10)
	return writeAtomic(filepath.Join(dir, name+".version"), strings.NewReader(versionData), int64(len(versionData)))
}

func (v *FileSystemVault) GetBackup(hostID string, name string, w io.Writer) error {
	f, err := os.Open(filepath.Join(v.hostDir(hostID), name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("backup %q for host %s: %w", name, hostID, clip.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	return nil
}

// GetBackupVersion returns 0 if no version file exists.
func (v *FileSystemVault) GetBackupVersion(hostID string, name string) (int64, error) {
	data, err := os.ReadFile(filepath.Join(v.hostDir(hostID), name+".version"))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading version file: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup verifies that the vault root is an accessible directory.
func (v *FileSystemVault) ValidateSetup() error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("vault root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault root is not a directory: %s", v.root)
	}
	return nil
}

// writeAtomic copies r into a temp file next to destPath and renames it into place.
func writeAtomic(destPath string, r io.Reader, expectedSize int64) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	committed = true
	return nil
}

var _ clip.Vault = (*FileSystemVault)(nil)
