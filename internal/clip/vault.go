package clip

import "io"

// Vault is a destination for backups of the export document.
// All operations use io.Reader/io.Writer so backends can stream.
type Vault interface {
	// PutBackup stores a named backup for a specific host.
	// size is the number of bytes that will be read from r.
	// version is stored alongside the backup so pulls can report it.
	PutBackup(hostID string, name string, r io.Reader, size int64, version int64) error

	// GetBackup retrieves a named backup for a specific host and writes it to w.
	GetBackup(hostID string, name string, w io.Writer) error

	// GetBackupVersion returns the version of a named backup on a host.
	// Returns 0 if nothing has been stored for this host/name.
	GetBackupVersion(hostID string, name string) (int64, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
