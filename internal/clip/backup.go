package clip

import (
	"bytes"
	"fmt"
)

// BackupName is the name under which the export document is kept in a vault.
const BackupName = "clipkeep-export.json"

// PushBackup exports the store and uploads it to v under hostID.
// Each push stores the next version number. Returns the version written.
func (s *Service) PushBackup(v Vault, hostID string) (int64, error) {
	data, err := s.store.Export(s.clock.Now())
	if err != nil {
		return 0, err
	}

	current, err := v.GetBackupVersion(hostID, BackupName)
	if err != nil {
		return 0, fmt.Errorf("reading backup version: %w", err)
	}
	next := current + 1

	if err := v.PutBackup(hostID, BackupName, bytes.NewReader(data), int64(len(data)), next); err != nil {
		return 0, fmt.Errorf("uploading backup: %w", err)
	}

	s.logger.Info("backup pushed", "host", hostID, "version", next, "bytes", len(data))
	return next, nil
}

// PullBackup downloads the latest backup for hostID and imports it.
// Returns the version restored along with the import summary.
func (s *Service) PullBackup(v Vault, hostID string) (int64, *ImportSummary, error) {
	version, err := v.GetBackupVersion(hostID, BackupName)
	if err != nil {
		return 0, nil, fmt.Errorf("reading backup version: %w", err)
	}
	if version == 0 {
		return 0, nil, fmt.Errorf("backup for host %s: %w", hostID, ErrNotFound)
	}

	var buf bytes.Buffer
	if err := v.GetBackup(hostID, BackupName, &buf); err != nil {
		return 0, nil, fmt.Errorf("downloading backup: %w", err)
	}

	summary, err := s.store.Import(buf.Bytes())
	if err != nil {
		return 0, nil, err
	}

	s.logger.Info("backup pulled", "host", hostID, "version", version)
	return version, summary, nil
}
