package clip

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Keys under which the Store keeps its collections and singletons.
const (
	KeyRecords   = "clipboard_items"
	KeyFolders   = "folders"
	KeySettings  = "app_settings"
	KeyUser      = "user_data"
	KeyLastCheck = "last_clipboard_check"

	// KeyLastObserved holds the clipboard text last captured or written
	// back, so separate processes agree on what not to capture again.
	KeyLastObserved = "last_observed"
)

// AllKeys lists every key the Store writes.
var AllKeys = []string{KeyRecords, KeyFolders, KeySettings, KeyUser, KeyLastCheck, KeyLastObserved}

// Store owns every persisted entity. Each mutation loads the whole
// collection, modifies it in memory and writes the whole collection back.
// There is no locking: callers must not issue mutations concurrently.
//
// Read methods degrade to empty or default values and log on failure.
// Write methods return every failure to the caller.
type Store struct {
	db     Database
	logger Logger
}

// NewStore creates a Store persisting into db.
func NewStore(db Database, logger Logger) *Store {
	return &Store{db: db, logger: logger}
}

// load decodes the value under key into v. It reports false if the key is absent.
func (s *Store) load(key string, v any) (bool, error) {
	data, err := s.db.Get(key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// save encodes v and writes it under key.
func (s *Store) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.db.Put(key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Records

func (s *Store) loadRecords() ([]Record, error) {
	var records []Record
	if _, err := s.load(KeyRecords, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// ListRecords returns every record in store order (newest appended first).
// Missing or unreadable data yields an empty slice.
func (s *Store) ListRecords() []Record {
	records, err := s.loadRecords()
	if err != nil {
		s.logger.Error("listing records failed", "error", err)
		return []Record{}
	}
	return records
}

// Record returns the record with the given id.
func (s *Store) Record(id string) (*Record, error) {
	records, err := s.loadRecords()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
}

// AppendRecord prepends r to the collection and recounts its folder, if any.
func (s *Store) AppendRecord(r Record) error {
	records, err := s.loadRecords()
	if err != nil {
		return err
	}

	records = append([]Record{r}, records...)
	if err := s.save(KeyRecords, records); err != nil {
		return err
	}
	s.logger.Debug("record appended", "id", r.ID, "folder", r.FolderID)

	if r.FolderID != "" {
		if err := s.UpdateFolderCount(r.FolderID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateRecord replaces the stored record with the same id. The stored
// timestamp is kept. When the folder changes, both the old and the new
// folder are recounted.
func (s *Store) UpdateRecord(r Record) error {
	records, err := s.loadRecords()
	if err != nil {
		return err
	}

	idx := indexOfRecord(records, r.ID)
	if idx < 0 {
		return fmt.Errorf("record %s: %w", r.ID, ErrNotFound)
	}

	old := records[idx]
	r.Timestamp = old.Timestamp
	records[idx] = r
	if err := s.save(KeyRecords, records); err != nil {
		return err
	}

	if old.FolderID != r.FolderID {
		if old.FolderID != "" {
			if err := s.UpdateFolderCount(old.FolderID); err != nil {
				return err
			}
		}
		if r.FolderID != "" {
			if err := s.UpdateFolderCount(r.FolderID); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteRecord removes the record with the given id and recounts its folder.
func (s *Store) DeleteRecord(id string) error {
	records, err := s.loadRecords()
	if err != nil {
		return err
	}

	idx := indexOfRecord(records, id)
	if idx < 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}

	folderID := records[idx].FolderID
	records = append(records[:idx], records[idx+1:]...)
	if err := s.save(KeyRecords, records); err != nil {
		return err
	}
	s.logger.Debug("record deleted", "id", id)

	if folderID != "" {
		return s.UpdateFolderCount(folderID)
	}
	return nil
}

// SearchRecords returns records whose text or any tag contains query,
// ignoring case, in store order.
func (s *Store) SearchRecords(query string) []Record {
	q := strings.ToLower(query)
	var out []Record
	for _, r := range s.ListRecords() {
		if matchesQuery(&r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matchesQuery(r *Record, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(r.Text), lowerQuery) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}

func indexOfRecord(records []Record, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

// Folders

func (s *Store) loadFolders() ([]Folder, error) {
	var folders []Folder
	if _, err := s.load(KeyFolders, &folders); err != nil {
		return nil, err
	}
	if folders == nil {
		folders = []Folder{}
	}
	return folders, nil
}

// Folders returns every folder in creation order.
// Missing or unreadable data yields an empty slice.
func (s *Store) Folders() []Folder {
	folders, err := s.loadFolders()
	if err != nil {
		s.logger.Error("listing folders failed", "error", err)
		return []Folder{}
	}
	return folders
}

// Folder returns the folder with the given id.
func (s *Store) Folder(id string) (*Folder, error) {
	folders, err := s.loadFolders()
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if folders[i].ID == id {
			return &folders[i], nil
		}
	}
	return nil, fmt.Errorf("folder %s: %w", id, ErrNotFound)
}

// SaveFolder adds a new folder. It fails with ErrDuplicate if a folder with
// the same id or name already exists, leaving the collection untouched.
func (s *Store) SaveFolder(f Folder) error {
	folders, err := s.loadFolders()
	if err != nil {
		return err
	}

	for _, existing := range folders {
		if existing.ID == f.ID || existing.Name == f.Name {
			return fmt.Errorf("folder with name %q: %w", f.Name, ErrDuplicate)
		}
	}

	folders = append(folders, f)
	if err := s.save(KeyFolders, folders); err != nil {
		return err
	}
	s.logger.Info("folder saved", "id", f.ID, "name", f.Name)
	return nil
}

// UpdateFolder replaces the name, icon and color of an existing folder.
// CreatedAt and ItemCount stay as stored.
func (s *Store) UpdateFolder(f Folder) error {
	folders, err := s.loadFolders()
	if err != nil {
		return err
	}

	idx := -1
	for i, existing := range folders {
		if existing.ID == f.ID {
			idx = i
			continue
		}
		if existing.Name == f.Name {
			return fmt.Errorf("folder with name %q: %w", f.Name, ErrDuplicate)
		}
	}
	if idx < 0 {
		return fmt.Errorf("folder %s: %w", f.ID, ErrNotFound)
	}

	f.CreatedAt = folders[idx].CreatedAt
	f.ItemCount = folders[idx].ItemCount
	folders[idx] = f
	return s.save(KeyFolders, folders)
}

// DeleteFolder removes a folder and moves its records to uncategorized.
// Records are never deleted along with their folder.
func (s *Store) DeleteFolder(id string) error {
	folders, err := s.loadFolders()
	if err != nil {
		return err
	}

	idx := -1
	for i := range folders {
		if folders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}

	name := folders[idx].Name
	folders = append(folders[:idx], folders[idx+1:]...)
	if err := s.save(KeyFolders, folders); err != nil {
		return err
	}

	records, err := s.loadRecords()
	if err != nil {
		return err
	}
	moved := 0
	for i := range records {
		if records[i].FolderID == id {
			records[i].FolderID = ""
			moved++
		}
	}
	if moved > 0 {
		if err := s.save(KeyRecords, records); err != nil {
			return err
		}
	}

	s.logger.Info("folder deleted", "id", id, "name", name, "uncategorized", moved)
	return nil
}

// UpdateFolderCount recounts the records belonging to one folder.
// Unknown folder ids are ignored.
func (s *Store) UpdateFolderCount(folderID string) error {
	records, err := s.loadRecords()
	if err != nil {
		return err
	}
	folders, err := s.loadFolders()
	if err != nil {
		return err
	}

	count := 0
	for i := range records {
		if records[i].FolderID == folderID {
			count++
		}
	}

	found := false
	for i := range folders {
		if folders[i].ID == folderID {
			folders[i].ItemCount = count
			found = true
		}
	}
	if !found {
		return nil
	}

	if err := s.save(KeyFolders, folders); err != nil {
		return err
	}
	s.logger.Debug("folder recounted", "id", folderID, "count", count)
	return nil
}

// RecalculateAllFolderCounts recomputes every folder's ItemCount from
// scratch. It is idempotent and safe to call at any time.
func (s *Store) RecalculateAllFolderCounts() error {
	records, err := s.loadRecords()
	if err != nil {
		return err
	}
	folders, err := s.loadFolders()
	if err != nil {
		return err
	}

	for i := range folders {
		count := 0
		for j := range records {
			if records[j].FolderID == folders[i].ID {
				count++
			}
		}
		folders[i].ItemCount = count
	}

	return s.save(KeyFolders, folders)
}

// Settings and user

// Settings returns the settings record, creating and persisting the
// defaults on first access. Failures are logged and yield defaults.
func (s *Store) Settings() Settings {
	settings := DefaultSettings()
	found, err := s.load(KeySettings, &settings)
	if err != nil {
		s.logger.Error("reading settings failed", "error", err)
		return DefaultSettings()
	}
	if !found {
		if err := s.save(KeySettings, settings); err != nil {
			s.logger.Error("persisting default settings failed", "error", err)
		}
	}
	return settings
}

// SaveSettings replaces the settings record.
func (s *Store) SaveSettings(settings Settings) error {
	return s.save(KeySettings, settings)
}

func (s *Store) loadUser() (*User, error) {
	var u User
	found, err := s.load(KeyUser, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// User returns the stored user, or nil if none is stored or it cannot be read.
func (s *Store) User() *User {
	u, err := s.loadUser()
	if err != nil {
		s.logger.Error("reading user failed", "error", err)
		return nil
	}
	return u
}

// SaveUser replaces the user record.
func (s *Store) SaveUser(u User) error {
	return s.save(KeyUser, u)
}

// Last clipboard check

// LastCheck returns the time of the last clipboard poll, if one was recorded.
func (s *Store) LastCheck() (time.Time, bool) {
	data, err := s.db.Get(KeyLastCheck)
	if err != nil {
		s.logger.Error("reading last clipboard check failed", "error", err)
		return time.Time{}, false
	}
	if data == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		s.logger.Error("parsing last clipboard check failed", "error", err)
		return time.Time{}, false
	}
	return t, true
}

// SaveLastCheck records the time of a clipboard poll.
func (s *Store) SaveLastCheck(t time.Time) error {
	if err := s.db.Put(KeyLastCheck, []byte(t.UTC().Format(time.RFC3339Nano))); err != nil {
		return fmt.Errorf("writing %s: %w", KeyLastCheck, err)
	}
	return nil
}

// LastObserved returns the clipboard text the monitor last captured or
// wrote. A read failure is logged and reported as absent.
func (s *Store) LastObserved() (string, bool) {
	data, err := s.db.Get(KeyLastObserved)
	if err != nil {
		s.logger.Error("reading last observed clipboard text failed", "error", err)
		return "", false
	}
	if data == nil {
		return "", false
	}
	return string(data), true
}

// SaveLastObserved records text as the last clipboard text seen or written.
func (s *Store) SaveLastObserved(text string) error {
	if err := s.db.Put(KeyLastObserved, []byte(text)); err != nil {
		return fmt.Errorf("writing %s: %w", KeyLastObserved, err)
	}
	return nil
}

// ClearAll removes every collection and singleton.
func (s *Store) ClearAll() error {
	if err := s.db.Delete(AllKeys...); err != nil {
		return fmt.Errorf("clearing data: %w", err)
	}
	s.logger.Info("all data cleared")
	return nil
}
