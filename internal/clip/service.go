package clip

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sahilm/fuzzy"
)

// FolderColors is the palette a folder color is picked from when none is given.
var FolderColors = []string{
	"#6366F1", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#84CC16", "#F97316", "#EC4899", "#6B7280",
}

// FolderIcons is the set a folder icon is picked from when none is given.
var FolderIcons = []string{
	"folder", "folder-open", "document-text", "code-bracket",
	"link", "tag", "star", "heart", "bookmark", "archive-box",
}

// DefaultRecentLimit is the number of records Recent returns when limit is not positive.
const DefaultRecentLimit = 20

type textInput struct {
	Text string `validate:"required,max=10000"`
}

type folderInput struct {
	Name  string `validate:"required,max=64"`
	Color string `validate:"omitempty,hexcolor"`
}

// Service is the orchestration layer the CLI and HTTP API call into.
// It coordinates the Store and Monitor and validates user input.
type Service struct {
	store    *Store
	monitor  *Monitor
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	validate *validator.Validate
}

// NewService creates a new Service with the provided dependencies.
func NewService(store *Store, monitor *Monitor, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:    store,
		monitor:  monitor,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Store returns the underlying store.
func (s *Service) Store() *Store { return s.store }

// Monitor returns the clipboard monitor.
func (s *Service) Monitor() *Monitor { return s.monitor }

func (s *Service) validateText(text string) error {
	if err := s.validate.Struct(textInput{Text: strings.TrimSpace(text)}); err != nil {
		return invalid(err)
	}
	return nil
}

// invalid converts validator failures into an ErrInvalid wrap with a readable message.
func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%s fails %q: %w", strings.ToLower(fe.Field()), fe.Tag(), ErrInvalid)
	}
	return fmt.Errorf("%v: %w", err, ErrInvalid)
}

// Records

// AddManual stores text typed in by the user. The folder, when given, must exist.
func (s *Service) AddManual(text, folderID string, favorite bool) (*Record, error) {
	if err := s.validateText(text); err != nil {
		return nil, err
	}
	if folderID != "" {
		if _, err := s.store.Folder(folderID); err != nil {
			return nil, err
		}
	}

	r := NewRecord(s.idgen.New(), text, s.clock.Now())
	r.IsFavorite = favorite
	r.FolderID = folderID
	if err := s.store.AppendRecord(r); err != nil {
		return nil, fmt.Errorf("adding record: %w", err)
	}

	s.logger.Info("record added", "id", r.ID, "type", string(r.Type), "folder", folderID)
	return &r, nil
}

// Record returns one record by id.
func (s *Service) Record(id string) (*Record, error) {
	return s.store.Record(id)
}

// Records returns every record, newest appended first.
func (s *Service) Records() []Record {
	return s.store.ListRecords()
}

// EditText replaces the text of a record. Tags and type stay as they were
// derived at creation.
func (s *Service) EditText(id, text string) (*Record, error) {
	if err := s.validateText(text); err != nil {
		return nil, err
	}
	r, err := s.store.Record(id)
	if err != nil {
		return nil, err
	}
	r.Text = text
	if err := s.store.UpdateRecord(*r); err != nil {
		return nil, fmt.Errorf("editing record: %w", err)
	}
	return r, nil
}

// ToggleFavorite flips the favorite flag of a record.
func (s *Service) ToggleFavorite(id string) (*Record, error) {
	r, err := s.store.Record(id)
	if err != nil {
		return nil, err
	}
	r.IsFavorite = !r.IsFavorite
	if err := s.store.UpdateRecord(*r); err != nil {
		return nil, fmt.Errorf("toggling favorite: %w", err)
	}
	return r, nil
}

// MoveToFolder assigns a record to a folder, or to uncategorized when
// folderID is empty.
func (s *Service) MoveToFolder(id, folderID string) (*Record, error) {
	if folderID != "" {
		if _, err := s.store.Folder(folderID); err != nil {
			return nil, err
		}
	}
	r, err := s.store.Record(id)
	if err != nil {
		return nil, err
	}
	r.FolderID = folderID
	if err := s.store.UpdateRecord(*r); err != nil {
		return nil, fmt.Errorf("moving record: %w", err)
	}
	return r, nil
}

// DeleteRecord removes a record.
func (s *Service) DeleteRecord(id string) error {
	if err := s.store.DeleteRecord(id); err != nil {
		return err
	}
	s.logger.Info("record deleted", "id", id)
	return nil
}

// RecordsInFolder returns the records of one folder; an empty folderID
// returns uncategorized records.
func (s *Service) RecordsInFolder(folderID string) []Record {
	return Filter{FolderID: &folderID}.Apply(s.store.ListRecords())
}

// Favorites returns every favorite record.
func (s *Service) Favorites() []Record {
	fav := true
	return Filter{Favorite: &fav}.Apply(s.store.ListRecords())
}

// Recent returns up to limit records, newest timestamp first.
func (s *Service) Recent(limit int) []Record {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	records := Sort(s.store.ListRecords(), SortByDate)
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

// Search is a case-insensitive substring match on text and tags.
func (s *Service) Search(query string) []Record {
	return s.store.SearchRecords(query)
}

type recordSource []Record

func (rs recordSource) String(i int) string { return rs[i].Text }
func (rs recordSource) Len() int            { return len(rs) }

// FuzzySearch ranks records by how well their text matches query as a
// subsequence, best match first.
func (s *Service) FuzzySearch(query string) []Record {
	records := s.store.ListRecords()
	matches := fuzzy.FindFrom(query, recordSource(records))
	out := make([]Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}
	return out
}

// Folders

// CreateFolder adds a folder. An empty icon or color is picked at random
// from FolderIcons and FolderColors.
func (s *Service) CreateFolder(name, icon, color string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if err := s.validate.Struct(folderInput{Name: name, Color: color}); err != nil {
		return nil, invalid(err)
	}
	if icon == "" {
		icon = FolderIcons[rand.IntN(len(FolderIcons))]
	}
	if color == "" {
		color = FolderColors[rand.IntN(len(FolderColors))]
	}

	f := Folder{
		ID:        s.idgen.New(),
		Name:      name,
		Icon:      icon,
		Color:     color,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.SaveFolder(f); err != nil {
		return nil, err
	}
	return &f, nil
}

// RenameFolder changes a folder's name.
func (s *Service) RenameFolder(id, name string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if err := s.validate.Struct(folderInput{Name: name}); err != nil {
		return nil, invalid(err)
	}
	f, err := s.store.Folder(id)
	if err != nil {
		return nil, err
	}
	f.Name = name
	if err := s.store.UpdateFolder(*f); err != nil {
		return nil, err
	}
	return s.store.Folder(id)
}

// DeleteFolder removes a folder; its records become uncategorized.
func (s *Service) DeleteFolder(id string) error {
	return s.store.DeleteFolder(id)
}

// Folders recounts every folder and returns them.
func (s *Service) Folders() []Folder {
	if err := s.store.RecalculateAllFolderCounts(); err != nil {
		s.logger.Warn("recounting folders failed", "error", err)
	}
	return s.store.Folders()
}

// Clipboard

// CopyOut writes a stored record's text back to the clipboard.
func (s *Service) CopyOut(id string) (*Record, error) {
	r, err := s.store.Record(id)
	if err != nil {
		return nil, err
	}
	if err := s.monitor.CopyOut(r.Text); err != nil {
		return nil, err
	}
	s.logger.Info("record copied to clipboard", "id", id)
	return r, nil
}

// Settings and data

// Settings returns the stored settings, creating the defaults on first use.
func (s *Service) Settings() Settings {
	return s.store.Settings()
}

// SaveSettings validates and stores settings.
func (s *Service) SaveSettings(settings Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return invalid(err)
	}
	return s.store.SaveSettings(settings)
}

// RecountFolders recalculates every folder's item count.
func (s *Service) RecountFolders() ([]Folder, error) {
	if err := s.store.RecalculateAllFolderCounts(); err != nil {
		return nil, err
	}
	return s.store.Folders(), nil
}

// Export returns the export document stamped with the current time.
func (s *Service) Export() ([]byte, error) {
	return s.store.Export(s.clock.Now())
}

// Import applies an export document.
func (s *Service) Import(data []byte) (*ImportSummary, error) {
	summary, err := s.store.Import(data)
	if err != nil {
		return nil, err
	}
	s.logger.Info("import applied", "records", summary.Records, "folders", summary.Folders)
	return summary, nil
}
