package clip

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ExportVersion tags the format of export documents.
const ExportVersion = "1.0.0"

// ExportDocument aggregates everything the Store holds.
type ExportDocument struct {
	Items      []Record  `json:"items"`
	Folders    []Folder  `json:"folders"`
	Settings   Settings  `json:"settings"`
	UserData   *User     `json:"userData"`
	ExportDate time.Time `json:"exportDate"`
	Version    string    `json:"version"`
}

// Export builds the combined document. Unlike the degrading read methods,
// any read failure aborts the export so a broken store is never exported
// as an empty one.
func (s *Store) Export(now time.Time) ([]byte, error) {
	doc := ExportDocument{
		ExportDate: now.UTC(),
		Version:    ExportVersion,
	}

	var g errgroup.Group
	g.Go(func() error {
		records, err := s.loadRecords()
		doc.Items = records
		return err
	})
	g.Go(func() error {
		folders, err := s.loadFolders()
		doc.Folders = folders
		return err
	})
	g.Go(func() error {
		doc.Settings = s.Settings()
		return nil
	})
	g.Go(func() error {
		u, err := s.loadUser()
		doc.UserData = u
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("exporting data: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

// importDocument mirrors ExportDocument but keeps each field raw so absent
// fields can be told apart from empty ones.
type importDocument struct {
	Items    json.RawMessage `json:"items"`
	Folders  json.RawMessage `json:"folders"`
	Settings json.RawMessage `json:"settings"`
	UserData json.RawMessage `json:"userData"`
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// ImportSummary reports which parts of a document were applied.
type ImportSummary struct {
	Records  int  `json:"records"`
	Folders  int  `json:"folders"`
	Settings bool `json:"settings"`
	User     bool `json:"user"`
}

// Import applies each top-level field present in data independently.
// Absent fields leave the stored value untouched. Every present field is
// decoded before anything is written, so a malformed document changes nothing.
func (s *Store) Import(data []byte) (*ImportSummary, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding import: %w: %w", ErrInvalid, err)
	}

	var (
		records  []Record
		folders  []Folder
		settings = DefaultSettings()
		user     User
		summary  ImportSummary
	)

	if present(doc.Items) {
		if err := json.Unmarshal(doc.Items, &records); err != nil {
			return nil, fmt.Errorf("decoding items: %w: %w", ErrInvalid, err)
		}
	}
	if present(doc.Folders) {
		if err := json.Unmarshal(doc.Folders, &folders); err != nil {
			return nil, fmt.Errorf("decoding folders: %w: %w", ErrInvalid, err)
		}
	}
	if present(doc.Settings) {
		if err := json.Unmarshal(doc.Settings, &settings); err != nil {
			return nil, fmt.Errorf("decoding settings: %w: %w", ErrInvalid, err)
		}
	}
	if present(doc.UserData) {
		if err := json.Unmarshal(doc.UserData, &user); err != nil {
			return nil, fmt.Errorf("decoding user: %w: %w", ErrInvalid, err)
		}
	}

	if present(doc.Items) {
		if records == nil {
			records = []Record{}
		}
		if err := s.save(KeyRecords, records); err != nil {
			return nil, err
		}
		summary.Records = len(records)
	}
	if present(doc.Folders) {
		if folders == nil {
			folders = []Folder{}
		}
		if err := s.save(KeyFolders, folders); err != nil {
			return nil, err
		}
		summary.Folders = len(folders)
	}
	if present(doc.Settings) {
		if err := s.save(KeySettings, settings); err != nil {
			return nil, err
		}
		summary.Settings = true
	}
	if present(doc.UserData) {
		if err := s.save(KeyUser, user); err != nil {
			return nil, err
		}
		summary.User = true
	}

	if present(doc.Items) || present(doc.Folders) {
		if err := s.RecalculateAllFolderCounts(); err != nil {
			return nil, fmt.Errorf("recounting folders after import: %w", err)
		}
	}

	s.logger.Info("data imported",
		"records", summary.Records,
		"folders", summary.Folders,
		"settings", summary.Settings,
		"user", summary.User,
	)
	return &summary, nil
}
