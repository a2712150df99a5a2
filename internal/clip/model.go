package clip

import (
	"slices"
	"time"

	"github.com/creasty/defaults"

	"clipkeep/internal/classify"
)

// RecordType is the content classification of a record.
type RecordType = classify.Kind

const (
	TypeText    = classify.Text
	TypeLink    = classify.Link
	TypeHashtag = classify.Hashtag
	TypeCode    = classify.Code
)

// Record is a single captured or manually added clipboard entry.
// ID and Timestamp never change after creation; Tags and Type are derived
// once at creation and are not recomputed when Text is edited.
type Record struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Timestamp  time.Time  `json:"timestamp"`
	IsFavorite bool       `json:"isFavorite"`
	FolderID   string     `json:"folderId,omitempty"`
	Tags       []string   `json:"tags"`
	Type       RecordType `json:"type"`
}

// HasTag reports whether the record carries tag.
func (r *Record) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// Folder is a user-defined bucket records may belong to.
// ItemCount is a cached value; it is only correct right after a recount.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Theme is the UI theme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Settings is the process-wide settings record.
type Settings struct {
	Theme             Theme `json:"theme" default:"system" validate:"oneof=light dark system"`
	AutoSave          bool  `json:"autoSave" default:"true"`
	TagSuggestions    bool  `json:"tagSuggestions" default:"true"`
	BackgroundSync    bool  `json:"backgroundSync" default:"true"`
	HapticFeedback    bool  `json:"hapticFeedback" default:"true"`
	IsPremium         bool  `json:"isPremium"`
	GoogleDriveBackup bool  `json:"googleDriveBackup"`
}

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	var s Settings
	// Only fails for malformed tags, which would be a programming error.
	if err := defaults.Set(&s); err != nil {
		panic(err)
	}
	return s
}

// SubscriptionType is the user's plan.
type SubscriptionType string

const (
	SubscriptionFree    SubscriptionType = "free"
	SubscriptionPremium SubscriptionType = "premium"
)

// User describes subscription state. It is stored and returned, nothing more.
type User struct {
	ID                 string           `json:"id"`
	Email              string           `json:"email,omitempty"`
	SubscriptionType   SubscriptionType `json:"subscriptionType"`
	SubscriptionExpiry *time.Time       `json:"subscriptionExpiry,omitempty"`
}

// NewRecord builds a record for text, deriving its type and tags.
func NewRecord(id, text string, ts time.Time) Record {
	return Record{
		ID:        id,
		Text:      text,
		Timestamp: ts,
		Tags:      classify.Tags(text),
		Type:      classify.Type(text),
	}
}
