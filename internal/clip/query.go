package clip

import (
	"sort"
	"strings"
	"time"
)

// Filter narrows a record list. Zero fields do not filter.
type Filter struct {
	Type     RecordType
	Favorite *bool
	// FolderID filters by folder when set; a pointer to "" selects uncategorized records.
	FolderID *string
	From     time.Time
	To       time.Time
}

// Apply returns the records matching every set criterion, keeping order.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.Favorite != nil && r.IsFavorite != *f.Favorite {
			continue
		}
		if f.FolderID != nil && r.FolderID != *f.FolderID {
			continue
		}
		if !f.From.IsZero() && r.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.Timestamp.After(f.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortBy names a record ordering.
type SortBy string

const (
	SortByDate         SortBy = "date"
	SortByAlphabetical SortBy = "alphabetical"
	SortByType         SortBy = "type"
	SortByFavorite     SortBy = "favorite"
)

// ParseSortBy validates a sort name.
func ParseSortBy(s string) (SortBy, bool) {
	switch SortBy(s) {
	case SortByDate, SortByAlphabetical, SortByType, SortByFavorite:
		return SortBy(s), true
	}
	return "", false
}

// ParseRecordType validates a record type name.
func ParseRecordType(s string) (RecordType, bool) {
	t := RecordType(s)
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// Sort returns a sorted copy of records. Date is newest first; favorite puts
// favorites first and falls back to newest first. Unknown orderings return
// the records unchanged.
func Sort(records []Record, by SortBy) []Record {
	out := append([]Record(nil), records...)
	switch by {
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp.After(out[j].Timestamp)
		})
	case SortByAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Text) < strings.ToLower(out[j].Text)
		})
	case SortByType:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Type < out[j].Type
		})
	case SortByFavorite:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].IsFavorite != out[j].IsFavorite {
				return out[i].IsFavorite
			}
			return out[i].Timestamp.After(out[j].Timestamp)
		})
	}
	return out
}
