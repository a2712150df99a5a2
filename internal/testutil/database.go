package testutil

import (
	"errors"
	"sync"
	"testing"

	"clipkeep/internal/clip"
	"clipkeep/internal/database"
)

// NewTestDatabase creates a new in-memory SQLite database with migrations applied.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// NewTestStore creates a Store over a fresh in-memory database.
func NewTestStore(t *testing.T) *clip.Store {
	t.Helper()
	return clip.NewStore(NewTestDatabase(t), clip.NewNopLogger())
}

// ErrInjected is the error FaultyDatabase returns for failing operations.
var ErrInjected = errors.New("injected failure")

// FaultyDatabase wraps a clip.Database and fails selected operations on demand.
type FaultyDatabase struct {
	clip.Database

	mu        sync.Mutex
	failGet   map[string]bool
	failPut   map[string]bool
	putCounts map[string]int
}

// NewFaultyDatabase wraps db.
func NewFaultyDatabase(db clip.Database) *FaultyDatabase {
	return &FaultyDatabase{
		Database:  db,
		failGet:   make(map[string]bool),
		failPut:   make(map[string]bool),
		putCounts: make(map[string]int),
	}
}

// FailGet makes Get of key fail until cleared with fail=false.
func (f *FaultyDatabase) FailGet(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet[key] = fail
}

// FailPut makes Put of key fail until cleared with fail=false.
func (f *FaultyDatabase) FailPut(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPut[key] = fail
}

// Puts returns how many successful writes of key have happened.
func (f *FaultyDatabase) Puts(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putCounts[key]
}

func (f *FaultyDatabase) Get(key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet[key]
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Database.Get(key)
}

func (f *FaultyDatabase) Put(key string, value []byte) error {
	f.mu.Lock()
	fail := f.failPut[key]
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	if err := f.Database.Put(key, value); err != nil {
		return err
	}
	f.mu.Lock()
	f.putCounts[key]++
	f.mu.Unlock()
	return nil
}

var _ clip.Database = (*FaultyDatabase)(nil)
