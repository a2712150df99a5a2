package clip

// Database is the flat key-value storage the Store keeps its collections in.
// Every value is a whole serialized collection or singleton record; the Store
// never asks for partial reads or writes.
type Database interface {
	// Get returns the value stored under key, or nil with no error if the key is absent.
	Get(key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(keys ...string) error

	// Close closes the underlying storage.
	Close() error
}

// Clipboard is the host clipboard boundary.
type Clipboard interface {
	// ReadText returns the current clipboard text.
	ReadText() (string, error)

	// WriteText replaces the clipboard contents with text.
	WriteText(text string) error
}
