package database

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"clipkeep/internal/clip"
)

const boltBucket = "clipkeep"

// BoltDatabase implements clip.Database in a single bbolt bucket.
type BoltDatabase struct {
	db *bbolt.DB
}

// NewBoltDatabase opens (or creates) the bolt file at path.
func NewBoltDatabase(path string) (*BoltDatabase, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDatabase{db: db}, nil
}

func (b *BoltDatabase) Get(key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v != nil {
			// Values are only valid for the life of the transaction.
			value = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, nil
}

func (b *BoltDatabase) Put(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

func (b *BoltDatabase) Delete(keys ...string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		for _, key := range keys {
			if err := bucket.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}
	return nil
}

// Path returns the bolt file path.
func (b *BoltDatabase) Path() string {
	return b.db.Path()
}

func (b *BoltDatabase) Close() error {
	return b.db.Close()
}

var _ clip.Database = (*BoltDatabase)(nil)
