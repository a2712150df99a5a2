package database

import (
	"fmt"
	"os"
	"path/filepath"

	"clipkeep/internal/clip"
	"clipkeep/internal/config"
)

// NewDatabaseFromConfig creates a clip.Database implementation based on the database config type.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string) (clip.Database, error) {
	switch cfg.Type {
	case "sqlite":
		dir, err := dataDir(cfg)
		if err != nil {
			return nil, err
		}
		return openSQLite(filepath.Join(dir, hostID+".db"))
	case "bolt":
		dir, err := dataDir(cfg)
		if err != nil {
			return nil, err
		}
		db, err := NewBoltDatabase(filepath.Join(dir, hostID+".bolt"))
		if err != nil {
			return nil, err
		}
		return db, nil
	case "memory":
		return openSQLite(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func dataDir(cfg config.DatabaseConfig) (string, error) {
	if cfg.DataDir == "" {
		return "", fmt.Errorf("data_dir required for %s database", cfg.Type)
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return cfg.DataDir, nil
}

// openSQLite avoids returning a typed nil inside the interface on failure.
func openSQLite(path string) (clip.Database, error) {
	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	return db, nil
}
