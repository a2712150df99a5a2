// Package migrations holds the embedded schema migrations for the SQLite store.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// ErrNeedsMigration is returned when the database has never been migrated.
var ErrNeedsMigration = errors.New("database has no schema version (needs migration)")

// Status reports the applied schema version and the latest version shipped
// in this binary. A database that was never migrated reports ErrNeedsMigration.
func Status(db *sql.DB) (current, latest uint, err error) {
	latest, err = LatestVersion()
	if err != nil {
		return 0, 0, err
	}

	// The migrate instance is not closed: that would close db, which the caller owns.
	m, err := newMigrate(db)
	if err != nil {
		return 0, latest, err
	}

	current, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, latest, ErrNeedsMigration
	}
	if err != nil {
		return 0, latest, fmt.Errorf("failed to get database version: %w", err)
	}
	if dirty {
		return current, latest, fmt.Errorf("database is in dirty state at version %d (migration failed previously)", current)
	}
	return current, latest, nil
}

// CheckDBMigrationStatus returns nil only when the database is at the latest version.
func CheckDBMigrationStatus(db *sql.DB) error {
	current, latest, err := Status(db)
	if err != nil {
		return err
	}
	switch {
	case current < latest:
		return fmt.Errorf("database is at version %d but latest is %d (%d migrations behind)",
			current, latest, latest-current)
	case current > latest:
		return fmt.Errorf("database version %d is ahead of binary version %d (binary needs update)",
			current, latest)
	}
	return nil
}

// MigrateUp applies every pending migration. It is a no-op on an up-to-date database.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// LatestVersion returns the highest migration version embedded in the binary.
func LatestVersion() (uint, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("failed to read migration files: %w", err)
	}
	defer src.Close()
	return lastVersion(src)
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// lastVersion walks the source until Next fails, which marks the end.
func lastVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(v)
		if err != nil {
			return v, nil
		}
		v = next
	}
}
