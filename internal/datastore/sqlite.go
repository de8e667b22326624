package datastore

import (
	"fmt"
	"path/filepath"

	"github.com/birdlog/birding-go/internal/conf"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteStore implements DataStore for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

func validateSQLiteConfig(settings *conf.Settings) error {
	if settings.Output.SQLite.Path == "" {
		return fmt.Errorf("sqlite database path is empty")
	}
	return nil
}

// Open sets up the SQLite database connection and runs migrations.
func (store *SQLiteStore) Open() error {
	if err := validateSQLiteConfig(store.Settings); err != nil {
		return err // validateSQLiteConfig returns a properly formatted error
	}

	absoluteFilePath, err := filepath.Abs(store.Settings.Output.SQLite.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve SQLite database path: %w", err)
	}

	// Create a new GORM logger
	newLogger := createGormLogger(store.Settings.Debug)

	// Open the SQLite database with foreign key enforcement enabled
	dsn := absoluteFilePath + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newLogger, TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "SQLite", absoluteFilePath)
}
