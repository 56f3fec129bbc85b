package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/shivxmr/exemplar/internal/config"
	"github.com/shivxmr/exemplar/internal/storage"
)

// openStorage resolves the configured database path and opens the
// SQLite store. Callers own Close.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		var err error
		dbPath, err = config.DefaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return store, nil
}
