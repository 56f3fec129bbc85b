package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS merged_data (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					order_id TEXT,
					transaction_type TEXT,
					payment_type TEXT,
					description TEXT,
					invoice_amount REAL,
					net_amount REAL,
					payment_net_amount REAL,
					shipment_invoice_amount REAL,
					order_date DATETIME,
					payment_date DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_merged_data_order_id ON merged_data(order_id)`,

				`CREATE TABLE IF NOT EXISTS processed_data (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					merged_data_id INTEGER UNIQUE,
					order_id TEXT,
					category TEXT NOT NULL,
					transaction_type TEXT,
					payment_type TEXT,
					description TEXT,
					invoice_amount REAL,
					net_amount REAL,
					payment_net_amount REAL,
					shipment_invoice_amount REAL,
					is_removal_order BOOLEAN DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (merged_data_id) REFERENCES merged_data(id)
				)`,
				`CREATE INDEX idx_processed_data_order_id ON processed_data(order_id)`,

				`CREATE TABLE IF NOT EXISTS tolerance_analysis (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					processed_data_id INTEGER UNIQUE,
					order_id TEXT,
					payment_net_amount REAL NOT NULL,
					shipment_invoice_amount REAL NOT NULL,
					tolerance_percentage REAL NOT NULL,
					tolerance_threshold REAL NOT NULL,
					tolerance_status TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (processed_data_id) REFERENCES processed_data(id)
				)`,
				`CREATE INDEX idx_tolerance_analysis_order_id ON tolerance_analysis(order_id)`,

				`CREATE TABLE IF NOT EXISTS empty_order_summary (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					description TEXT,
					total_net_amount REAL,
					transaction_count INTEGER,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index processed data by category",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_processed_data_category ON processed_data(category)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
