package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Reference catalog tables",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS item_types (
					id INTEGER PRIMARY KEY,
					internal_id TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL,
					slot TEXT,
					is_weapon INTEGER DEFAULT 0,
					is_armor INTEGER DEFAULT 0
				)`,

				`CREATE TABLE IF NOT EXISTS classes (
					id INTEGER PRIMARY KEY,
					internal_id TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS affixes (
					id INTEGER PRIMARY KEY,
					internal_id TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL,
					category TEXT,
					magic_type INTEGER DEFAULT 0,
					priority_tier INTEGER DEFAULT 10,
					min_value REAL,
					max_value REAL,
					is_percentage INTEGER DEFAULT 0,
					is_implicit INTEGER DEFAULT 0,
					is_tempering INTEGER DEFAULT 0,
					allow_duplicate INTEGER DEFAULT 0,
					allowed_item_types TEXT,
					allowed_classes TEXT
				)`,
				`CREATE INDEX idx_affixes_name ON affixes(name)`,

				`CREATE TABLE IF NOT EXISTS aspects (
					id INTEGER PRIMARY KEY,
					internal_id TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL,
					category TEXT,
					scaling_formula TEXT,
					is_unique_power INTEGER DEFAULT 0,
					min_value REAL,
					max_value REAL,
					allowed_item_types TEXT,
					allowed_classes TEXT
				)`,
				`CREATE INDEX idx_aspects_name ON aspects(name)`,
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
		Description: "Build weight profiles",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS builds (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					description TEXT,
					class_id INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS build_affix_weights (
					build_id INTEGER NOT NULL,
					affix_id INTEGER NOT NULL,
					weight REAL NOT NULL,
					priority INTEGER DEFAULT 0,
					required INTEGER DEFAULT 0,
					notes TEXT,
					PRIMARY KEY (build_id, affix_id),
					FOREIGN KEY (build_id) REFERENCES builds(id) ON DELETE CASCADE
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
		Version:     3,
		Description: "Ingested item instances",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS items (
					hash TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					item_type_id INTEGER DEFAULT 0,
					item_type_name TEXT,
					class_id INTEGER DEFAULT 0,
					rarity INTEGER DEFAULT -1,
					item_power INTEGER DEFAULT 0,
					level_requirement INTEGER DEFAULT 0,
					completeness REAL NOT NULL,
					unique_power_text TEXT,
					is_ancestral INTEGER DEFAULT 0,
					is_unique INTEGER DEFAULT 0,
					is_mythic INTEGER DEFAULT 0,
					is_sanctified INTEGER DEFAULT 0,
					is_account_bound INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_items_rarity ON items(rarity)`,

				`CREATE TABLE IF NOT EXISTS item_affixes (
					item_hash TEXT NOT NULL,
					affix_id INTEGER NOT NULL,
					line_text TEXT,
					roll REAL NOT NULL,
					similarity REAL NOT NULL,
					confidence REAL NOT NULL,
					display_order INTEGER DEFAULT 0,
					is_implicit INTEGER DEFAULT 0,
					is_greater INTEGER DEFAULT 0,
					is_tempered INTEGER DEFAULT 0,
					FOREIGN KEY (item_hash) REFERENCES items(hash) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_item_affixes_hash ON item_affixes(item_hash)`,
				`CREATE INDEX idx_item_affixes_affix ON item_affixes(affix_id)`,

				`CREATE TABLE IF NOT EXISTS item_aspects (
					item_hash TEXT NOT NULL,
					aspect_id INTEGER NOT NULL,
					line_text TEXT,
					roll REAL,
					similarity REAL NOT NULL,
					confidence REAL NOT NULL,
					FOREIGN KEY (item_hash) REFERENCES items(hash) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_item_aspects_hash ON item_aspects(item_hash)`,

				`CREATE TABLE IF NOT EXISTS item_sockets (
					item_hash TEXT NOT NULL,
					socket_index INTEGER NOT NULL,
					gem_type TEXT,
					is_empty INTEGER DEFAULT 1,
					FOREIGN KEY (item_hash) REFERENCES items(hash) ON DELETE CASCADE
				)`,

				`CREATE TABLE IF NOT EXISTS item_unresolved_lines (
					item_hash TEXT NOT NULL,
					display_order INTEGER NOT NULL,
					line_text TEXT NOT NULL,
					FOREIGN KEY (item_hash) REFERENCES items(hash) ON DELETE CASCADE
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
		Version:     4,
		Description: "Comparison history",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS comparisons (
					id TEXT PRIMARY KEY,
					build_id INTEGER NOT NULL,
					item_a_hash TEXT NOT NULL,
					item_b_hash TEXT NOT NULL,
					score_a REAL NOT NULL,
					score_b REAL NOT NULL,
					delta REAL NOT NULL,
					winner TEXT NOT NULL,
					breakdown_a TEXT,
					breakdown_b TEXT,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_comparisons_build ON comparisons(build_id)`,
				`CREATE INDEX idx_comparisons_created ON comparisons(created_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
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
