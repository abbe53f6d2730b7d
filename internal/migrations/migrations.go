package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add insertion order indices",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_rb_keys_inserted_at ON rb_keys(inserted_at);
			CREATE INDEX IF NOT EXISTS idx_range_points_inserted_at ON range_points(inserted_at);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_rb_keys_inserted_at;
			DROP INDEX IF EXISTS idx_range_points_inserted_at;
		`,
	},
	{
		Version: 2,
		Name:    "Add x/y index for range queries",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_range_points_xy ON range_points(x, y);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_range_points_xy;
		`,
	},
}

// InitSchema creates all tables required across all modules
// This must be called before running migrations to ensure all tables exist
func InitSchema(db *sql.DB) error {
	schema := `
	-- Red-black tree keys, one row per accepted insertion
	CREATE TABLE IF NOT EXISTS rb_keys (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key INTEGER NOT NULL,
		request_seq INTEGER NOT NULL DEFAULT 0,
		inserted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- 2D range tree points, duplicates kept
	CREATE TABLE IF NOT EXISTS range_points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		request_seq INTEGER NOT NULL DEFAULT 0,
		inserted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Run executes all pending migrations on the database
func Run(db *sql.DB) error {
	if err := InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		if _, err := db.Exec(migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		_, err = db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
