package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes the database connection. A DATABASE_URL environment
// variable selects Postgres; the default is a local SQLite file.
func Connect() error {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "vocabot.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS words (
				id %s,
				en TEXT NOT NULL,
				ja TEXT NOT NULL,
				level INTEGER DEFAULT 1,
				series TEXT DEFAULT '',
				base_form TEXT,
				past_form TEXT,
				pp_form TEXT,
				UNIQUE(en, ja)
			)
		`, serial),
		`
			CREATE TABLE IF NOT EXISTS profiles (
				user_id INTEGER PRIMARY KEY,
				user_name TEXT DEFAULT '',
				total_answered INTEGER DEFAULT 0,
				total_correct INTEGER DEFAULT 0,
				recent TEXT DEFAULT '[]',
				rank TEXT DEFAULT 'beginner',
				last_level INTEGER DEFAULT 1,
				last_mode TEXT DEFAULT 'mc',
				last_direction TEXT DEFAULT 'en_to_ja'
			)
		`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS missed_words (
				id %s,
				user_id INTEGER NOT NULL,
				en TEXT NOT NULL,
				ja TEXT NOT NULL,
				level INTEGER DEFAULT 1,
				series TEXT DEFAULT '',
				base_form TEXT,
				past_form TEXT,
				pp_form TEXT,
				misses INTEGER DEFAULT 1,
				UNIQUE(user_id, en, ja)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS quiz_results (
				id %s,
				user_id INTEGER NOT NULL,
				mode TEXT NOT NULL,
				direction TEXT DEFAULT '',
				level INTEGER DEFAULT 1,
				total INTEGER NOT NULL,
				correct INTEGER NOT NULL,
				taken_at TIMESTAMP NOT NULL
			)
		`, serial),
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
