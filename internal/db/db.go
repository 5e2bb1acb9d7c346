// internal/db/db.go
//
// Database helpers for the Wordlemon server.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//
// Note: This package assumes SQLite but can be adapted for other backends.

package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var migrations embed.FS

/**
 * Open opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative DSNs (e.g. ./data/app.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys.
 *
 * @param dsn Database path or DSN string.
 * @returns *sql.DB ready for queries/migrations.
 */
func Open(dsn string) (*sql.DB, error) {
	// Ensure directory exists for ./data/app.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	// Open DB with busy timeout and WAL journaling.
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Explicitly enforce foreign keys + WAL.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

/**
 * Migrate applies the embedded SQL migrations.
 *
 * - Uses a _migrations table to track applied files.
 * - Executes each *.sql file in lexical order, each in its own transaction.
 * - Skips if already applied.
 */
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(migrations, "sql", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk sql dir: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		// Skip if already applied
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}
