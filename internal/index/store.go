// Package index persists grouped records to a SQLite database so other
// tooling can query past discovery runs.
package index

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/grob/internal/filelock"
	"github.com/harrison/grob/internal/group"
)

//go:embed schema.sql
var schemaSQL string

// Store writes grouping runs to a SQLite database. Writes from concurrent
// grob processes are serialized through a sidecar lock file.
type Store struct {
	db   *sql.DB
	path string
	lock *filelock.FileLock
}

// GroupFile is one indexed (group, tag, path) row.
type GroupFile struct {
	GroupKey string
	Tag      string
	Path     string
}

// Open opens the index database at path, creating it and its parent
// directory if needed. The special path ":memory:" opens an in-memory
// database without locking.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so the remaining pragmas wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	store := &Store{db: db, path: path}
	if path != ":memory:" {
		store.lock = filelock.New(path + ".lock")
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts one grouping run with all its records in a single
// transaction and returns the generated run ID.
func (s *Store) RecordRun(root string, tagNames []string, grouped *group.Grouped) (string, error) {
	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return "", err
		}
		defer s.lock.Unlock()
	}

	runID := uuid.NewString()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (id, root, tag_names, created_at) VALUES (?, ?, ?, ?)",
		runID, root, strings.Join(tagNames, ","), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO group_files (run_id, group_key, tag, path) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range grouped.Keys {
		g := grouped.Groups[key]
		for _, tag := range tagNames {
			member, ok := g[tag]
			if !ok {
				continue
			}
			for _, path := range member.Paths {
				if _, err := stmt.Exec(runID, key, tag, path); err != nil {
					return "", fmt.Errorf("insert group file: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// FilesForRun returns the indexed rows of one run, ordered by group key,
// tag and path.
func (s *Store) FilesForRun(runID string) ([]GroupFile, error) {
	rows, err := s.db.Query(
		"SELECT group_key, tag, path FROM group_files WHERE run_id = ? ORDER BY group_key, tag, path",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	var files []GroupFile
	for rows.Next() {
		var gf GroupFile
		if err := rows.Scan(&gf.GroupKey, &gf.Tag, &gf.Path); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		files = append(files, gf)
	}
	return files, rows.Err()
}
