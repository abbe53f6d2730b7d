// Package store persists accepted insertions in sqlite so the collaborator
// service can rebuild its trees after a restart.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/treeplot/internal/migrations"
	"github.com/studiowebux/treeplot/internal/rangetree"
)

const timestampLayout = "2006-01-02 15:04:05"

// Manager owns the sqlite connection
type Manager struct {
	db *sql.DB
}

// Snapshot is everything needed to rebuild both trees
type Snapshot struct {
	Keys   []int64
	Points []rangetree.Point
}

// Stats summarises stored insertions
type Stats struct {
	Keys       int
	Points     int
	LastInsert time.Time
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to store database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// SaveKey records an accepted red-black insertion
func (m *Manager) SaveKey(key int64, seq uint64) error {
	_, err := m.db.Exec(
		"INSERT INTO rb_keys (key, request_seq, inserted_at) VALUES (?, ?, ?)",
		key, int64(seq), time.Now().Local().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}
	return nil
}

// SavePoint records an accepted range-tree insertion
func (m *Manager) SavePoint(p rangetree.Point, seq uint64) error {
	_, err := m.db.Exec(
		"INSERT INTO range_points (x, y, request_seq, inserted_at) VALUES (?, ?, ?, ?)",
		p.X, p.Y, int64(seq), time.Now().Local().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save point: %w", err)
	}
	return nil
}

// Load returns stored insertions in insertion order
func (m *Manager) Load() (*Snapshot, error) {
	snap := &Snapshot{}

	rows, err := m.db.Query("SELECT key FROM rb_keys ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load keys: %w", err)
	}
	for rows.Next() {
		var k int64
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		snap.Keys = append(snap.Keys, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load keys: %w", err)
	}

	rows, err = m.db.Query("SELECT x, y FROM range_points ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p rangetree.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		snap.Points = append(snap.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load points: %w", err)
	}

	return snap, nil
}

// Stats counts stored rows
func (m *Manager) Stats() (Stats, error) {
	var s Stats
	var last sql.NullString
	err := m.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM rb_keys),
			(SELECT COUNT(*) FROM range_points),
			(SELECT MAX(t) FROM (
				SELECT MAX(inserted_at) AS t FROM rb_keys
				UNION ALL
				SELECT MAX(inserted_at) FROM range_points
			))
	`).Scan(&s.Keys, &s.Points, &last)
	if err != nil {
		return s, fmt.Errorf("failed to query stats: %w", err)
	}
	if last.Valid {
		if t, err := time.ParseInLocation(timestampLayout, last.String, time.Local); err == nil {
			s.LastInsert = t
		}
	}
	return s, nil
}

// Clear removes every stored insertion
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM rb_keys; DELETE FROM range_points;"); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}
