package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/jsphweid/harmonycheck/logger"
	"github.com/jsphweid/harmonycheck/model"
	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id         TEXT PRIMARY KEY,
			source     TEXT,
			report     TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite store initialized", logger.Fields{"path": dbPath})
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(id string) (*model.StoredReport, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRow("SELECT report FROM reports WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var r model.StoredReport
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, false, err
	}
	return &r, true, nil
}

func (s *SQLite) Put(id string, r model.StoredReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = id
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO reports (id, source, report) VALUES (?, ?, ?)`,
		id, r.Source, string(data),
	)
	return err
}

func (s *SQLite) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&total)
	return total, err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
