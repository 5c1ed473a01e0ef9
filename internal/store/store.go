// Package store archives completed interview reports in SQLite so they
// survive restarts and can be exported in bulk.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rsharan/interviewer/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		key TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME NOT NULL,
		num_questions INTEGER NOT NULL DEFAULT 0,
		average_score REAL NOT NULL DEFAULT 0,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bank_files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save archives a report keyed by its completion timestamp. Re-saving
// the same key replaces the row with identical content, so a retried
// write cannot corrupt the archive. Implements report.Sink.
func (s *Store) Save(r model.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO reports (key, category, difficulty, started_at, completed_at, num_questions, average_score, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, average_score = excluded.average_score`,
		r.Key(), r.Category, r.Difficulty, r.StartedAt, r.CompletedAt, r.QuestionCount, r.AverageScore, string(payload),
	)
	return err
}

// GetReport returns the archived report for a key, or nil when absent.
func (s *Store) GetReport(key string) (*model.Report, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM reports WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r model.Report
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", key, err)
	}
	return &r, nil
}

// ListReports returns all archived reports, newest first.
func (s *Store) ListReports() ([]model.Report, error) {
	rows, err := s.db.Query(`SELECT payload FROM reports ORDER BY completed_at DESC, key DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reports []model.Report
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r model.Report
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// ReportCount returns the number of archived reports.
func (s *Store) ReportCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&count)
	return count, err
}
