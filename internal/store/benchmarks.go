package store

import (
	"database/sql"
	"errors"

	"github.com/playok/telemon/internal/model"
)

// ErrRunNotFound is returned when a benchmark run ID does not exist.
var ErrRunNotFound = errors.New("benchmark run not found")

const benchmarkColumns = `id, timestamp, random_ms, matrix_ms, hash_ms, multi_thread_ms,
	single_thread_score, multi_thread_score, overall_score, tier, comparison, workers, hash`

// InsertBenchmarkRun stores a completed run.
func (s *Store) InsertBenchmarkRun(r model.BenchmarkRun) error {
	_, err := s.db.Exec(`INSERT INTO benchmark_runs (`+benchmarkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp, r.RandomMs, r.MatrixMs, r.HashMs, r.MultiThreadMs,
		r.SingleThreadScore, r.MultiThreadScore, r.OverallScore, r.Tier, r.Comparison, r.Workers, r.Hash)
	return err
}

// ListBenchmarkRuns returns up to limit runs, newest first. limit <= 0
// returns every run.
func (s *Store) ListBenchmarkRuns(limit int) ([]model.BenchmarkRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+benchmarkColumns+` FROM benchmark_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.BenchmarkRun
	for rows.Next() {
		r, err := scanBenchmarkRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetBenchmarkRun returns a run by ID or ErrRunNotFound.
func (s *Store) GetBenchmarkRun(id string) (model.BenchmarkRun, error) {
	row := s.db.QueryRow(`SELECT `+benchmarkColumns+` FROM benchmark_runs WHERE id = ?`, id)
	r, err := scanBenchmarkRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BenchmarkRun{}, ErrRunNotFound
	}
	return r, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBenchmarkRun(sc scanner) (model.BenchmarkRun, error) {
	var r model.BenchmarkRun
	err := sc.Scan(&r.ID, &r.Timestamp, &r.RandomMs, &r.MatrixMs, &r.HashMs, &r.MultiThreadMs,
		&r.SingleThreadScore, &r.MultiThreadScore, &r.OverallScore, &r.Tier, &r.Comparison, &r.Workers, &r.Hash)
	return r, err
}
