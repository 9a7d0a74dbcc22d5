package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/cwbudde/algo-optgain/internal/monitoring"
	"github.com/cwbudde/algo-optgain/measure/ogain"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps runs in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	monitoring.Logf("store: opened %s", s.path)
	s.db = db
	return nil
}

// SaveRun replaces the run and its gains. NaN and ±Inf gains round-trip.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, ticks) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET ticks = excluded.ticks
	`, run.ID, run.Ticks); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM gains WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	for i, e := range run.Report.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO gains (run_id, position, segment, mode, frequency, gain, variance_gain, samples)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, e.Segment, e.Mode, e.Frequency,
			gainValue(e.Gain), gainValue(e.VarianceGain), e.Samples); err != nil {
			return fmt.Errorf("save run %s entry %d: %w", run.ID, i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	run := Run{ID: id}
	err = db.QueryRowContext(ctx, `SELECT ticks FROM runs WHERE id = ?`, id).Scan(&run.Ticks)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT segment, mode, frequency, gain, variance_gain, samples
		FROM gains WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return Run{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e        ogain.Entry
			gain, vg sql.NullFloat64
		)
		if err := rows.Scan(&e.Segment, &e.Mode, &e.Frequency, &gain, &vg, &e.Samples); err != nil {
			return Run{}, false, fmt.Errorf("load run %s: %w", id, err)
		}
		e.Gain = fromNullable(gain)
		e.VarianceGain = fromNullable(vg)
		run.Report.Entries = append(run.Report.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

func (s *SQLiteStore) RunIDs(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

// gainValue maps a gain to a column value. SQLite has no NaN, so NaN is
// stored as NULL; infinities are stored as the text "+Inf" or "-Inf", which
// scan back into a float.
func gainValue(v float64) any {
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return v
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			ticks INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS gains (
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			segment INTEGER NOT NULL,
			mode INTEGER NOT NULL,
			frequency REAL NOT NULL,
			gain REAL,
			variance_gain REAL,
			samples INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		);
	`)
	return err
}
