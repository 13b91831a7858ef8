package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	ErrNotConnected = errors.New("duckdb: not connected")
)

const createEstimates = `CREATE TABLE IF NOT EXISTS estimates (
	run_id      VARCHAR NOT NULL,
	experiment  VARCHAR NOT NULL,
	realization INTEGER NOT NULL,
	parameter   VARCHAR NOT NULL,
	linear      DOUBLE,
	nonlinear   DOUBLE,
	truth       DOUBLE
)`

// Estimate is one parameter of one realization as fitted both ways.
type Estimate struct {
	Realization int
	Parameter   string
	Linear      float64
	Nonlinear   float64
	Truth       float64
}

type Store struct {
	dataSourceName string
	db             *sql.DB
}

// NewStore returns a store for dataSourceName; an empty name is an in-memory
// database.
func NewStore(dataSourceName string) *Store {
	return &Store{
		dataSourceName: dataSourceName,
	}
}

func (s *Store) Connect(ctx context.Context) error {
	db, err := sql.Open("duckdb", s.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	if _, err := db.ExecContext(ctx, createEstimates); err != nil {
		_ = db.Close()
		return fmt.Errorf("error creating estimates table: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// WriteEstimates inserts all rows of one experiment in a single transaction.
func (s *Store) WriteEstimates(ctx context.Context, runID, experiment string, estimates []Estimate) (err error) {
	if s.db == nil {
		return ErrNotConnected
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO estimates (run_id, experiment, realization, parameter, linear, nonlinear, truth) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmt)

	for _, e := range estimates {
		if _, err = stmt.ExecContext(ctx, runID, experiment, e.Realization, e.Parameter, e.Linear, e.Nonlinear, e.Truth); err != nil {
			return fmt.Errorf("error inserting realization %d: %w", e.Realization, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing estimates: %w", err)
	}
	return nil
}

// LoadEstimates streams the rows of one experiment of a run, ordered by
// realization and parameter.
func (s *Store) LoadEstimates(ctx context.Context, runID, experiment string, handler func(Estimate) error) error {
	if s.db == nil {
		return ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT realization, parameter, linear, nonlinear, truth FROM estimates WHERE run_id = ? AND experiment = ? ORDER BY realization, parameter`,
		runID, experiment)
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		var e Estimate
		if err := rows.Scan(&e.Realization, &e.Parameter, &e.Linear, &e.Nonlinear, &e.Truth); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		if err := handler(e); err != nil {
			return fmt.Errorf("error processing estimate: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}
	return nil
}
