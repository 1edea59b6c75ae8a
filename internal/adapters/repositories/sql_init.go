package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the PostgreSQL database schema.
func InitSQLSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init sql schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init sql schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS stops (
		stop_id INTEGER PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS stop_links (
        from_stop INTEGER NOT NULL REFERENCES stops(stop_id),
        to_stop INTEGER NOT NULL REFERENCES stops(stop_id),
        travel_minutes INTEGER NOT NULL CHECK (travel_minutes >= 1),
        PRIMARY KEY (from_stop, to_stop)
    );
	`,
		`
	CREATE TABLE IF NOT EXISTS routes (
        route_id INTEGER PRIMARY KEY,
        name TEXT NOT NULL UNIQUE,
        headway_minutes INTEGER NOT NULL,
        first_leave_minutes INTEGER NOT NULL,
        boundary_minutes INTEGER NOT NULL
    );
	`,
		`
	CREATE TABLE IF NOT EXISTS route_stops (
        route_id INTEGER NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
        position INTEGER NOT NULL,
        stop_id INTEGER NOT NULL,
        PRIMARY KEY (route_id, position)
    );
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init sql schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init sql schema: commit tx: %w", err)
	}

	return nil
}

// Populate the PostgreSQL database with the city graph from a JSON file.
func SeedStopsSQL(ctx context.Context, db *sql.DB, jsonPath string) error {
	seeds, err := ReadStopSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed sql stops: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed sql stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stopStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO stops (stop_id, x, y)
    VALUES ($1, $2, $3)
	ON CONFLICT (stop_id) DO UPDATE
	SET x = EXCLUDED.x,
		y = EXCLUDED.y;
	`)
	if err != nil {
		return fmt.Errorf("seed sql stops: prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO stop_links (from_stop, to_stop, travel_minutes)
    VALUES ($1, $2, $3)
	ON CONFLICT (from_stop, to_stop) DO UPDATE
	SET travel_minutes = EXCLUDED.travel_minutes;
	`)
	if err != nil {
		return fmt.Errorf("seed sql stops: prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, s := range seeds {
		if _, err := stopStmt.ExecContext(ctx, s.StopID, s.X, s.Y); err != nil {
			return fmt.Errorf("seed sql stops: insert stop_id=%d: %w", s.StopID, err)
		}
	}

	for _, s := range seeds {
		for to, minutes := range s.Neighbors {
			if _, err := linkStmt.ExecContext(ctx, s.StopID, to, minutes); err != nil {
				return fmt.Errorf("seed sql stops: insert link %d -> %d: %w", s.StopID, to, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed sql stops: commit tx: %w", err)
	}

	return nil
}
