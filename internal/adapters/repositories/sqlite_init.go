package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Initialize the SQLite database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		stop_id INTEGER PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL
	);
	`

	createStopLinksQuery := `
	CREATE TABLE IF NOT EXISTS stop_links (
        from_stop INTEGER NOT NULL REFERENCES stops(stop_id),
        to_stop INTEGER NOT NULL REFERENCES stops(stop_id),
        travel_minutes INTEGER NOT NULL CHECK (travel_minutes >= 1),
        PRIMARY KEY (from_stop, to_stop)
    );
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
        route_id INTEGER PRIMARY KEY,
        name TEXT NOT NULL UNIQUE,
        headway_minutes INTEGER NOT NULL,
        first_leave_minutes INTEGER NOT NULL,
        boundary_minutes INTEGER NOT NULL
    );
	`

	createRouteStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
        route_id INTEGER NOT NULL REFERENCES routes(route_id),
        position INTEGER NOT NULL,
        stop_id INTEGER NOT NULL,
        PRIMARY KEY (route_id, position)
    );
	`

	statements := []string{
		createStopsQuery,
		createStopLinksQuery,
		createRoutesQuery,
		createRouteStopsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// One stop of the city graph seed file.
type StopSeed struct {
	StopID    int         `json:"id"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Neighbors map[int]int `json:"neighbors"`
}

// ReadStopSeeds parses and sanity-checks a city graph seed file.
func ReadStopSeeds(jsonPath string) ([]StopSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read stop seeds: read %q: %w", jsonPath, err)
	}

	var data []StopSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read stop seeds: parse json: %w", err)
	}

	for i, item := range data {
		if item.StopID < 0 {
			return nil, fmt.Errorf("read stop seeds: invalid stop id at index %d: %d", i+1, item.StopID)
		}
		for to, minutes := range item.Neighbors {
			if minutes < 1 {
				return nil, fmt.Errorf("read stop seeds: stop %d -> %d: travel minutes must be at least 1", item.StopID, to)
			}
		}
	}

	return data, nil
}

// Populate the SQLite database with the city graph from a JSON file.
func SeedStopsFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	seeds, err := ReadStopSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed stops: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stops: begin tx: %w", err)
	}
	defer tx.Rollback()

	stopStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO stops (
		stop_id,
		x,
		y
	)
	VALUES (?, ?, ?)
	ON CONFLICT (stop_id) DO UPDATE SET
		x = excluded.x,
		y = excluded.y;
	`)
	if err != nil {
		return fmt.Errorf("seed stops: prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO stop_links (
		from_stop,
		to_stop,
		travel_minutes
	)
	VALUES (?, ?, ?)
	ON CONFLICT (from_stop, to_stop) DO UPDATE SET
		travel_minutes = excluded.travel_minutes;
	`)
	if err != nil {
		return fmt.Errorf("seed stops: prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, s := range seeds {
		if _, err := stopStmt.ExecContext(ctx, s.StopID, s.X, s.Y); err != nil {
			return fmt.Errorf("seed stops: insert stop_id=%d: %w", s.StopID, err)
		}
	}

	for _, s := range seeds {
		for to, minutes := range s.Neighbors {
			if _, err := linkStmt.ExecContext(ctx, s.StopID, to, minutes); err != nil {
				return fmt.Errorf("seed stops: insert link %d -> %d: %w", s.StopID, to, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stops: commit tx: %w", err)
	}

	return nil
}
