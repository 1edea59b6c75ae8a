package repositories

import (
	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the RouteRepository port.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

// Return all committed routes ordered as they were saved.
func (s *SqliteRouteRepository) ListRoutes(ctx context.Context) (_ []domain.RouteRecord, err error) {
	defer obs.Time(ctx, "sqlite.ListRoutes")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	return listRoutes(ctx, s.DB)
}

// Replace the stored routes with records.
func (s *SqliteRouteRepository) ReplaceRoutes(ctx context.Context, records []domain.RouteRecord) (err error) {
	defer obs.Time(ctx, "sqlite.ReplaceRoutes")(&err)

	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace routes: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM route_stops;`, `DELETE FROM routes;`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("replace routes: clear: %w", err)
		}
	}

	routeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO routes (
        route_id,
        name,
        headway_minutes,
        first_leave_minutes,
        boundary_minutes
    )
    VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("replace routes: db prepare route: %w", err)
	}
	defer routeStmt.Close()

	stopStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_stops (
        route_id,
        position,
        stop_id
    )
    VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("replace routes: db prepare route stop: %w", err)
	}
	defer stopStmt.Close()

	for i, rec := range records {
		routeID := i + 1
		p := rec.Params
		if _, err := routeStmt.ExecContext(
			ctx,
			routeID,
			p.Name,
			p.Headway,
			p.FirstLeave.MinutesSinceMidnight(),
			p.Boundary.MinutesSinceMidnight(),
		); err != nil {
			return fmt.Errorf("replace routes: insert route name=%q: %w", p.Name, err)
		}

		for pos, stopID := range rec.Stops {
			if _, err := stopStmt.ExecContext(ctx, routeID, pos, stopID); err != nil {
				return fmt.Errorf("replace routes: insert stop route=%q position=%d: %w", p.Name, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace routes commit: %w", err)
	}

	return nil
}

// listRoutes is shared by the SQLite and Postgres repositories.
func listRoutes(ctx context.Context, db *sql.DB) ([]domain.RouteRecord, error) {
	routesQuery := `
	SELECT
		route_id,
		name,
		headway_minutes,
		first_leave_minutes,
		boundary_minutes
	FROM routes
	ORDER BY route_id;
	`
	rows, err := db.QueryContext(ctx, routesQuery)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	records := make([]domain.RouteRecord, 0, 8)
	index := make(map[int]int)
	for rows.Next() {
		var id, headway, firstLeave, boundary int
		var name string
		if err := rows.Scan(&id, &name, &headway, &firstLeave, &boundary); err != nil {
			return nil, fmt.Errorf("list routes: scan route row: %w", err)
		}
		index[id] = len(records)
		records = append(records, domain.RouteRecord{
			Stops: []int{},
			Params: domain.ScheduleParameters{
				Name:       name,
				Headway:    headway,
				FirstLeave: domain.TimeOfDayFromMinutes(firstLeave),
				Boundary:   domain.TimeOfDayFromMinutes(boundary),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: route row iteration: %w", err)
	}

	stopsQuery := `
	SELECT
		route_id,
		stop_id
	FROM route_stops
	ORDER BY route_id, position;
	`
	stops, err := db.QueryContext(ctx, stopsQuery)
	if err != nil {
		return nil, fmt.Errorf("list routes: query route_stops table: %w", err)
	}
	defer stops.Close()

	for stops.Next() {
		var routeID, stopID int
		if err := stops.Scan(&routeID, &stopID); err != nil {
			return nil, fmt.Errorf("list routes: scan route stop row: %w", err)
		}
		i, ok := index[routeID]
		if !ok {
			return nil, fmt.Errorf("list routes: stop for unknown route %d", routeID)
		}
		records[i].Stops = append(records[i].Stops, stopID)
	}
	if err := stops.Err(); err != nil {
		return nil, fmt.Errorf("list routes: route stop row iteration: %w", err)
	}

	return records, nil
}
