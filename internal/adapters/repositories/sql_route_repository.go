package repositories

import (
	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLRouteRepository is a PostgreSQL-backed RouteRepository.
type SQLRouteRepository struct {
	DB *sql.DB
}

func NewSQLRouteRepository(db *sql.DB) *SQLRouteRepository {
	return &SQLRouteRepository{DB: db}
}

func (s *SQLRouteRepository) ListRoutes(ctx context.Context) (_ []domain.RouteRecord, err error) {
	defer obs.Time(ctx, "sql.ListRoutes")(&err)

	if s.DB == nil {
		return nil, errors.New("sql route repository: db is nil")
	}

	return listRoutes(ctx, s.DB)
}

// Replace the stored routes with records. Route stops go in with a single
// unnest insert per route.
func (s *SQLRouteRepository) ReplaceRoutes(ctx context.Context, records []domain.RouteRecord) (err error) {
	defer obs.Time(ctx, "sql.ReplaceRoutes")(&err)

	if s.DB == nil {
		return errors.New("sql route repository: db is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace routes: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM routes;`); err != nil {
		return fmt.Errorf("replace routes: clear: %w", err)
	}

	routeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO routes (route_id, name, headway_minutes, first_leave_minutes, boundary_minutes)
    VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("replace routes: db prepare route: %w", err)
	}
	defer routeStmt.Close()

	stopsStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_stops (route_id, position, stop_id)
    SELECT $1, s.ord - 1, s.stop_id
    FROM unnest($2::integer[]) WITH ORDINALITY AS s(stop_id, ord);
	`)
	if err != nil {
		return fmt.Errorf("replace routes: db prepare route stops: %w", err)
	}
	defer stopsStmt.Close()

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

		stops := make([]int32, 0, len(rec.Stops))
		for _, id := range rec.Stops {
			stops = append(stops, int32(id))
		}
		if _, err := stopsStmt.ExecContext(ctx, routeID, stops); err != nil {
			return fmt.Errorf("replace routes: insert stops route=%q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace routes commit: %w", err)
	}

	return nil
}
