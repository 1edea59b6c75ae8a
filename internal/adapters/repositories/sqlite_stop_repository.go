package repositories

import (
	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the StopRepository port.
type SqliteStopRepository struct{ DB *sql.DB }

func NewSqliteStopRepository(db *sql.DB) *SqliteStopRepository {
	return &SqliteStopRepository{DB: db}
}

// Return every stop with its outgoing links.
func (s *SqliteStopRepository) ListStops(ctx context.Context) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "sqlite.ListStops")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite stop repository: DB is nil")
	}

	return listStops(ctx, s.DB)
}

// listStops is shared by the SQLite and Postgres repositories; both queries
// are free of placeholders.
func listStops(ctx context.Context, db *sql.DB) ([]domain.Stop, error) {
	stopsQuery := `
	SELECT
		stop_id,
		x,
		y
	FROM stops
	ORDER BY stop_id;
	`
	rows, err := db.QueryContext(ctx, stopsQuery)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 64)
	index := make(map[int]int)
	for rows.Next() {
		var id, x, y int
		if err := rows.Scan(&id, &x, &y); err != nil {
			return nil, fmt.Errorf("list stops: scan stop row: %w", err)
		}
		index[id] = len(stops)
		stops = append(stops, domain.Stop{
			ID:        id,
			Position:  domain.Position{X: x, Y: y},
			Neighbors: map[int]int{},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: stop row iteration: %w", err)
	}

	linksQuery := `
	SELECT
		from_stop,
		to_stop,
		travel_minutes
	FROM stop_links;
	`
	links, err := db.QueryContext(ctx, linksQuery)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stop_links table: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var from, to, minutes int
		if err := links.Scan(&from, &to, &minutes); err != nil {
			return nil, fmt.Errorf("list stops: scan link row: %w", err)
		}
		i, ok := index[from]
		if !ok {
			return nil, fmt.Errorf("list stops: link from unknown stop %d", from)
		}
		stops[i].Neighbors[to] = minutes
	}
	if err := links.Err(); err != nil {
		return nil, fmt.Errorf("list stops: link row iteration: %w", err)
	}

	return stops, nil
}
