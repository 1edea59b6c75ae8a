package repositories

import (
	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
)

// SQLStopRepository is a PostgreSQL-backed StopRepository.
type SQLStopRepository struct {
	DB *sql.DB
}

func NewSQLStopRepository(db *sql.DB) *SQLStopRepository {
	return &SQLStopRepository{DB: db}
}

func (s *SQLStopRepository) ListStops(ctx context.Context) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "sql.ListStops")(&err)

	if s.DB == nil {
		return nil, errors.New("sql stop repository: db is nil")
	}

	return listStops(ctx, s.DB)
}
