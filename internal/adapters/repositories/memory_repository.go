package repositories

import (
	"bus-route-service/internal/domain"
	"context"
	"sync"
)

// StaticStopRepository serves a fixed stop list. Useful in tests and when
// the graph comes straight from a seed file.
type StaticStopRepository struct {
	stops []domain.Stop
}

func NewStaticStopRepository(stops []domain.Stop) *StaticStopRepository {
	return &StaticStopRepository{stops: stops}
}

// NewStaticStopRepositoryFromSeeds converts seed file entries into stops.
func NewStaticStopRepositoryFromSeeds(seeds []StopSeed) *StaticStopRepository {
	stops := make([]domain.Stop, 0, len(seeds))
	for _, s := range seeds {
		stops = append(stops, domain.Stop{
			ID:        s.StopID,
			Position:  domain.Position{X: s.X, Y: s.Y},
			Neighbors: s.Neighbors,
		})
	}
	return &StaticStopRepository{stops: stops}
}

func (r *StaticStopRepository) ListStops(ctx context.Context) ([]domain.Stop, error) {
	out := make([]domain.Stop, len(r.stops))
	copy(out, r.stops)
	return out, nil
}

// MemoryRouteRepository keeps committed routes in process memory.
// It is safe for concurrent use.
type MemoryRouteRepository struct {
	mu     sync.Mutex
	routes []domain.RouteRecord
}

func NewMemoryRouteRepository(records ...domain.RouteRecord) *MemoryRouteRepository {
	return &MemoryRouteRepository{routes: cloneRecords(records)}
}

func (m *MemoryRouteRepository) ListRoutes(ctx context.Context) ([]domain.RouteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRecords(m.routes), nil
}

func (m *MemoryRouteRepository) ReplaceRoutes(ctx context.Context, records []domain.RouteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = cloneRecords(records)
	return nil
}

func cloneRecords(records []domain.RouteRecord) []domain.RouteRecord {
	out := make([]domain.RouteRecord, 0, len(records))
	for _, r := range records {
		stops := make([]int, len(r.Stops))
		copy(stops, r.Stops)
		out = append(out, domain.RouteRecord{Stops: stops, Params: r.Params})
	}
	return out
}
