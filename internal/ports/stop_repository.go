package ports

import (
	"bus-route-service/internal/domain"
	"context"
)

// Port: a boundary for retrieving the static city graph.
type StopRepository interface {
	// Retrieve every stop with its position and outgoing travel times.
	ListStops(ctx context.Context) ([]domain.Stop, error)
}
