package ports

import (
	"bus-route-service/internal/domain"
	"context"
)

// Port: a boundary for persisting committed routes.
// Only applied state crosses it; working edits never do.
type RouteRepository interface {
	// Retrieve all committed routes in their stored order.
	ListRoutes(ctx context.Context) ([]domain.RouteRecord, error)
	// Replace every stored route with the given set in a single transaction.
	ReplaceRoutes(ctx context.Context, routes []domain.RouteRecord) error
}
