package services

import (
	"bus-route-service/internal/domain"
	"bus-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
)

// LoadStopGraph reads the city topology from repo and builds the shared graph.
func LoadStopGraph(ctx context.Context, repo ports.StopRepository) (*domain.StopGraph, error) {
	if repo == nil {
		return nil, errors.New("load stop graph: repository must be non-nil")
	}

	stops, err := repo.ListStops(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stop graph: list stops: %w", err)
	}

	g, err := domain.NewStopGraph(stops)
	if err != nil {
		return nil, fmt.Errorf("load stop graph: %w", err)
	}

	return g, nil
}
