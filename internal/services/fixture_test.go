package services

import (
	"bus-route-service/internal/domain"
	"testing"
)

// testGraph mirrors a small city with a return leg from every stop:
//
//	0 -> 1 (8), 0 -> 2 (5)
//	1 -> 0 (7), 1 -> 2 (3), 1 -> 4 (13)
//	2 -> 0 (5), 2 -> 1 (4)
//	4 -> 0 (19), 4 -> 1 (12)
func testGraph(t *testing.T) *domain.StopGraph {
	t.Helper()

	g, err := domain.NewStopGraph([]domain.Stop{
		{ID: 0, Position: domain.Position{X: 0, Y: 0}, Neighbors: map[int]int{1: 8, 2: 5}},
		{ID: 1, Position: domain.Position{X: 10, Y: 0}, Neighbors: map[int]int{0: 7, 2: 3, 4: 13}},
		{ID: 2, Position: domain.Position{X: 5, Y: 5}, Neighbors: map[int]int{0: 5, 1: 4}},
		{ID: 4, Position: domain.Position{X: 15, Y: 15}, Neighbors: map[int]int{0: 19, 1: 12}},
	})
	if err != nil {
		t.Fatalf("build test graph: %v", err)
	}
	return g
}

func mustTime(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tod
}
