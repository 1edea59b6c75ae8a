package domain

import "testing"

// testGraph builds a small city:
//
//	0 -> 1 (8), 0 -> 2 (5)
//	1 -> 0 (7), 1 -> 2 (3), 1 -> 4 (13)
//	2 -> 0 (5), 2 -> 1 (4), 2 -> 3 (6)
//	3 -> 2 (6), 3 -> 4 (2)
//	4 -> 0 (19), 4 -> 1 (12), 4 -> 3 (2)
//	5 -> 0 (10), nothing reaches 5
func testGraph(t *testing.T) *StopGraph {
	t.Helper()

	g, err := NewStopGraph([]Stop{
		{ID: 0, Position: Position{X: 0, Y: 0}, Neighbors: map[int]int{1: 8, 2: 5}},
		{ID: 1, Position: Position{X: 10, Y: 0}, Neighbors: map[int]int{0: 7, 2: 3, 4: 13}},
		{ID: 2, Position: Position{X: 5, Y: 5}, Neighbors: map[int]int{0: 5, 1: 4, 3: 6}},
		{ID: 3, Position: Position{X: 5, Y: 15}, Neighbors: map[int]int{2: 6, 4: 2}},
		{ID: 4, Position: Position{X: 15, Y: 15}, Neighbors: map[int]int{0: 19, 1: 12, 3: 2}},
		{ID: 5, Position: Position{X: 30, Y: 30}, Neighbors: map[int]int{0: 10}},
	})
	if err != nil {
		t.Fatalf("build test graph: %v", err)
	}
	return g
}

func mustAppend(t *testing.T, b *RouteBuffer, ids ...int) {
	t.Helper()
	for _, id := range ids {
		if err := b.Append(id); err != nil {
			t.Fatalf("append %d: %v", id, err)
		}
	}
}
