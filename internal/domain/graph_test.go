package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStopGraphQueries(t *testing.T) {
	g := testGraph(t)

	s, err := g.Stop(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Position != (Position{X: 5, Y: 15}) {
		t.Fatalf("position = %+v, want {5 15}", s.Position)
	}

	if _, err := g.Stop(42); !errors.Is(err, ErrStopNotFound) {
		t.Fatalf("stop 42 err = %v, want ErrStopNotFound", err)
	}

	n, err := g.Neighbors(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{0, 2, 4}, n); diff != "" {
		t.Fatalf("neighbors (-want +got):\n%s", diff)
	}

	minutes, err := g.TravelTime(1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 13 {
		t.Fatalf("travel time 1->4 = %d, want 13", minutes)
	}

	if _, err := g.TravelTime(0, 5); !errors.Is(err, ErrNotReachable) {
		t.Fatalf("travel time 0->5 err = %v, want ErrNotReachable", err)
	}
	if g.IsReachable(0, 5) {
		t.Fatal("0 -> 5 should not be reachable")
	}
	if !g.IsReachable(5, 0) {
		t.Fatal("5 -> 0 should be reachable")
	}
}

func TestStopGraphHasNoSelfLoops(t *testing.T) {
	g := testGraph(t)

	for _, s := range g.Stops() {
		if _, err := g.TravelTime(s.ID, s.ID); err == nil {
			t.Errorf("travel time %d -> %d should fail", s.ID, s.ID)
		}
		if g.IsReachable(s.ID, s.ID) {
			t.Errorf("stop %d should not reach itself", s.ID)
		}
	}
}

func TestStopGraphIsImmutable(t *testing.T) {
	neighbors := map[int]int{1: 8}
	g, err := NewStopGraph([]Stop{
		{ID: 0, Neighbors: neighbors},
		{ID: 1, Neighbors: map[int]int{0: 8}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	neighbors[1] = 99
	s, _ := g.Stop(0)
	s.Neighbors[1] = 77

	minutes, _ := g.TravelTime(0, 1)
	if minutes != 8 {
		t.Fatalf("travel time = %d, want 8", minutes)
	}
}

func TestNewStopGraphRejectsBadTopology(t *testing.T) {
	cases := []struct {
		name  string
		stops []Stop
	}{
		{"missing station", []Stop{{ID: 1}}},
		{"duplicate id", []Stop{{ID: 0}, {ID: 0}}},
		{"negative id", []Stop{{ID: 0}, {ID: -1}}},
		{"dangling neighbor", []Stop{{ID: 0, Neighbors: map[int]int{3: 4}}}},
		{"self loop", []Stop{{ID: 0, Neighbors: map[int]int{0: 4}}}},
		{"zero travel time", []Stop{{ID: 0, Neighbors: map[int]int{1: 0}}, {ID: 1}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStopGraph(tc.stops); !errors.Is(err, ErrInvalidGraph) {
				t.Fatalf("err = %v, want ErrInvalidGraph", err)
			}
		})
	}
}

func TestCumulativeTravelTimes(t *testing.T) {
	g := testGraph(t)

	got, err := g.CumulativeTravelTimes([]int{0, 1, 4, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{0, 8, 21, 40}, got); diff != "" {
		t.Fatalf("travel times (-want +got):\n%s", diff)
	}
}
