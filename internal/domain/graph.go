package domain

import (
	"fmt"
	"slices"
)

// StationID is the stop every route starts from.
const StationID = 0

// Stop is a single node of the city graph.
// Neighbors maps directly reachable stop ids to travel minutes.
type Stop struct {
	ID        int
	Position  Position
	Neighbors map[int]int
}

// StopGraph is the read-only stop reachability graph.
//
// It is built once and never mutated afterwards, so a single value can be
// shared by every route without locking.
type StopGraph struct {
	stops map[int]Stop
	ids   []int
}

// NewStopGraph validates the topology and copies it into an immutable graph.
func NewStopGraph(stops []Stop) (*StopGraph, error) {
	g := &StopGraph{
		stops: make(map[int]Stop, len(stops)),
		ids:   make([]int, 0, len(stops)),
	}

	for _, s := range stops {
		if s.ID < 0 {
			return nil, fmt.Errorf("%w: negative stop id %d", ErrInvalidGraph, s.ID)
		}
		if _, ok := g.stops[s.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate stop id %d", ErrInvalidGraph, s.ID)
		}

		neighbors := make(map[int]int, len(s.Neighbors))
		for id, minutes := range s.Neighbors {
			neighbors[id] = minutes
		}

		g.stops[s.ID] = Stop{ID: s.ID, Position: s.Position, Neighbors: neighbors}
		g.ids = append(g.ids, s.ID)
	}

	if _, ok := g.stops[StationID]; !ok {
		return nil, fmt.Errorf("%w: station %d is missing", ErrInvalidGraph, StationID)
	}

	for _, s := range g.stops {
		for id, minutes := range s.Neighbors {
			if id == s.ID {
				return nil, fmt.Errorf("%w: stop %d links to itself", ErrInvalidGraph, s.ID)
			}
			if _, ok := g.stops[id]; !ok {
				return nil, fmt.Errorf("%w: stop %d links to unknown stop %d", ErrInvalidGraph, s.ID, id)
			}
			if minutes < 1 {
				return nil, fmt.Errorf("%w: travel time %d -> %d must be at least 1 minute", ErrInvalidGraph, s.ID, id)
			}
		}
	}

	slices.Sort(g.ids)
	return g, nil
}

func (g *StopGraph) Has(id int) bool {
	_, ok := g.stops[id]
	return ok
}

// Return the stop with the given id. The neighbor map is a copy.
func (g *StopGraph) Stop(id int) (Stop, error) {
	s, ok := g.stops[id]
	if !ok {
		return Stop{}, fmt.Errorf("stop %d: %w", id, ErrStopNotFound)
	}

	neighbors := make(map[int]int, len(s.Neighbors))
	for k, v := range s.Neighbors {
		neighbors[k] = v
	}
	s.Neighbors = neighbors
	return s, nil
}

// Return all stops ordered by id.
func (g *StopGraph) Stops() []Stop {
	out := make([]Stop, 0, len(g.ids))
	for _, id := range g.ids {
		s, _ := g.Stop(id)
		out = append(out, s)
	}
	return out
}

// Return the ids directly reachable from id, sorted ascending.
func (g *StopGraph) Neighbors(id int) ([]int, error) {
	s, ok := g.stops[id]
	if !ok {
		return nil, fmt.Errorf("neighbors of %d: %w", id, ErrStopNotFound)
	}

	out := make([]int, 0, len(s.Neighbors))
	for n := range s.Neighbors {
		out = append(out, n)
	}
	slices.Sort(out)
	return out, nil
}

func (g *StopGraph) TravelTime(from, to int) (int, error) {
	s, ok := g.stops[from]
	if !ok {
		return 0, fmt.Errorf("travel time %d -> %d: %w", from, to, ErrStopNotFound)
	}

	minutes, ok := s.Neighbors[to]
	if !ok {
		return 0, fmt.Errorf("travel time %d -> %d: %w", from, to, ErrNotReachable)
	}
	return minutes, nil
}

func (g *StopGraph) IsReachable(from, to int) bool {
	s, ok := g.stops[from]
	if !ok {
		return false
	}
	_, ok = s.Neighbors[to]
	return ok
}

// CumulativeTravelTimes sums travel minutes along stops, starting at 0.
func (g *StopGraph) CumulativeTravelTimes(stops []int) ([]int, error) {
	out := make([]int, len(stops))
	for i := 1; i < len(stops); i++ {
		minutes, err := g.TravelTime(stops[i-1], stops[i])
		if err != nil {
			return nil, fmt.Errorf("cumulative travel times at index %d: %w", i, err)
		}
		out[i] = out[i-1] + minutes
	}
	return out, nil
}
