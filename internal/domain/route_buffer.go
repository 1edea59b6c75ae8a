package domain

import (
	"fmt"
	"slices"
)

// MaxStopOccurrences bounds how often one stop may appear in a route.
// Two allows an outbound and a return leg to share stops.
const MaxStopOccurrences = 2

type undoKind int

const (
	// Counteracts an append: drop the last stop.
	undoDelete undoKind = iota + 1
	// Counteracts a truncation: reattach the removed tail.
	undoAppend
)

type undoEntry struct {
	kind undoKind
	tail *Chain[int]
}

// RouteBuffer is an editable route shape.
//
// Every mutation is checked against the stop graph and either fully applies
// or leaves the buffer untouched. Each successful mutation records its
// inverse so edits can be rolled back until the buffer is marked saved.
type RouteBuffer struct {
	graph *StopGraph
	stops *Chain[int]
	undo  *Chain[undoEntry]
	dirty bool
}

// NewRouteBuffer returns a buffer holding only the station.
func NewRouteBuffer(g *StopGraph) *RouteBuffer {
	return &RouteBuffer{
		graph: g,
		stops: NewChain(StationID),
		undo:  NewChain[undoEntry](),
	}
}

// RestoreRouteBuffer replays stops through Append so stored shapes are held to
// the same rules as interactive edits. The result has no pending edits.
func RestoreRouteBuffer(g *StopGraph, stops []int) (*RouteBuffer, error) {
	b := NewRouteBuffer(g)
	if len(stops) == 0 {
		return b, nil
	}
	if stops[0] != StationID {
		return nil, fmt.Errorf("restore route: first stop %d is not the station: %w", stops[0], ErrInvalidStop)
	}

	for i, id := range stops[1:] {
		if err := b.Append(id); err != nil {
			return nil, fmt.Errorf("restore route: stop %d at index %d: %w", id, i+1, err)
		}
	}

	b.MarkSaved()
	return b, nil
}

func (b *RouteBuffer) Append(stopID int) error {
	if !b.graph.Has(stopID) {
		return fmt.Errorf("append stop %d: %w", stopID, ErrInvalidStop)
	}
	if b.IsClosed() {
		return fmt.Errorf("append stop %d: %w", stopID, ErrRouteClosed)
	}

	last := b.LastStop()
	if !b.graph.IsReachable(last, stopID) {
		return fmt.Errorf("append stop %d after %d: %w", stopID, last, ErrUnreachable)
	}
	if b.occurrences(stopID) >= MaxStopOccurrences {
		return fmt.Errorf("append stop %d: %w", stopID, ErrDuplicateLimit)
	}

	b.stops.Append(stopID)
	b.undo.Append(undoEntry{kind: undoDelete})
	b.dirty = true
	return nil
}

// TruncateFrom removes the last occurrence of stopID and every stop after it.
// On an open route the station always means "back to the start".
func (b *RouteBuffer) TruncateFrom(stopID int) error {
	var (
		tail *Chain[int]
		err  error
	)

	if stopID == StationID && !b.IsClosed() {
		if b.stops.Len() == 1 {
			return fmt.Errorf("truncate from station: %w", ErrNothingToRemove)
		}
		tail, err = b.stops.DetachAt(1)
	} else {
		tail, err = b.stops.DetachLastFunc(func(id int) bool { return id == stopID })
	}
	if err != nil {
		return fmt.Errorf("truncate from stop %d: %w", stopID, ErrStopNotFound)
	}

	b.undo.Append(undoEntry{kind: undoAppend, tail: tail})
	b.dirty = true
	return nil
}

// Clear drops everything after the station. It is a no-op on a station-only route.
func (b *RouteBuffer) Clear() {
	if b.stops.Len() == 1 {
		return
	}
	tail, _ := b.stops.DetachAt(1)
	b.undo.Append(undoEntry{kind: undoAppend, tail: tail})
	b.dirty = true
}

func (b *RouteBuffer) Undo() error {
	top, err := b.undo.DetachAt(b.undo.Len() - 1)
	if err != nil {
		return fmt.Errorf("undo: %w", ErrNothingToUndo)
	}

	entry := top.At(0)
	switch entry.kind {
	case undoDelete:
		if _, err := b.stops.DetachAt(b.stops.Len() - 1); err != nil {
			return fmt.Errorf("undo append: %w", err)
		}
	case undoAppend:
		b.stops.Reattach(entry.tail)
	default:
		return fmt.Errorf("undo: unknown entry kind %d", entry.kind)
	}

	return nil
}

// ReachableNext lists the stops that Append would currently accept.
func (b *RouteBuffer) ReachableNext() []int {
	if b.IsClosed() {
		return []int{}
	}

	neighbors, err := b.graph.Neighbors(b.LastStop())
	if err != nil {
		return []int{}
	}

	counts := b.counts()
	return slices.DeleteFunc(neighbors, func(id int) bool {
		return counts[id] >= MaxStopOccurrences
	})
}

// MarkSaved makes all pending edits permanent.
func (b *RouteBuffer) MarkSaved() {
	b.dirty = false
	b.undo = NewChain[undoEntry]()
}

func (b *RouteBuffer) Stops() []int { return b.stops.Values() }

func (b *RouteBuffer) Len() int { return b.stops.Len() }

func (b *RouteBuffer) LastStop() int {
	last, _ := b.stops.Last()
	return last
}

// A route is closed once it returns to the station after at least one stop.
func (b *RouteBuffer) IsClosed() bool {
	return b.stops.Len() > 2 && b.LastStop() == StationID
}

func (b *RouteBuffer) IsDirty() bool { return b.dirty }

func (b *RouteBuffer) CanUndo() bool { return b.undo.Len() > 0 }

// TravelTimes returns the cumulative minutes from the station to each stop.
func (b *RouteBuffer) TravelTimes() ([]int, error) {
	return b.graph.CumulativeTravelTimes(b.stops.Values())
}

func (b *RouteBuffer) occurrences(stopID int) int {
	n := 0
	for i := 0; i < b.stops.Len(); i++ {
		if b.stops.At(i) == stopID {
			n++
		}
	}
	return n
}

func (b *RouteBuffer) counts() map[int]int {
	out := make(map[int]int, b.stops.Len())
	for i := 0; i < b.stops.Len(); i++ {
		out[b.stops.At(i)]++
	}
	return out
}
