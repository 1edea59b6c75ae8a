package domain

import "fmt"

// Route pairs working edits with the last committed shape and parameters.
//
// The working buffers are checked out to a single editor at a time; Route
// does no locking of its own.
type Route struct {
	graph *StopGraph

	buffer *RouteBuffer
	params *ScheduleBuffer

	appliedStops  []int
	appliedParams ScheduleParameters
	committed     bool
}

// NewRoute returns an uncommitted route holding only the station and default parameters.
func NewRoute(g *StopGraph) *Route {
	r := &Route{
		graph:         g,
		appliedStops:  []int{StationID},
		appliedParams: DefaultScheduleParameters(),
	}
	r.resetWorking()
	return r
}

// RestoreRoute rebuilds a committed route from persisted applied state.
func RestoreRoute(g *StopGraph, rec RouteRecord) (*Route, error) {
	if err := rec.Params.Validate(); err != nil {
		return nil, fmt.Errorf("restore route %q: %w", rec.Params.Name, err)
	}

	buffer, err := RestoreRouteBuffer(g, rec.Stops)
	if err != nil {
		return nil, fmt.Errorf("restore route %q: %w", rec.Params.Name, err)
	}

	r := &Route{
		graph:         g,
		appliedStops:  buffer.Stops(),
		appliedParams: rec.Params,
		committed:     true,
	}
	r.resetWorking()
	return r, nil
}

// Working route shape.
func (r *Route) Buffer() *RouteBuffer { return r.buffer }

// Working schedule parameters.
func (r *Route) Schedule() *ScheduleBuffer { return r.params }

func (r *Route) IsDirty() bool { return r.buffer.IsDirty() || r.params.IsDirty() }

// IsCommitted reports whether the applied state came from a commit or from storage.
func (r *Route) IsCommitted() bool { return r.committed }

// Name of the applied state.
func (r *Route) Name() string { return r.appliedParams.Name }

func (r *Route) AppliedStops() []int {
	out := make([]int, len(r.appliedStops))
	copy(out, r.appliedStops)
	return out
}

func (r *Route) AppliedParameters() ScheduleParameters { return r.appliedParams }

func (r *Route) AppliedTravelTimes() ([]int, error) {
	return r.graph.CumulativeTravelTimes(r.appliedStops)
}

// Commit copies the working state into the applied state when there are
// pending edits. nameTaken reports whether another committed route already
// uses a name; it is consulted before anything is applied.
func (r *Route) Commit(nameTaken func(name string) bool) (bool, error) {
	if !r.IsDirty() {
		return false, nil
	}

	params := r.params.Parameters()
	if nameTaken != nil && nameTaken(params.Name) {
		return false, fmt.Errorf("commit route %q: %w", params.Name, ErrNameConflict)
	}

	r.appliedStops = r.buffer.Stops()
	r.appliedParams = params
	r.committed = true

	r.buffer.MarkSaved()
	r.params.MarkSaved()
	return true, nil
}

// Discard throws away all pending edits and undo history.
func (r *Route) Discard() { r.resetWorking() }

// Record returns the persisted form of the applied state.
func (r *Route) Record() RouteRecord {
	return RouteRecord{Stops: r.AppliedStops(), Params: r.appliedParams}
}

// PendingRecord returns the persisted form the route would have after Commit.
func (r *Route) PendingRecord() RouteRecord {
	return RouteRecord{Stops: r.buffer.Stops(), Params: r.params.Parameters()}
}

func (r *Route) resetWorking() {
	buffer := NewRouteBuffer(r.graph)
	for _, id := range r.appliedStops[1:] {
		buffer.stops.Append(id)
	}
	r.buffer = buffer
	r.params = NewScheduleBuffer(r.appliedParams)
}
