package domain

// RouteRecord is the persisted form of a committed route: the applied stop
// sequence and parameters only. Working edits and undo history are never stored.
type RouteRecord struct {
	Stops  []int
	Params ScheduleParameters
}
