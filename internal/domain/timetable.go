package domain

// Arrival times of every bus at one stop of a route.
type StopArrivals struct {
	StopID   int
	Arrivals []TimeOfDay
}

// Represents the full timetable of a committed route.
// A Timetable is derived data: it is recomputed from the route on demand
// and never stored.
type Timetable struct {
	RouteName       string
	Stops           []StopArrivals
	BusCount        int
	Headway         int
	TotalTravelTime int
}
