package services

import (
	"bus-route-service/internal/domain"
	"errors"
	"fmt"
)

// GenerateTimetable computes arrival times at every stop for every bus.
//
// The first bus always leaves the station at FirstLeave. Further buses follow
// every Headway minutes as long as they leave no later than Boundary; a
// boundary earlier than the first departure means the service runs past
// midnight. Arrival times wrap onto the next day.
func GenerateTimetable(
	stops []int,
	travelTimes []int,
	params domain.ScheduleParameters,
) (*domain.Timetable, error) {
	if len(stops) == 0 {
		return nil, errors.New("generate timetable: route must contain at least the station")
	}

	if len(stops) != len(travelTimes) {
		return nil, fmt.Errorf(
			"generate timetable: stops and travel times differ in length: stops=%d travel=%d",
			len(stops), len(travelTimes),
		)
	}

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("generate timetable: %w", err)
	}

	busCount := BusCount(params)
	first := params.FirstLeave.MinutesSinceMidnight()

	out := make([]domain.StopArrivals, 0, len(stops))
	for i, stopID := range stops {
		arrivals := make([]domain.TimeOfDay, 0, busCount)
		for k := 0; k < busCount; k++ {
			arrivals = append(arrivals, domain.TimeOfDayFromMinutes(first+k*params.Headway+travelTimes[i]))
		}

		out = append(out, domain.StopArrivals{StopID: stopID, Arrivals: arrivals})
	}

	return &domain.Timetable{
		RouteName:       params.Name,
		Stops:           out,
		BusCount:        busCount,
		Headway:         params.Headway,
		TotalTravelTime: travelTimes[len(travelTimes)-1],
	}, nil
}

// BusCount returns how many buses leave the station between FirstLeave and Boundary.
func BusCount(params domain.ScheduleParameters) int {
	first := params.FirstLeave.MinutesSinceMidnight()
	boundary := params.Boundary.MinutesSinceMidnight()

	span := boundary - first
	if boundary < first {
		span = boundary + domain.MinutesPerDay - first
	}

	if params.Headway < 1 {
		return 1
	}

	return span/params.Headway + 1
}

// RouteTimetable builds the timetable of a route's committed state.
func RouteTimetable(route *domain.Route) (*domain.Timetable, error) {
	if route == nil {
		return nil, errors.New("route timetable: route must be non-nil")
	}

	travel, err := route.AppliedTravelTimes()
	if err != nil {
		return nil, fmt.Errorf("route timetable %q: %w", route.Name(), err)
	}

	tt, err := GenerateTimetable(route.AppliedStops(), travel, route.AppliedParameters())
	if err != nil {
		return nil, fmt.Errorf("route timetable %q: %w", route.Name(), err)
	}

	return tt, nil
}
