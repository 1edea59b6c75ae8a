package services

import (
	"bus-route-service/internal/domain"
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBusCount(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		boundary string
		headway  int
		want     int
	}{
		{name: "default day", first: "6:00", boundary: "22:00", headway: 20, want: 49},
		{name: "boundary equals first", first: "6:00", boundary: "6:00", headway: 20, want: 1},
		{name: "boundary before first headway", first: "6:00", boundary: "6:10", headway: 20, want: 1},
		{name: "past midnight", first: "22:00", boundary: "0:49", headway: 20, want: 9},
		{name: "exact fit", first: "8:00", boundary: "9:00", headway: 30, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := domain.ScheduleParameters{
				Name:       "x",
				Headway:    tt.headway,
				FirstLeave: mustTime(t, tt.first),
				Boundary:   mustTime(t, tt.boundary),
			}
			if got := BusCount(params); got != tt.want {
				t.Fatalf("BusCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerateTimetableStationOnly(t *testing.T) {
	params := domain.DefaultScheduleParameters()

	tt, err := GenerateTimetable([]int{domain.StationID}, []int{0}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tt.Stops) != 1 {
		t.Fatalf("stops = %d, want 1", len(tt.Stops))
	}
	if tt.TotalTravelTime != 0 {
		t.Fatalf("total travel = %d, want 0", tt.TotalTravelTime)
	}
	if got := tt.Stops[0].Arrivals[0]; got != params.FirstLeave {
		t.Fatalf("first arrival = %v, want %v", got, params.FirstLeave)
	}
}

func TestGenerateTimetableClosedRoute(t *testing.T) {
	params := domain.ScheduleParameters{
		Name:       "loop",
		Headway:    20,
		FirstLeave: mustTime(t, "23:30"),
		Boundary:   mustTime(t, "0:10"),
	}

	tt, err := GenerateTimetable([]int{0, 1, 4, 0}, []int{0, 8, 21, 40}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tt.BusCount != 3 {
		t.Fatalf("bus count = %d, want 3", tt.BusCount)
	}
	if tt.TotalTravelTime != 40 {
		t.Fatalf("total travel = %d, want 40", tt.TotalTravelTime)
	}
	if first, last := tt.Stops[0].StopID, tt.Stops[len(tt.Stops)-1].StopID; first != domain.StationID || last != domain.StationID {
		t.Fatalf("first/last stop = %d/%d, want station at both ends", first, last)
	}

	got := make([]string, 0, len(tt.Stops[2].Arrivals))
	for _, a := range tt.Stops[2].Arrivals {
		got = append(got, a.String())
	}
	if diff := cmp.Diff([]string{"23:51", "00:11", "00:31"}, got); diff != "" {
		t.Fatalf("arrivals at stop 4 (-want +got):\n%s", diff)
	}
}

func TestGenerateTimetableRejectsBadInput(t *testing.T) {
	params := domain.DefaultScheduleParameters()

	if _, err := GenerateTimetable(nil, nil, params); err == nil {
		t.Fatal("expected error for empty route")
	}
	if _, err := GenerateTimetable([]int{0, 1}, []int{0}, params); err == nil {
		t.Fatal("expected error for mismatched travel times")
	}

	params.Headway = 0
	if _, err := GenerateTimetable([]int{0}, []int{0}, params); err == nil {
		t.Fatal("expected error for zero headway")
	}
}

func TestRouteTimetableUsesAppliedState(t *testing.T) {
	route := domain.NewRoute(testGraph(t))

	for _, id := range []int{1, 4, 0} {
		if err := route.Buffer().Append(id); err != nil {
			t.Fatalf("append %d: %v", id, err)
		}
	}
	if _, err := route.Commit(nil); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// Uncommitted edits must not leak into the timetable.
	if err := route.Buffer().Undo(); err == nil {
		t.Fatal("undo after commit should fail")
	}
	if err := route.Buffer().TruncateFrom(4); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	tt, err := RouteTimetable(route)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := make([]int, 0, len(tt.Stops))
	for _, s := range tt.Stops {
		ids = append(ids, s.StopID)
	}
	if diff := cmp.Diff([]int{0, 1, 4, 0}, ids); diff != "" {
		t.Fatalf("timetable stops (-want +got):\n%s", diff)
	}
	if tt.RouteName != domain.DefaultRouteName {
		t.Fatalf("route name = %q, want %q", tt.RouteName, domain.DefaultRouteName)
	}
}

func TestWriteTimetable(t *testing.T) {
	params := domain.ScheduleParameters{
		Name:       "Harbour loop",
		Headway:    15,
		FirstLeave: mustTime(t, "6:00"),
		Boundary:   mustTime(t, "6:15"),
	}
	tt, err := GenerateTimetable([]int{0, 2, 0}, []int{0, 5, 10}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTimetable(&buf, tt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Harbour loop",
		"headway: 15 min  buses: 2  travel time: 10 min",
		"station  06:00  06:15",
		"stop 2   06:05  06:20",
		"station  06:10  06:25",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	if err := WriteTimetable(&buf, nil); err == nil {
		t.Fatal("expected error for nil timetable")
	}
}
