package api

import (
	"bus-route-service/internal/adapters/repositories"
	"bus-route-service/internal/api/dto"
	"bus-route-service/internal/domain"
	"bus-route-service/internal/ports"
	"bus-route-service/internal/services"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testServer struct {
	handler http.Handler
	repo    *repositories.MemoryRouteRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := repositories.NewMemoryRouteRepository()
	return &testServer{handler: newTestHandler(t, repo), repo: repo}
}

func newTestHandler(t *testing.T, repo ports.RouteRepository) http.Handler {
	t.Helper()

	g, err := domain.NewStopGraph([]domain.Stop{
		{ID: 0, Neighbors: map[int]int{1: 8, 2: 5}},
		{ID: 1, Position: domain.Position{X: 10}, Neighbors: map[int]int{0: 7, 2: 3}},
		{ID: 2, Position: domain.Position{X: 5, Y: 5}, Neighbors: map[int]int{0: 5, 1: 4}},
	})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}

	routes, err := services.LoadRouteCollection(context.Background(), g, repo)
	if err != nil {
		t.Fatalf("load routes: %v", err)
	}

	return NewRouter(routes, repo, []string{"http://localhost:5173"})
}

func (s *testServer) do(t *testing.T, method, path, body string, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d; body=%s", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthSetsRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", http.StatusOK)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want caller value", got)
	}
}

func TestListStops(t *testing.T) {
	s := newTestServer(t)

	res := decode[dto.ListStopsResponse](t, s.do(t, http.MethodGet, "/stops", "", http.StatusOK))
	if len(res.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(res.Stops))
	}
	if diff := cmp.Diff([]int{10, 0}, res.Stops[1].Position); diff != "" {
		t.Fatalf("position (-want +got):\n%s", diff)
	}
}

func TestRouteEditingFlow(t *testing.T) {
	s := newTestServer(t)

	created := decode[dto.RouteResponse](t, s.do(t, http.MethodPost, "/routes", "", http.StatusCreated))
	if created.RouteID != 0 || created.Committed {
		t.Fatalf("created = %+v", created)
	}
	if diff := cmp.Diff([]int{1, 2}, created.ReachableNext); diff != "" {
		t.Fatalf("reachable (-want +got):\n%s", diff)
	}

	s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 1}`, http.StatusOK)
	s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 2}`, http.StatusOK)
	route := decode[dto.RouteResponse](t, s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 0}`, http.StatusOK))

	if !route.Closed || !route.CanUndo || !route.Dirty {
		t.Fatalf("closed=%v canUndo=%v dirty=%v", route.Closed, route.CanUndo, route.Dirty)
	}
	if diff := cmp.Diff([]int{0, 8, 11, 16}, route.TravelMinutes); diff != "" {
		t.Fatalf("travel (-want +got):\n%s", diff)
	}

	s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 1}`, http.StatusBadRequest)
	s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 7}`, http.StatusBadRequest)
	s.do(t, http.MethodPost, "/routes/0/stops", `{}`, http.StatusBadRequest)

	s.do(t, http.MethodPatch, "/routes/0/schedule",
		`{"name": "Line A", "headway_minutes": 30, "first_leave": "07:00", "boundary": "08:00"}`,
		http.StatusOK)

	commit := decode[dto.CommitResponse](t, s.do(t, http.MethodPost, "/routes/0/commit", "", http.StatusOK))
	if !commit.Committed || commit.Route.AppliedSchedule.Name != "Line A" {
		t.Fatalf("commit = %+v", commit)
	}

	stored, _ := s.repo.ListRoutes(context.Background())
	if len(stored) != 1 || stored[0].Params.Name != "Line A" {
		t.Fatalf("stored = %+v", stored)
	}

	tt := decode[dto.TimetableResponse](t, s.do(t, http.MethodGet, "/routes/0/timetable", "", http.StatusOK))
	if tt.BusCount != 3 || len(tt.Stops) != 4 {
		t.Fatalf("timetable bus count = %d stops = %d", tt.BusCount, len(tt.Stops))
	}
	if diff := cmp.Diff([]string{"07:11", "07:41", "08:11"}, tt.Stops[2].Arrivals); diff != "" {
		t.Fatalf("arrivals (-want +got):\n%s", diff)
	}

	text := s.do(t, http.MethodGet, "/routes/0/timetable?format=text", "", http.StatusOK)
	if !strings.Contains(text.Body.String(), "Line A") {
		t.Fatalf("text timetable missing name:\n%s", text.Body.String())
	}
}

func TestScheduleUpdateIsAtomic(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/routes", "", http.StatusCreated)

	s.do(t, http.MethodPatch, "/routes/0/schedule", `{"name": "Line A", "boundary": "25:00"}`, http.StatusBadRequest)
	s.do(t, http.MethodPatch, "/routes/0/schedule", `{"name": "   "}`, http.StatusBadRequest)
	s.do(t, http.MethodPatch, "/routes/0/schedule", `{"headway": 5}`, http.StatusBadRequest)

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodGet, "/routes/0", "", http.StatusOK))
	if route.Schedule.Name != domain.DefaultRouteName || route.Dirty {
		t.Fatalf("schedule = %+v dirty=%v, want untouched defaults", route.Schedule, route.Dirty)
	}
}

func TestCommitNameConflict(t *testing.T) {
	s := newTestServer(t)

	for i, stop := range []string{"1", "2"} {
		s.do(t, http.MethodPost, "/routes", "", http.StatusCreated)
		path := "/routes/" + strconv.Itoa(i)
		s.do(t, http.MethodPost, path+"/stops", `{"stop_id": `+stop+`}`, http.StatusOK)
		s.do(t, http.MethodPatch, path+"/schedule", `{"name": "Line `+stop+`"}`, http.StatusOK)
		s.do(t, http.MethodPost, path+"/commit", "", http.StatusOK)
	}

	s.do(t, http.MethodPatch, "/routes/1/schedule", `{"name": "Line 1"}`, http.StatusOK)
	s.do(t, http.MethodPost, "/routes/1/commit", "", http.StatusConflict)

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodPost, "/routes/1/discard", "", http.StatusOK))
	if route.Schedule.Name != "Line 2" || route.Dirty {
		t.Fatalf("after discard name=%q dirty=%v", route.Schedule.Name, route.Dirty)
	}
}

func TestUndoTruncateAndDelete(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/routes", "", http.StatusCreated)

	s.do(t, http.MethodPost, "/routes/0/undo", "", http.StatusConflict)
	s.do(t, http.MethodDelete, "/routes/0/stops/0", "", http.StatusConflict)

	s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 2}`, http.StatusOK)
	s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 1}`, http.StatusOK)

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodDelete, "/routes/0/stops/1", "", http.StatusOK))
	if diff := cmp.Diff([]int{0, 2}, route.Stops); diff != "" {
		t.Fatalf("after truncate (-want +got):\n%s", diff)
	}

	route = decode[dto.RouteResponse](t, s.do(t, http.MethodDelete, "/routes/0/stops", "", http.StatusOK))
	if diff := cmp.Diff([]int{0}, route.Stops); diff != "" {
		t.Fatalf("after clear (-want +got):\n%s", diff)
	}

	route = decode[dto.RouteResponse](t, s.do(t, http.MethodPost, "/routes/0/undo", "", http.StatusOK))
	if diff := cmp.Diff([]int{0, 2}, route.Stops); diff != "" {
		t.Fatalf("after undo (-want +got):\n%s", diff)
	}

	s.do(t, http.MethodDelete, "/routes/0/stops/x", "", http.StatusBadRequest)
	s.do(t, http.MethodDelete, "/routes/0", "", http.StatusNoContent)
	s.do(t, http.MethodGet, "/routes/0", "", http.StatusNotFound)
	s.do(t, http.MethodGet, "/routes/abc", "", http.StatusBadRequest)

	list := decode[dto.ListRoutesResponse](t, s.do(t, http.MethodGet, "/routes", "", http.StatusOK))
	if len(list.Routes) != 0 {
		t.Fatalf("routes = %d, want 0", len(list.Routes))
	}
}

// failingRouteRepository stores nothing while failing is set.
type failingRouteRepository struct {
	*repositories.MemoryRouteRepository
	failing bool
}

func (f *failingRouteRepository) ReplaceRoutes(ctx context.Context, records []domain.RouteRecord) error {
	if f.failing {
		return errors.New("storage unavailable")
	}
	return f.MemoryRouteRepository.ReplaceRoutes(ctx, records)
}

func TestCommitWriteFailureKeepsPendingEdits(t *testing.T) {
	repo := &failingRouteRepository{MemoryRouteRepository: repositories.NewMemoryRouteRepository(), failing: true}
	s := &testServer{handler: newTestHandler(t, repo)}

	s.do(t, http.MethodPost, "/routes", "", http.StatusCreated)
	s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 1}`, http.StatusOK)
	s.do(t, http.MethodPost, "/routes/0/commit", "", http.StatusInternalServerError)

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodGet, "/routes/0", "", http.StatusOK))
	if route.Committed || !route.Dirty || !route.CanUndo {
		t.Fatalf("committed=%v dirty=%v canUndo=%v, want pending edits kept", route.Committed, route.Dirty, route.CanUndo)
	}
	if diff := cmp.Diff([]int{0}, route.AppliedStops); diff != "" {
		t.Fatalf("applied stops (-want +got):\n%s", diff)
	}

	repo.failing = false
	commit := decode[dto.CommitResponse](t, s.do(t, http.MethodPost, "/routes/0/commit", "", http.StatusOK))
	if !commit.Committed {
		t.Fatal("retried commit should apply the pending edits")
	}

	stored, _ := repo.ListRoutes(context.Background())
	if len(stored) != 1 {
		t.Fatalf("stored %d routes, want 1", len(stored))
	}
	if diff := cmp.Diff([]int{0, 1}, stored[0].Stops); diff != "" {
		t.Fatalf("stored stops (-want +got):\n%s", diff)
	}
}

func TestDeleteWriteFailureKeepsRoute(t *testing.T) {
	repo := &failingRouteRepository{MemoryRouteRepository: repositories.NewMemoryRouteRepository()}
	s := &testServer{handler: newTestHandler(t, repo)}

	s.do(t, http.MethodPost, "/routes", "", http.StatusCreated)
	s.do(t, http.MethodPost, "/routes/0/stops", `{"stop_id": 1}`, http.StatusOK)
	s.do(t, http.MethodPost, "/routes/0/commit", "", http.StatusOK)

	repo.failing = true
	s.do(t, http.MethodDelete, "/routes/0", "", http.StatusInternalServerError)

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodGet, "/routes/0", "", http.StatusOK))
	if !route.Committed {
		t.Fatal("route should still be committed after a failed delete")
	}
	stored, _ := repo.ListRoutes(context.Background())
	if len(stored) != 1 {
		t.Fatalf("stored %d routes, want 1", len(stored))
	}
}

func TestRouteIDsStableAcrossDelete(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/routes", "", http.StatusCreated)
	s.do(t, http.MethodPost, "/routes", "", http.StatusCreated)
	s.do(t, http.MethodPost, "/routes/1/stops", `{"stop_id": 2}`, http.StatusOK)

	s.do(t, http.MethodDelete, "/routes/0", "", http.StatusNoContent)

	route := decode[dto.RouteResponse](t, s.do(t, http.MethodGet, "/routes/1", "", http.StatusOK))
	if route.RouteID != 1 {
		t.Fatalf("route id = %d, want 1", route.RouteID)
	}
	if diff := cmp.Diff([]int{0, 2}, route.Stops); diff != "" {
		t.Fatalf("stops (-want +got):\n%s", diff)
	}

	list := decode[dto.ListRoutesResponse](t, s.do(t, http.MethodGet, "/routes", "", http.StatusOK))
	if len(list.Routes) != 1 || list.Routes[0].RouteID != 1 || !list.Routes[0].Current {
		t.Fatalf("routes = %+v, want only id 1 and current", list.Routes)
	}
}
