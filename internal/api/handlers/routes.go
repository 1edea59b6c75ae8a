package handlers

import (
	"bus-route-service/internal/api/dto"
	"bus-route-service/internal/domain"
	"bus-route-service/internal/ports"
	"bus-route-service/internal/services"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RouteHandler exposes the route editor. Routes are not safe for concurrent
// use, so every request holds mu for its whole duration.
type RouteHandler struct {
	mu     sync.Mutex
	Routes *services.RouteCollection
	Repo   ports.RouteRepository
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, _, _ := h.Routes.Current()
	ids := h.Routes.IDs()
	routes := h.Routes.Routes()

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteSummaryResponse, 0, len(routes))}
	for i, route := range routes {
		res.Routes = append(res.Routes, dto.RouteSummaryResponse{
			RouteID:   ids[i],
			Name:      route.Name(),
			Committed: route.IsCommitted(),
			Dirty:     route.IsDirty(),
			Current:   ids[i] == current,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route := h.Routes.NewRoute()
	h.writeRoute(w, r, http.StatusCreated, i, route)
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}
	h.writeRoute(w, r, http.StatusOK, i, route)
}

// Delete persists the remaining committed routes and then removes the route.
// Other route ids stay valid.
func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, _, ok := h.route(w, r)
	if !ok {
		return
	}

	if err := h.Routes.RemoveAndSave(r.Context(), h.Repo, i); err != nil {
		writeDomainError(w, r, "remove route", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RouteHandler) Select(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}
	if err := h.Routes.Select(i); err != nil {
		writeDomainError(w, r, "select route", err)
		return
	}
	h.writeRoute(w, r, http.StatusOK, i, route)
}

func (h *RouteHandler) AppendStop(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}

	var req dto.AppendStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := route.Buffer().Append(*req.StopID); err != nil {
		writeDomainError(w, r, "append stop", err)
		return
	}
	h.writeRoute(w, r, http.StatusOK, i, route)
}

func (h *RouteHandler) TruncateFrom(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}

	stopID, err := strconv.Atoi(chi.URLParam(r, "stopID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "stop id must be an integer")
		return
	}

	if err := route.Buffer().TruncateFrom(stopID); err != nil {
		writeDomainError(w, r, "truncate route", err)
		return
	}
	h.writeRoute(w, r, http.StatusOK, i, route)
}

func (h *RouteHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}

	route.Buffer().Clear()
	h.writeRoute(w, r, http.StatusOK, i, route)
}

func (h *RouteHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}

	if err := route.Buffer().Undo(); err != nil {
		writeDomainError(w, r, "undo", err)
		return
	}
	h.writeRoute(w, r, http.StatusOK, i, route)
}

// UpdateSchedule applies all requested fields or none of them.
func (h *RouteHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	next := route.Schedule().Parameters()
	if req.Name != nil {
		next.Name = strings.TrimSpace(*req.Name)
	}
	if req.HeadwayMinutes != nil {
		next.Headway = *req.HeadwayMinutes
	}
	if req.FirstLeave != nil {
		t, err := domain.ParseTimeOfDay(*req.FirstLeave)
		if err != nil {
			writeDomainError(w, r, "parse first leave", err)
			return
		}
		next.FirstLeave = t
	}
	if req.Boundary != nil {
		t, err := domain.ParseTimeOfDay(*req.Boundary)
		if err != nil {
			writeDomainError(w, r, "parse boundary", err)
			return
		}
		next.Boundary = t
	}

	if err := next.Validate(); err != nil {
		writeDomainError(w, r, "update schedule", err)
		return
	}

	// Every value was validated above, so the setters cannot fail.
	s := route.Schedule()
	_ = s.SetName(next.Name)
	_ = s.SetHeadway(next.Headway)
	_ = s.SetFirstLeave(next.FirstLeave)
	_ = s.SetBoundary(next.Boundary)

	h.writeRoute(w, r, http.StatusOK, i, route)
}

// Commit persists every committed route with this route's pending edits
// applied, then applies them in memory. A failed write leaves the edits pending.
func (h *RouteHandler) Commit(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}

	committed, err := h.Routes.CommitAndSave(r.Context(), h.Repo, i)
	if err != nil {
		writeDomainError(w, r, "commit route", err)
		return
	}

	if committed {
		zap.S().Infof("route committed: route_id=%d name=%q stops=%d", i, route.Name(), len(route.AppliedStops()))
	}

	writeJSON(w, r, http.StatusOK, dto.CommitResponse{
		Committed: committed,
		Route:     routeResponse(i, route),
	})
}

func (h *RouteHandler) Discard(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, route, ok := h.route(w, r)
	if !ok {
		return
	}

	if err := h.Routes.Discard(i); err != nil {
		writeDomainError(w, r, "discard route", err)
		return
	}
	h.writeRoute(w, r, http.StatusOK, i, route)
}

// route resolves the {routeID} URL parameter. It writes the error response
// itself and reports false when the route does not exist.
func (h *RouteHandler) route(w http.ResponseWriter, r *http.Request) (int, *domain.Route, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "routeID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "route id must be an integer")
		return 0, nil, false
	}

	route, err := h.Routes.Route(i)
	if err != nil {
		writeDomainError(w, r, "lookup route", err)
		return 0, nil, false
	}

	return i, route, true
}

func (h *RouteHandler) writeRoute(w http.ResponseWriter, r *http.Request, status int, i int, route *domain.Route) {
	writeJSON(w, r, status, routeResponse(i, route))
}

func routeResponse(i int, route *domain.Route) dto.RouteResponse {
	b := route.Buffer()

	// Every stop was appended through a checked edge, so this only fails on a bug.
	travel, err := b.TravelTimes()
	if err != nil {
		zap.S().Errorf("route travel times: route_id=%d err=%v", i, err)
	}

	return dto.RouteResponse{
		RouteID:         i,
		Committed:       route.IsCommitted(),
		Dirty:           route.IsDirty(),
		Stops:           b.Stops(),
		TravelMinutes:   travel,
		ReachableNext:   b.ReachableNext(),
		Closed:          b.IsClosed(),
		CanUndo:         b.CanUndo(),
		Schedule:        scheduleResponse(route.Schedule().Parameters()),
		AppliedStops:    route.AppliedStops(),
		AppliedSchedule: scheduleResponse(route.AppliedParameters()),
	}
}

func scheduleResponse(p domain.ScheduleParameters) dto.ScheduleResponse {
	return dto.ScheduleResponse{
		Name:           p.Name,
		HeadwayMinutes: p.Headway,
		FirstLeave:     p.FirstLeave.String(),
		Boundary:       p.Boundary.String(),
	}
}
