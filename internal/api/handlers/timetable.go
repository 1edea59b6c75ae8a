package handlers

import (
	"bus-route-service/internal/api/dto"
	"bus-route-service/internal/services"
	"bytes"
	"net/http"
)

// Timetable renders the committed route's timetable as JSON, or as plain
// text with ?format=text.
func (h *RouteHandler) Timetable(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, route, ok := h.route(w, r)
	if !ok {
		return
	}

	tt, err := services.RouteTimetable(route)
	if err != nil {
		writeDomainError(w, r, "timetable", err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		var buf bytes.Buffer
		if err := services.WriteTimetable(&buf, tt); err != nil {
			writeDomainError(w, r, "render timetable", err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	res := dto.TimetableResponse{
		RouteName:          tt.RouteName,
		BusCount:           tt.BusCount,
		HeadwayMinutes:     tt.Headway,
		TotalTravelMinutes: tt.TotalTravelTime,
		Stops:              make([]dto.StopArrivalsResponse, 0, len(tt.Stops)),
	}
	for _, s := range tt.Stops {
		arrivals := make([]string, 0, len(s.Arrivals))
		for _, a := range s.Arrivals {
			arrivals = append(arrivals, a.String())
		}
		res.Stops = append(res.Stops, dto.StopArrivalsResponse{StopID: s.StopID, Arrivals: arrivals})
	}

	writeJSON(w, r, http.StatusOK, res)
}
