package handlers

import (
	"bus-route-service/internal/api/dto"
	"bus-route-service/internal/domain"
	"net/http"
)

// StopHandler exposes the read-only city graph.
type StopHandler struct {
	Graph *domain.StopGraph
}

func (h *StopHandler) List(w http.ResponseWriter, r *http.Request) {
	stops := h.Graph.Stops()

	res := dto.ListStopsResponse{
		Stops: make([]dto.StopResponse, 0, len(stops)),
	}
	for _, s := range stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			StopID:    s.ID,
			Position:  s.Position.ToList(),
			Neighbors: s.Neighbors,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
