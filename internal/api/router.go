package api

import (
	"bus-route-service/internal/api/handlers"
	"bus-route-service/internal/ports"
	"bus-route-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(routes *services.RouteCollection, repo ports.RouteRepository, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	stopHandler := &handlers.StopHandler{Graph: routes.Graph()}
	routeHandler := &handlers.RouteHandler{Routes: routes, Repo: repo}

	r.Get("/health", handlers.Health)
	r.Get("/stops", stopHandler.List)

	r.Route("/routes", func(r chi.Router) {
		r.Get("/", routeHandler.List)
		r.Post("/", routeHandler.Create)

		r.Route("/{routeID}", func(r chi.Router) {
			r.Get("/", routeHandler.Get)
			r.Delete("/", routeHandler.Delete)
			r.Post("/select", routeHandler.Select)

			r.Post("/stops", routeHandler.AppendStop)
			r.Delete("/stops", routeHandler.Clear)
			r.Delete("/stops/{stopID}", routeHandler.TruncateFrom)
			r.Post("/undo", routeHandler.Undo)

			r.Patch("/schedule", routeHandler.UpdateSchedule)
			r.Post("/commit", routeHandler.Commit)
			r.Post("/discard", routeHandler.Discard)

			r.Get("/timetable", routeHandler.Timetable)
		})
	})

	return r
}
