/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the planner frontend

ROUTE GROUPS:
  /api/employees/*      Employee management, per-employee balances,
                        patterns, bookings, overtime, carryover
  /api/departments/*    Department management
  /api/absences/*       Absence record deletion
  /api/statistics       Cross-employee yearly statistics
  /api/holidays/*       Public holiday table
  /api/years            Years with recorded data

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. allowedOrigins
// feeds the CORS middleware; an empty slice allows localhost dev origins.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/deactivate", h.DeactivateEmployee)

				r.Get("/statistics", h.GetStatistics)

				r.Get("/carryover", h.GetCarryover)
				r.Put("/carryover/{year}", h.SetCarryover)
				r.Delete("/carryover/{year}", h.ClearCarryover)

				r.Get("/pattern", h.GetPattern)
				r.Put("/pattern", h.SetPattern)

				r.Get("/overtime", h.GetOvertime)
				r.Post("/overtime", h.AddOvertime)

				r.Get("/overlap", h.CheckOverlap)

				r.Get("/absences", h.ListAbsences)
				r.Post("/absences", h.BookAbsence)

				r.Post("/trainings", h.BookTraining)

				r.Get("/projection", h.GetProjection)
				r.Get("/requested-days", h.GetRequestedDays)
			})
		})

		// Absence record deletion is keyed by record id, not employee
		r.Delete("/absences/{kind}/{id}", h.DeleteAbsence)

		// Department routes
		r.Route("/departments", func(r chi.Router) {
			r.Get("/", h.ListDepartments)
			r.Post("/", h.SaveDepartment)
			r.Delete("/{id}", h.DeleteDepartment)
		})

		// Statistics across all employees
		r.Get("/statistics", h.ListStatistics)

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.SaveHoliday)
			r.Delete("/{date}", h.DeleteHoliday)
		})

		// Years with recorded data
		r.Get("/years", h.ListYears)
	})

	return r
}
