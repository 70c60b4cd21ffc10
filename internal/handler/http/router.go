package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/nimbushr/attendance-gate/internal/config"
	"github.com/nimbushr/attendance-gate/internal/handler/http/middleware"
	"github.com/nimbushr/attendance-gate/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	staffHandler StaffHandler,
	masterHandler MasterHandler,
	auditHandler AuditHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-gate"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/me", attendanceHandler.GetMyAttendance)
			})

			r.Route("/admin", func(r chi.Router) {

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/attendance", attendanceHandler.List)
					r.Route("/leave-status", func(r chi.Router) {
						r.Get("/", masterHandler.ListLeaveStatus)
						r.Put("/", masterHandler.SetLeaveStatus)
					})
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)

					r.Route("/staff", func(r chi.Router) {
						r.Get("/", staffHandler.List)
						r.Post("/", staffHandler.Create)
					})

					r.Route("/locations", func(r chi.Router) {
						r.Get("/", masterHandler.ListLocations)
						r.Post("/", masterHandler.CreateLocation)
						r.Put("/{id}", masterHandler.UpdateLocation)
						r.Delete("/{id}", masterHandler.DeleteLocation)
					})

					r.Route("/device-radius", func(r chi.Router) {
						r.Get("/", masterHandler.ListDeviceRadius)
						r.Put("/", masterHandler.UpsertDeviceRadius)
					})

					r.Route("/settings/geo", func(r chi.Router) {
						r.Get("/", masterHandler.GetGeoSettings)
						r.Put("/", masterHandler.UpdateGeoSettings)
					})

					r.Get("/audit-logs", auditHandler.List)
				})
			})
		})
	})

	return r
}
