package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the process-level settings the router needs.
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	LogLevel       slog.Level
	// GoogleEnabled mounts the Google sign-in routes.
	GoogleEnabled bool
}

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Correction CorrectionHandler
	Leave      LeaveHandler
	Task       TaskHandler
	Staff      StaffHandler
	Settings   SettingsHandler
	Analytics  AnalyticsHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ems-cmlabs"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	// X-Forwarded-For is read by the admission check itself, so RealIP stays off.

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Post("/request-otp", h.Auth.RequestOTP)
			r.Post("/verify-otp-change-password", h.Auth.VerifyOTPAndChangePassword)
			if opts.GoogleEnabled {
				r.Get("/google", h.Auth.LoginWithGoogle)
				r.Get("/google/callback", h.Auth.OAuthCallbackGoogle)
			}
		})

		r.Get("/ip/client-ip", h.Settings.ClientIP)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/punch", h.Attendance.Punch)
				r.Get("/status", h.Attendance.Status)
				r.Get("/summary", h.Attendance.Summary)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/records", h.Attendance.ListRecords)
					r.Get("/attendance-records", h.Attendance.ListRecords)
					r.Get("/export", h.Attendance.Export)
					r.Get("/photo/{id}", h.Attendance.Photo)
				})
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Post("/", h.Correction.Submit)
				r.Get("/", h.Correction.List)
				r.With(middleware.RequireAdmin).Put("/{id}", h.Correction.Decide)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", h.Leave.ListMine)
				r.Post("/", h.Leave.Apply)
				r.Delete("/{id}", h.Leave.Cancel)
				r.Get("/notifications", h.Leave.Notifications)
				r.Get("/export", h.Leave.Export)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/admin", h.Leave.ListAll)
					r.Put("/{id}/approve", h.Leave.Approve)
					r.Put("/{id}/reject", h.Leave.Reject)
					r.Put("/{id}/decision", h.Leave.Decision)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.Task.ListMine)
				r.Post("/", h.Task.Create)
				r.Put("/{id}", h.Task.UpdateStatus)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/admin", h.Task.ListAll)
					r.Post("/assign", h.Task.Assign)
					r.Get("/overview", h.Task.Overview)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", h.Staff.List)
				r.Post("/", h.Staff.Create)
				r.Get("/profiles", h.Staff.ListProfiles)
				r.Delete("/{id}", h.Staff.Delete)
				r.Put("/{id}/leave-quota", h.Staff.UpdateLeaveQuota)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", h.Staff.GetProfile)
				r.Put("/", h.Staff.UpdateProfile)
			})

			r.Get("/settings", h.Settings.Get)
			r.With(middleware.RequireAdmin).Put("/settings", h.Settings.Update)

			r.Route("/ip", func(r chi.Router) {
				r.Get("/wifi-ips", h.Settings.WiFiIPs)
				r.Get("/device-ips", h.Settings.DeviceIPs)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/analytics", h.Analytics.EmployeeStats)
				r.Get("/settings", h.Settings.Get)
				r.Put("/settings", h.Settings.Update)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	})
	return r
}
