package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ulule/limiter/v3"
)

// RouterConfig carries everything NewRouter wires together
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// RateLimiter is optional; nil disables per-IP limiting.
	RateLimiter *limiter.Limiter

	JWTService      jwt.Service
	Guard           auth.Guard
	EmployeeService employee.EmployeeService

	LeaveHandler        LeaveHandler
	EmployeeHandler     EmployeeHandler
	NotificationHandler NotificationHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	tokenAuth := cfg.JWTService.JWTAuth()
	authRequired := middleware.AuthRequired(cfg.JWTService, cfg.EmployeeService)
	permit := func(action user.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(cfg.Guard, action, nil)
	}
	view := middleware.RequireView(cfg.Guard)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(middleware.RateLimit(cfg.RateLimiter))
		}

		// EventSource cannot set headers, so the stream also accepts ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(tokenAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(authRequired)
			r.With(permit(user.ActionListOwn)).Get("/notifications/stream", cfg.NotificationHandler.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(tokenAuth, jwtauth.TokenFromHeader))
			r.Use(authRequired)

			r.Route("/leave", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.With(permit(user.ActionSubmit)).Post("/", cfg.LeaveHandler.CreateRequest)
					r.With(permit(user.ActionListOwn)).Get("/my", cfg.LeaveHandler.GetMyRequests)
					r.With(permit(user.ActionListAll)).Get("/", cfg.LeaveHandler.ListRequests)

					r.Route("/{id}", func(r chi.Router) {
						r.With(view).Get("/", cfg.LeaveHandler.GetRequest)
						r.With(permit(user.ActionDecide)).Post("/approve", cfg.LeaveHandler.ApproveRequest)
						r.With(permit(user.ActionDecide)).Post("/reject", cfg.LeaveHandler.RejectRequest)
					})
				})

				r.Route("/balances", func(r chi.Router) {
					r.With(permit(user.ActionListOwn)).Get("/my", cfg.LeaveHandler.GetMyBalances)
					r.With(middleware.RequirePermission(cfg.Guard, user.ActionListAll, middleware.URLParamTarget("employeeID"))).
						Get("/{employeeID}", cfg.LeaveHandler.GetEmployeeBalances)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(permit(user.ActionListAll)).Get("/", cfg.EmployeeHandler.ListEmployees)
				r.With(view).Get("/me", cfg.EmployeeHandler.GetMe)
				r.With(view).Get("/{id}", cfg.EmployeeHandler.GetEmployee)
				r.With(middleware.RequirePermission(cfg.Guard, user.ActionToggleActivation, middleware.URLParamTarget("id"))).
					Patch("/{id}/activation", cfg.EmployeeHandler.ToggleActivation)
			})

			r.With(permit(user.ActionListOwn)).Get("/notifications", cfg.NotificationHandler.List)
			r.With(permit(user.ActionListOwn)).Post("/notifications/read", cfg.NotificationHandler.MarkAsRead)
		})
	})
	return r
}
