package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/handler"
)

type Handlers struct {
	Bills         *handler.BillHandler
	Funds         *handler.FundsHandler
	Investments   *handler.InvestmentHandler
	Notifications *handler.NotificationHandler
	Reclamations  *handler.ReclamationHandler
	Auth          *handler.AuthHandler
	Health        *handler.HealthHandler
}

type Options struct {
	CookieName     string
	Sessions       handler.SessionResolver
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func SetupRoutes(h Handlers, opts Options, logger *zap.Logger) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handler.Sessions(opts.CookieName, opts.Sessions, time.Now))

		// Long-lived, so outside the request timeout.
		r.Get("/notifications/ws", h.Notifications.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(opts.RequestTimeout))

			r.Get("/health", h.Health.Health)

			r.Route("/bills", func(r chi.Router) {
				r.Get("/providers", h.Bills.Providers)
				r.Post("/validate", h.Bills.Validate)
				r.Post("/pay", h.Bills.Pay)
				r.Get("/history", h.Bills.History)
				r.Get("/stats", h.Bills.Stats)
				r.Get("/promotions", h.Bills.Promotions)
				r.Get("/overview", h.Bills.Overview)
			})

			r.Post("/funds-provision", h.Funds.Create)
			r.Get("/funds-provision/limits", h.Funds.Limits)
			r.Post("/otp/request", h.Funds.RequestOTP)

			r.Route("/investments", func(r chi.Router) {
				r.Get("/", h.Investments.List)
				r.Get("/products", h.Investments.Products)
				r.Post("/", h.Investments.Create)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notifications.List)
				r.Get("/unread-count", h.Notifications.UnreadCount)
				r.Post("/read-all", h.Notifications.MarkAllRead)
				r.Post("/{id}/read", h.Notifications.MarkRead)
				r.Delete("/{id}", h.Notifications.Delete)
			})

			r.Route("/reclamations", func(r chi.Router) {
				r.Use(handler.RequireSession)
				r.Get("/", h.Reclamations.List)
				r.Get("/{id}", h.Reclamations.Get)
				r.Post("/", h.Reclamations.Create)
			})

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.Auth.Login)
				r.Post("/signup", h.Auth.SignUp)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})
		})
	})

	return r
}

// corsOptions allows credentials only for an explicit origin list; browsers
// refuse credentials with a wildcard.
func corsOptions(origins []string) cors.Options {
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
}

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr))
		})
	}
}
