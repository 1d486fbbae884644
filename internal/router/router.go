package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/interviewace-api/internal/aiquestion"
	"github.com/saulo-duarte/interviewace-api/internal/config"
	"github.com/saulo-duarte/interviewace-api/internal/middlewares"
	"github.com/saulo-duarte/interviewace-api/internal/user"
)

type RouterConfig struct {
	UserHandler       *user.Handler
	AIQuestionHandler *aiquestion.Handler
	CORS              config.CORSConfig
	TrustProxy        bool
	// RateLimiter throttles the credential endpoints; nil disables it.
	RateLimiter *middlewares.RateLimiter
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware(cfg.CORS))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Welcome to InterviewAce API"))
	})

	var throttle func(http.Handler) http.Handler
	if cfg.RateLimiter != nil {
		throttle = cfg.RateLimiter.Middleware
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", user.Routes(cfg.UserHandler, throttle))
		r.Mount("/ai", aiquestion.Routes(cfg.AIQuestionHandler))
	})
	return r
}
