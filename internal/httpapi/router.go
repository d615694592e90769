package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aith/internal/httpapi/handlers"
	"aith/internal/httpkit"
	"aith/internal/pkg/logger"
	"aith/internal/pkg/middleware"
)

type Options struct {
	CORSOrigins []string
	// Bounds every route except GET /render, which runs as long as the pipeline does.
	RequestTimeout time.Duration
}

func NewRouter(h *handlers.Handler, log *logger.Logger, opt Options) http.Handler {
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins: opt.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	r.Get("/health", h.Health)

	// ---- RENDER ----
	r.Get("/render", middleware.WrapHandler(log, h.Render))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opt.RequestTimeout))

		r.Post("/render/queue", middleware.WrapHandler(log, h.EnqueueRender))

		// ---- SCRIPTS ----
		r.Get("/scripts", middleware.WrapHandler(log, h.ListScripts))
		r.Get("/scripts/{scriptId}", middleware.WrapHandler(log, h.GetScript))

		// ---- VIDEOS ----
		r.Get("/videos/{scriptId}", middleware.WrapHandler(log, h.StreamVideo))
	})

	return r
}
