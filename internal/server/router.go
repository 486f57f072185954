package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/vigilai/internal/api"
	"github.com/cloo-solutions/vigilai/internal/api/handlers"
	"github.com/cloo-solutions/vigilai/internal/api/middleware"
)

type RouterConfig struct {
	BriefingHandler  *handlers.BriefingHandler
	KnowledgeHandler *handlers.KnowledgeHandler
	SpeechHandler    *handlers.SpeechHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.CORS)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/briefings", func(r chi.Router) {
			r.Post("/", cfg.BriefingHandler.Create)
			r.Get("/", cfg.BriefingHandler.List)
			r.Get("/{id}", cfg.BriefingHandler.Get)
			r.Post("/{id}/attention", cfg.BriefingHandler.LogAttention)
			r.Get("/{id}/missed", cfg.BriefingHandler.ListMissed)
		})

		r.Route("/knowledge-graph", func(r chi.Router) {
			r.Get("/", cfg.KnowledgeHandler.Graph)
			r.Get("/similar", cfg.KnowledgeHandler.Similar)
		})

		r.Post("/tts", cfg.SpeechHandler.Synthesize)
	})

	return r
}
