package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docreview/internal/config"
	"github.com/dgallion1/docreview/internal/extract"
	"github.com/dgallion1/docreview/internal/render"
	"github.com/dgallion1/docreview/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// PageRasterizer renders a single page of a hosted document.
type PageRasterizer interface {
	RenderPage(ctx context.Context, doc render.Document, page, widthPx int) (render.Surface, error)
}

// Server is the HTTP API server for docreview.
type Server struct {
	router       chi.Router
	orchestrator *session.Orchestrator
	sessions     *session.Store
	stats        *extract.Stats
	pages        PageRasterizer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *session.Orchestrator, stats *extract.Stats, pages PageRasterizer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		sessions:     orch.Sessions(),
		stats:        stats,
		pages:        pages,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/sessions", s.handleCreateSession)
		r.Get("/api/stats/extract", s.handleExtractStats)

		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/document", s.handleReplaceDocument)
			r.Post("/clear", s.handleClearSession)

			r.Get("/view", s.handleView)
			r.Post("/surface", s.handleSurface)
			r.Post("/page", s.handleGoToPage)
			r.Post("/page/next", s.handleNextPage)
			r.Post("/page/prev", s.handlePrevPage)

			r.Get("/overlay.html", s.handleOverlayHTML)
			r.Get("/pages/{page}.png", s.handlePageImage)
			r.Get("/markdown", s.handleMarkdown)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
