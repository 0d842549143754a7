package web

import (
	"net/http"

	"kirby-site/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server serves the content routes of the site.
type Server struct {
	content  usecase.ContentUseCase
	renderer *Renderer
	log      *zerolog.Logger
}

func NewServer(content usecase.ContentUseCase, renderer *Renderer, logger *zerolog.Logger) *Server {
	return &Server{content: content, renderer: renderer, log: logger}
}

// Register sets up the content routes. Paths without a route of their own
// are served by NotFound through the plain page lookup.
func (s *Server) Register(r chi.Router) {
	r.Get("/.well-known/security.txt", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/security.txt", http.StatusFound)
	})

	r.Get("/releases/{version}", s.handleRelease)
	r.Get("/releases/{version}/*", s.handleRelease)

	r.Get("/pixels", s.handlePixels)
	r.Get("/plugins/k4", s.handleFiltered("plugins", "filter", "k4"))
	r.Get("/plugins/new", s.handleFiltered("plugins", "filter", "published"))

	r.Get("/docs/cookbook/tags/{tag}", s.handleTag("docs/cookbook"))
	r.Get("/docs/quicktips/tags/{tag}", s.handleTag("docs/quicktips"))
	r.Get("/docs/cookbook/{category}/{slug}", s.handleCookbook)
}
