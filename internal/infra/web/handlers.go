package web

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/model"
	"kirby-site/internal/infra/logging"

	"github.com/go-chi/chi/v5"
)

// releaseVersion splits "3.8" or "3-8" into generation, separator and major.
var releaseVersion = regexp.MustCompile(`^([0-9]+)([.-])(.+)$`)

// handleRelease redirects the folder style 3-8 to the public 3.8 and serves
// the release pages under the dotted version.
func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")
	m := releaseVersion.FindStringSubmatch(chi.URLParam(r, "version"))
	if m == nil {
		s.NotFound(w, r)
		return
	}
	generation, sep, major := m[1], m[2], m[3]

	if sep == "-" {
		if rest != "" {
			// folder paths below a release are ordinary pages
			s.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/releases/"+generation+"."+major, http.StatusFound)
		return
	}

	page, err := s.content.Release(r.Context(), generation, major, rest)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderer.Render(w, http.StatusOK, page, nil)
}

func (s *Server) handlePixels(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, http.StatusOK, model.NewVirtualPage("pixels", "pixels", "Pixels"), nil)
}

// handleFiltered renders the page at path with one fixed parameter.
func (s *Server) handleFiltered(path, key, value string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.content.Page(r.Context(), path)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.renderer.Render(w, http.StatusOK, page, map[string]string{key: value})
	}
}

func (s *Server) handleTag(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.content.Page(r.Context(), path)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.renderer.Render(w, http.StatusOK, page, map[string]string{"tag": chi.URLParam(r, "tag")})
	}
}

// handleCookbook renders a recipe at its own path and sends old and moved
// recipe links to where the recipe lives now.
func (s *Server) handleCookbook(w http.ResponseWriter, r *http.Request) {
	page, moved, err := s.content.CookbookRecipe(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !moved {
		s.renderer.Render(w, http.StatusOK, page, nil)
		return
	}
	http.Redirect(w, r, page.URL(), http.StatusFound)
}

// NotFound serves any other path as a content page.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		path = "home"
	}
	page, err := s.content.Page(r.Context(), path)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderer.Render(w, http.StatusOK, page, nil)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidArgument) {
		s.renderer.RenderNotFound(w)
		return
	}
	logging.With(r.Context(), s.log).Error().Err(err).Str("path", r.URL.Path).Msg("page lookup failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
