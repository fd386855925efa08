package web

import (
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"devportal/internal/render"
	"devportal/internal/resolver"
)

// handlePage is the catch-all route: every path that is not health, static,
// or an API endpoint resolves through the page-props resolver and renders
// the outcome.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	segments, routeLocale := s.splitLocale(resolver.SegmentsFromPath(r.URL.Path))
	rc := resolver.NewRequestContext(w, r, segments, routeLocale)

	if sess := s.cfg.Sessions.Resolve(r); sess.InPreview() && s.cfg.Editing != nil {
		rc = rc.WithPreview(sess.PreviewKey)
	}

	props, err := s.cfg.Resolver.Resolve(r.Context(), rc)
	if err != nil {
		s.logger.Error("resolve page",
			zap.String("path", r.URL.Path),
			zap.String("kind", rc.Kind.String()),
			zap.Error(err))
		s.renderComponent(w, r, render.ErrorPage(), http.StatusInternalServerError, s.policies.Error)
		return
	}

	view := render.NewPageView(props, r.URL.Path)
	switch {
	case props.Unauthorized:
		s.renderComponent(w, r, render.UnauthorizedPage(view), http.StatusUnauthorized, s.policies.Error)
	case props.NotFound:
		s.renderComponent(w, r, render.NotFoundPage(view), http.StatusNotFound, s.policies.Error)
	default:
		policy := s.policies.Pages
		if rc.InPreview() {
			policy = previewCachePolicy
		}
		s.renderComponent(w, r, render.Page(s.cfg.Renderer, view), http.StatusOK, policy)
	}
}

// splitLocale peels a configured locale code off the front of the path, so
// /de/docs resolves path /docs in locale de.
func (s *Server) splitLocale(segments []string) ([]string, string) {
	if len(segments) == 0 {
		return segments, ""
	}
	if slices.Contains(s.cfg.Locales, segments[0]) {
		return segments[1:], segments[0]
	}

	return segments, ""
}

func (s *Server) renderComponent(w http.ResponseWriter, r *http.Request, component templ.Component, status int, cachePolicy string) {
	setCachePolicy(w, cachePolicy)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := component.Render(r.Context(), w); err != nil {
		// The status line is out; all that is left is to note the failure.
		s.logger.Error("render page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
