package web

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"devportal/internal/editing"
)

// handlePreviewEnter pins the browser's session to an editing snapshot and
// sends the editor on to the page under review. The CMS editing host builds
// this URL, so it carries the shared secret like every other editing call.
func (s *Server) handlePreviewEnter(w http.ResponseWriter, r *http.Request) {
	if !editing.VerifySecret(r, s.cfg.EditingSecret) {
		http.Error(w, "invalid editing secret", http.StatusUnauthorized)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "missing preview key", http.StatusBadRequest)
		return
	}

	// Refuse to pin a key that has no snapshot behind it; the page render
	// would only fail later with a worse error.
	if _, err := s.cfg.Editing.Get(r.Context(), key); err != nil {
		if errors.Is(err, editing.ErrDataNotFound) {
			http.Error(w, "unknown preview key", http.StatusNotFound)
			return
		}
		s.logger.Error("load preview data", zap.String("key", key), zap.Error(err))
		http.Error(w, "editing store failure", http.StatusInternalServerError)
		return
	}

	if err := s.cfg.Sessions.EnterPreview(w, r, key); err != nil {
		s.logger.Error("enter preview", zap.Error(err))
		http.Error(w, "could not start preview", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, safeRedirectPath(r), http.StatusTemporaryRedirect)
}

// handlePreviewExit drops the preview pin and returns to published content.
func (s *Server) handlePreviewExit(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Sessions.ExitPreview(w, r); err != nil {
		s.logger.Error("exit preview", zap.Error(err))
		http.Error(w, "could not exit preview", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, safeRedirectPath(r), http.StatusTemporaryRedirect)
}

// safeRedirectPath only ever sends the browser to a site-relative path.
func safeRedirectPath(r *http.Request) string {
	path := r.URL.Query().Get("path")
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}

	return path
}
