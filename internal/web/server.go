// Package web serves the portal over HTTP: the catch-all page route backed
// by the page-props resolver, the editing API the CMS pushes drafts into,
// the preview endpoints that pin a browser to a draft, static assets, and
// health.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"devportal/internal/editing"
	"devportal/internal/render"
	"devportal/internal/resolver"
	"devportal/internal/session"
)

const healthPath = "/healthz"
const healthBody = "ok"
const staticPrefix = "/static/"

const readHeaderTimeout = 10 * time.Second
const shutdownTimeout = 5 * time.Second

// editingPruneInterval paces the background sweep of expired editing
// snapshots while the server runs.
const editingPruneInterval = 10 * time.Minute

type Config struct {
	Addr string

	Resolver *resolver.Resolver
	Renderer *render.Factory
	Sessions *session.Provider

	// Editing enables the editing surface: the draft data API and the
	// preview endpoints. Nil turns the whole surface off.
	Editing       editing.Store
	EditingSecret string

	// Locales lists the locale codes the page route accepts as a leading
	// path segment, e.g. /de/docs/start.
	Locales []string

	// StaticDir is served under /static/ when non-empty.
	StaticDir string

	CachePolicies CachePolicies

	Logger *zap.Logger
}

type Server struct {
	cfg      Config
	policies CachePolicies
	logger   *zap.Logger
	handler  http.Handler
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("web server needs a resolver")
	}
	if cfg.Renderer == nil {
		return nil, fmt.Errorf("web server needs a render factory")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("web server needs a session provider")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		policies: withDefaultPolicies(cfg.CachePolicies),
		logger:   logger,
	}
	s.handler = s.routes()

	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get(healthPath, s.handleHealth)

	if s.cfg.StaticDir != "" {
		fileServer := http.StripPrefix(staticPrefix, http.FileServer(http.Dir(s.cfg.StaticDir)))
		r.Handle(staticPrefix+"*", withCachePolicy(s.policies.Static, fileServer))
	}

	if s.cfg.Editing != nil {
		api := editing.NewAPI(s.cfg.Editing, s.cfg.EditingSecret, s.logger)
		r.Route("/api/editing", func(er chi.Router) {
			er.Get("/preview", s.handlePreviewEnter)
			er.Get("/preview/exit", s.handlePreviewExit)
			api.Register(er)
		})
	}

	r.Get("/*", s.handlePage)
	r.Head("/*", s.handlePage)

	return r
}

// Handler exposes the routing tree, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve runs the HTTP server until ctx is cancelled, then drains it. The
// editing store sweep runs alongside when the editing surface is enabled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.logger.Info("portal server listening", zap.String("addr", s.cfg.Addr))

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if s.cfg.Editing != nil {
		eg.Go(func() error {
			return s.pruneEditingData(egctx)
		})
	}

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down portal server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) pruneEditingData(ctx context.Context) error {
	ticker := time.NewTicker(editingPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pruned, err := s.cfg.Editing.Prune(ctx)
			if err != nil {
				s.logger.Warn("prune editing data", zap.Error(err))
				continue
			}
			if pruned > 0 {
				s.logger.Debug("pruned editing data", zap.Int("entries", pruned))
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	setCachePolicy(w, s.policies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(healthBody))
}
