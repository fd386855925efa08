package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devportal/internal/cms/sitemap"
	"devportal/internal/resolver"
	"devportal/internal/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		Long: `Serve resolves and renders portal pages on demand, exposes the editing
data API and the preview endpoints, and serves static assets.`,
		RunE: runServe,
	}

	cmd.Flags().String("server.addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}

	logger, err := buildLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	layoutSvc, err := buildLayoutService(cfg)
	if err != nil {
		return err
	}

	gqlClient, err := buildGraphQLClient(cfg)
	if err != nil {
		return err
	}
	dictionarySvc, err := buildDictionaryService(cfg, gqlClient)
	if err != nil {
		return err
	}
	routes := sitemap.NewGraphQLService(gqlClient, cfg.Site.Name)

	store, err := buildEditingStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close editing store", zap.Error(err))
		}
	}()

	sessions, err := buildSessionProvider(cfg, logger)
	if err != nil {
		return err
	}

	pageResolver, err := resolver.New(resolver.Options{
		Layout:        layoutSvc,
		Dictionary:    dictionarySvc,
		Editing:       store,
		Sessions:      sessions,
		Components:    buildRegistry(cfg, routes),
		DefaultLocale: cfg.Site.DefaultLocale,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	server, err := web.NewServer(web.Config{
		Addr:          cfg.Server.Addr,
		Resolver:      pageResolver,
		Renderer:      buildRenderFactory(cfg),
		Sessions:      sessions,
		Editing:       store,
		EditingSecret: cfg.Editing.Secret,
		Locales:       cfg.Site.Locales,
		StaticDir:     cfg.Server.StaticDir,
		CachePolicies: web.CachePolicies{
			Pages:  cfg.Server.CachePages,
			Static: cfg.Server.CacheStatic,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}
