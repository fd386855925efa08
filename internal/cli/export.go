package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devportal/internal/cms/sitemap"
	"devportal/internal/export"
	"devportal/internal/resolver"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Prerender every published route to static files",
		Long: `Export enumerates the sitemap, resolves and renders each route in every
configured locale, and writes index.html plus a props.json sidecar per page.
Missing and protected routes are skipped and reported; any other failure
aborts the run.`,
		RunE: runExport,
	}

	cmd.Flags().String("export.out", "", "output directory (overrides config)")
	cmd.Flags().Int("export.workers", 0, "concurrent page renders (overrides config)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
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

	// Build-time resolutions have no visitor: no sessions, no editing data.
	pageResolver, err := resolver.New(resolver.Options{
		Layout:        layoutSvc,
		Dictionary:    dictionarySvc,
		Components:    buildRegistry(cfg, routes),
		DefaultLocale: cfg.Site.DefaultLocale,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	exporter, err := export.New(export.Options{
		Sitemap:  routes,
		Resolver: pageResolver,
		Renderer: buildRenderFactory(cfg),
		OutDir:   cfg.Export.OutDir,
		Locales:  cfg.Site.Locales,
		Workers:  cfg.Export.Workers,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := exporter.Run(ctx)
	if err != nil {
		return err
	}

	for _, skipped := range summary.Skipped {
		logger.Warn("route skipped",
			zap.String("path", skipped.Path),
			zap.String("locale", skipped.Locale),
			zap.String("reason", skipped.Reason))
	}
	logger.Info("export complete",
		zap.String("out", cfg.Export.OutDir),
		zap.Int("exported", summary.Exported),
		zap.Int("skipped", len(summary.Skipped)))

	return nil
}
