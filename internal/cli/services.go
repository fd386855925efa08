package cli

import (
	"crypto/rand"
	"fmt"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"go.uber.org/zap"

	"devportal/internal/cms/dictionary"
	"devportal/internal/cms/gqlclient"
	"devportal/internal/cms/layout"
	"devportal/internal/cms/sitemap"
	"devportal/internal/componentprops"
	"devportal/internal/config"
	"devportal/internal/editing"
	"devportal/internal/render"
	"devportal/internal/session"
)

// buildLayoutService picks the layout transport from cms.layout_mode.
func buildLayoutService(cfg *config.Config) (layout.Service, error) {
	layoutCfg := layout.Config{
		SiteName: cfg.Site.Name,
		APIKey:   cfg.CMS.APIKey,
		Timeout:  cfg.CMS.Timeout,
	}

	switch cfg.CMS.LayoutMode {
	case config.LayoutModeGraphQL:
		if cfg.CMS.GraphQLEndpoint == "" {
			return nil, fmt.Errorf("cms.graphql_endpoint is required for graphql layout mode")
		}
		layoutCfg.Endpoint = cfg.CMS.GraphQLEndpoint

		return layout.NewGraphQLService(layoutCfg), nil
	default:
		if cfg.CMS.LayoutEndpoint == "" {
			return nil, fmt.Errorf("cms.layout_endpoint is required for rest layout mode")
		}
		layoutCfg.Endpoint = cfg.CMS.LayoutEndpoint

		return layout.NewRESTService(layoutCfg), nil
	}
}

// buildGraphQLClient builds the shared CMS GraphQL client used by the
// dictionary and sitemap services.
func buildGraphQLClient(cfg *config.Config) (genqlientgraphql.Client, error) {
	if cfg.CMS.GraphQLEndpoint == "" {
		return nil, fmt.Errorf("cms.graphql_endpoint is required")
	}

	return gqlclient.New(gqlclient.Options{
		Endpoint: cfg.CMS.GraphQLEndpoint,
		APIKey:   cfg.CMS.APIKey,
		Timeout:  cfg.CMS.Timeout,
	}), nil
}

func buildDictionaryService(cfg *config.Config, client genqlientgraphql.Client) (dictionary.Service, error) {
	fallback, err := dictionary.NewFallbackBundle(cfg.Site.DefaultLocale)
	if err != nil {
		return nil, err
	}

	svc := dictionary.NewGraphQLService(client, cfg.Site.Name, fallback)

	return dictionary.NewCachedService(svc, cfg.CMS.DictionaryTTL), nil
}

func buildEditingStore(cfg *config.Config) (editing.Store, error) {
	switch cfg.Editing.Store {
	case config.EditingStoreSQLite:
		return editing.NewSQLiteStore(cfg.Editing.SQLitePath, cfg.Editing.TTL)
	default:
		return editing.NewMemoryStore(cfg.Editing.TTL), nil
	}
}

// buildSessionProvider builds the cookie session provider. Without configured
// keys it mints an ephemeral one, good enough for development but resetting
// every session on restart.
func buildSessionProvider(cfg *config.Config, logger *zap.Logger) (*session.Provider, error) {
	keys := make([][]byte, 0, len(cfg.Session.Keys))
	for _, key := range cfg.Session.Keys {
		keys = append(keys, []byte(key))
	}

	if len(keys) == 0 {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("mint session key: %w", err)
		}
		logger.Warn("session.keys is empty, minted an ephemeral signing key; sessions will not survive a restart")
		keys = append(keys, key)
	}

	return session.NewProvider(cfg.Session.CookieName, keys...)
}

// buildRegistry assembles the component prop fetchers. The navigation
// component needs the sitemap, so it only registers when one is available.
func buildRegistry(cfg *config.Config, routes sitemap.Service) *componentprops.Registry {
	registry := componentprops.NewRegistry()
	if routes != nil {
		registry.Register("Navigation", componentprops.Navigation(routes, cfg.Site.DefaultLocale))
	}

	return registry
}

func buildRenderFactory(cfg *config.Config) *render.Factory {
	return render.NewFactory(render.Options{
		RootURL:   cfg.Site.RootURL,
		SiteTitle: cfg.Site.Title,
		DevMode:   cfg.IsDevelopment(),
	})
}
