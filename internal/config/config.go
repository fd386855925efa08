// Package config loads portal configuration from defaults, an optional YAML
// file, PORTAL_* environment variables, and command-line flags, in rising
// precedence.
package config

import (
	"fmt"
	"slices"
	"time"
)

const (
	// EnvDevelopment enables dev conveniences: verbose logging, visible
	// markers for unregistered components, an ephemeral session key.
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Layout service transport modes.
const (
	LayoutModeREST    = "rest"
	LayoutModeGraphQL = "graphql"
)

// Editing store backends.
const (
	EditingStoreMemory = "memory"
	EditingStoreSQLite = "sqlite"
)

type Config struct {
	Environment string        `koanf:"environment"`
	Site        SiteConfig    `koanf:"site"`
	CMS         CMSConfig     `koanf:"cms"`
	Server      ServerConfig  `koanf:"server"`
	Session     SessionConfig `koanf:"session"`
	Editing     EditingConfig `koanf:"editing"`
	Export      ExportConfig  `koanf:"export"`
}

type SiteConfig struct {
	// Name is the site identifier sent to the CMS on every fetch.
	Name          string   `koanf:"name"`
	Title         string   `koanf:"title"`
	RootURL       string   `koanf:"root_url"`
	DefaultLocale string   `koanf:"default_locale"`
	Locales       []string `koanf:"locales"`
}

type CMSConfig struct {
	LayoutMode      string        `koanf:"layout_mode"`
	LayoutEndpoint  string        `koanf:"layout_endpoint"`
	GraphQLEndpoint string        `koanf:"graphql_endpoint"`
	APIKey          string        `koanf:"api_key"`
	Timeout         time.Duration `koanf:"timeout"`
	DictionaryTTL   time.Duration `koanf:"dictionary_ttl"`
}

type ServerConfig struct {
	Addr        string `koanf:"addr"`
	StaticDir   string `koanf:"static_dir"`
	CachePages  string `koanf:"cache_pages"`
	CacheStatic string `koanf:"cache_static"`
}

type SessionConfig struct {
	CookieName string `koanf:"cookie_name"`
	// Keys are cookie signing keys, newest first. Empty means serve mints
	// an ephemeral key at startup.
	Keys []string `koanf:"keys"`
}

type EditingConfig struct {
	// Secret guards the editing data API. Empty keeps the API locked.
	Secret     string        `koanf:"secret"`
	Store      string        `koanf:"store"`
	SQLitePath string        `koanf:"sqlite_path"`
	TTL        time.Duration `koanf:"ttl"`
}

type ExportConfig struct {
	OutDir  string `koanf:"out"`
	Workers int    `koanf:"workers"`
}

func defaults() map[string]any {
	return map[string]any{
		"environment":         EnvDevelopment,
		"site.name":           "portal",
		"site.title":          "Developer Portal",
		"site.root_url":       "http://localhost:8080",
		"site.default_locale": "en",
		"site.locales":        []string{"en"},
		"cms.layout_mode":     LayoutModeREST,
		"cms.timeout":         "15s",
		"cms.dictionary_ttl":  "60s",
		"server.addr":         ":8080",
		"server.static_dir":   "static",
		"server.cache_pages":  "public, max-age=300, s-maxage=300",
		"server.cache_static": "public, max-age=86400, s-maxage=86400",
		"session.cookie_name": "portal_session",
		"editing.store":       EditingStoreMemory,
		"editing.sqlite_path": "editing.db",
		"editing.ttl":         "1h",
		"export.out":          "dist",
		"export.workers":      4,
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment != EnvProduction
}

// Validate checks the structural invariants shared by every command.
// Endpoint requirements depend on the command and are checked there.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("environment must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}

	switch c.CMS.LayoutMode {
	case LayoutModeREST, LayoutModeGraphQL:
	default:
		return fmt.Errorf("cms.layout_mode must be %q or %q, got %q", LayoutModeREST, LayoutModeGraphQL, c.CMS.LayoutMode)
	}

	switch c.Editing.Store {
	case EditingStoreMemory, EditingStoreSQLite:
	default:
		return fmt.Errorf("editing.store must be %q or %q, got %q", EditingStoreMemory, EditingStoreSQLite, c.Editing.Store)
	}

	if c.Site.DefaultLocale == "" {
		return fmt.Errorf("site.default_locale must not be empty")
	}
	if !slices.Contains(c.Site.Locales, c.Site.DefaultLocale) {
		c.Site.Locales = append([]string{c.Site.DefaultLocale}, c.Site.Locales...)
	}

	if c.Export.Workers < 1 {
		return fmt.Errorf("export.workers must be at least 1, got %d", c.Export.Workers)
	}

	return nil
}
