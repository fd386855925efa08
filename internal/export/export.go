// Package export prerenders the portal. Every route the sitemap lists, in
// every configured locale, runs through the same page-props resolver the
// server uses; the result is written to disk as HTML with a props JSON
// sidecar for clients that hydrate from data instead of markup.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"devportal/internal/cms/sitemap"
	"devportal/internal/render"
	"devportal/internal/resolver"
)

const htmlFileName = "index.html"
const propsFileName = "props.json"

type Options struct {
	Sitemap  sitemap.Service
	Resolver *resolver.Resolver
	Renderer *render.Factory

	// OutDir is the export root; pages land at {OutDir}/{locale}{path}/.
	OutDir  string
	Locales []string

	// Workers bounds how many routes render concurrently.
	Workers int

	Logger *zap.Logger
}

type Exporter struct {
	sitemap  sitemap.Service
	resolver *resolver.Resolver
	renderer *render.Factory
	outDir   string
	locales  []string
	workers  int
	logger   *zap.Logger
}

// SkippedRoute records a page left out of the export and why.
type SkippedRoute struct {
	Path   string
	Locale string
	Reason string
}

// Summary is the outcome of one export run.
type Summary struct {
	Exported int
	Skipped  []SkippedRoute
}

func New(opts Options) (*Exporter, error) {
	if opts.Sitemap == nil {
		return nil, fmt.Errorf("exporter needs a sitemap service")
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf("exporter needs a resolver")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("exporter needs a render factory")
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("exporter needs an output directory")
	}
	if len(opts.Locales) == 0 {
		return nil, fmt.Errorf("exporter needs at least one locale")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Exporter{
		sitemap:  opts.Sitemap,
		resolver: opts.Resolver,
		renderer: opts.Renderer,
		outDir:   opts.OutDir,
		locales:  opts.Locales,
		workers:  workers,
		logger:   logger,
	}, nil
}

// Run exports every published route. Routes that resolve to not-found or
// unauthorized are skipped and reported; any other resolution failure aborts
// the whole run.
func (e *Exporter) Run(ctx context.Context) (*Summary, error) {
	entries, err := e.sitemap.Fetch(ctx, e.locales)
	if err != nil {
		return nil, fmt.Errorf("enumerate routes: %w", err)
	}

	e.logger.Info("exporting portal",
		zap.Int("routes", len(entries)),
		zap.Strings("locales", e.locales),
		zap.String("out", e.outDir))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)

	var mu sync.Mutex
	summary := &Summary{}

	for _, entry := range entries {
		eg.Go(func() error {
			skipReason, err := e.exportRoute(egctx, entry)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if skipReason != "" {
				summary.Skipped = append(summary.Skipped, SkippedRoute{
					Path:   entry.Path,
					Locale: entry.Locale,
					Reason: skipReason,
				})
				return nil
			}
			summary.Exported++

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(summary.Skipped, func(i, j int) bool {
		a, b := summary.Skipped[i], summary.Skipped[j]
		if a.Locale != b.Locale {
			return a.Locale < b.Locale
		}
		return a.Path < b.Path
	})

	return summary, nil
}

func (e *Exporter) exportRoute(ctx context.Context, entry sitemap.Entry) (skipReason string, err error) {
	rc := resolver.NewBuildContext(resolver.SegmentsFromPath(entry.Path), entry.Locale)

	props, err := e.resolver.Resolve(ctx, rc)
	if err != nil {
		return "", fmt.Errorf("resolve %s %s: %w", entry.Locale, entry.Path, err)
	}
	if props.NotFound {
		return "not found", nil
	}
	if props.Unauthorized {
		return "unauthorized", nil
	}

	dir := e.routeDir(entry)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	view := render.NewPageView(props, entry.Path)
	var page bytes.Buffer
	if err := render.Page(e.renderer, view).Render(ctx, &page); err != nil {
		return "", fmt.Errorf("render %s %s: %w", entry.Locale, entry.Path, err)
	}
	if err := os.WriteFile(filepath.Join(dir, htmlFileName), page.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write page %s: %w", entry.Path, err)
	}

	propsJSON, err := json.MarshalIndent(props, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode props %s: %w", entry.Path, err)
	}
	if err := os.WriteFile(filepath.Join(dir, propsFileName), propsJSON, 0o644); err != nil {
		return "", fmt.Errorf("write props %s: %w", entry.Path, err)
	}

	e.logger.Debug("exported page",
		zap.String("path", entry.Path),
		zap.String("locale", entry.Locale))

	return "", nil
}

// routeDir maps a route to its directory. Rooted cleaning keeps CMS paths
// from escaping the output tree.
func (e *Exporter) routeDir(entry sitemap.Entry) string {
	clean := path.Clean("/" + entry.Path)

	return filepath.Join(e.outDir, entry.Locale, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}
