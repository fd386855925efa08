// Package componentprops runs the per-component data fetchers a page needs
// before it can render. Components register a fetcher by component name; the
// walk visits every rendering in the layout tree and collects results keyed
// by the rendering's instance UID.
package componentprops

import (
	"context"
	"fmt"
	"net/http"

	"devportal/internal/cms"
)

// RequestFetcher loads props during live request handling. It may read the
// incoming request for cookies, query parameters, or headers.
type RequestFetcher func(ctx context.Context, rendering *cms.ComponentRendering, data *cms.LayoutData, r *http.Request) (any, error)

// StaticFetcher loads props during prerendering, where no request exists.
type StaticFetcher func(ctx context.Context, rendering *cms.ComponentRendering, data *cms.LayoutData) (any, error)

// Entry binds a component name to its fetchers. A component may implement
// either path or both; a nil fetcher means the component is skipped on that
// path.
type Entry struct {
	Request RequestFetcher
	Static  StaticFetcher
}

// Registry maps component names to prop fetchers.
type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]Entry{}}
}

func (r *Registry) Register(componentName string, entry Entry) {
	r.entries[componentName] = entry
}

// Names lists the registered component names, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	return names
}

// FetchRequestProps walks the layout tree and runs every registered request
// fetcher. The first fetcher error aborts the walk.
func FetchRequestProps(ctx context.Context, data *cms.LayoutData, req *http.Request, registry *Registry) (map[string]any, error) {
	return fetch(data, registry, func(entry Entry, rendering *cms.ComponentRendering) (any, bool, error) {
		if entry.Request == nil {
			return nil, false, nil
		}
		props, err := entry.Request(ctx, rendering, data, req)

		return props, true, err
	})
}

// FetchStaticProps walks the layout tree and runs every registered static
// fetcher. Components with only a request fetcher are skipped.
func FetchStaticProps(ctx context.Context, data *cms.LayoutData, registry *Registry) (map[string]any, error) {
	return fetch(data, registry, func(entry Entry, rendering *cms.ComponentRendering) (any, bool, error) {
		if entry.Static == nil {
			return nil, false, nil
		}
		props, err := entry.Static(ctx, rendering, data)

		return props, true, err
	})
}

func fetch(data *cms.LayoutData, registry *Registry, run func(Entry, *cms.ComponentRendering) (any, bool, error)) (map[string]any, error) {
	props := map[string]any{}
	if data == nil || data.Route == nil || registry == nil {
		return props, nil
	}

	err := walk(data.Route.Placeholders, func(rendering *cms.ComponentRendering) error {
		entry, ok := registry.entries[rendering.ComponentName]
		if !ok {
			return nil
		}

		fetched, ran, err := run(entry, rendering)
		if err != nil {
			return fmt.Errorf("fetch props for %s (%s): %w", rendering.ComponentName, rendering.UID, err)
		}
		if ran {
			props[renderingKey(rendering)] = fetched
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return props, nil
}

// walk visits every rendering in placeholder order, depth first.
func walk(placeholders map[string][]cms.ComponentRendering, visit func(*cms.ComponentRendering) error) error {
	for _, renderings := range placeholders {
		for i := range renderings {
			rendering := &renderings[i]
			if err := visit(rendering); err != nil {
				return err
			}
			if err := walk(rendering.Placeholders, visit); err != nil {
				return err
			}
		}
	}

	return nil
}

func renderingKey(rendering *cms.ComponentRendering) string {
	if rendering.UID != "" {
		return rendering.UID
	}

	return rendering.ComponentName
}
