package componentprops

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"devportal/internal/cms"
	"devportal/internal/cms/sitemap"
)

// NavLink is one entry of the site navigation. The Navigation fetcher builds
// these from the sitemap at resolve time, so menus follow published content
// without a redeploy.
type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Navigation is the registry entry for the Navigation component. Both fetch
// paths share the implementation: the menu lists the site's top-level
// sections in the route's language.
func Navigation(routes sitemap.Service, defaultLocale string) Entry {
	fetch := func(ctx context.Context, data *cms.LayoutData) (any, error) {
		locale := defaultLocale
		if data != nil && data.Route != nil && data.Route.ItemLanguage != "" {
			locale = data.Route.ItemLanguage
		}

		entries, err := routes.Fetch(ctx, []string{locale})
		if err != nil {
			return nil, err
		}

		return topLevelLinks(entries), nil
	}

	return Entry{
		Request: func(ctx context.Context, _ *cms.ComponentRendering, data *cms.LayoutData, _ *http.Request) (any, error) {
			return fetch(ctx, data)
		},
		Static: func(ctx context.Context, _ *cms.ComponentRendering, data *cms.LayoutData) (any, error) {
			return fetch(ctx, data)
		},
	}
}

// topLevelLinks keeps the single-segment section roots, labeled from their
// path segment. The home route is left out; the menu chrome owns it.
func topLevelLinks(entries []sitemap.Entry) []NavLink {
	links := make([]NavLink, 0, len(entries))
	for _, entry := range entries {
		segment := strings.Trim(entry.Path, "/")
		if segment == "" || strings.Contains(segment, "/") {
			continue
		}
		links = append(links, NavLink{Label: labelFromSegment(segment), Href: "/" + segment})
	}

	sort.Slice(links, func(i, j int) bool { return links[i].Href < links[j].Href })

	return links
}

func labelFromSegment(segment string) string {
	label := strings.ReplaceAll(segment, "-", " ")
	if label == "" {
		return label
	}

	return strings.ToUpper(label[:1]) + label[1:]
}
