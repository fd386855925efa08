// Package sitemap enumerates the routes a site publishes, per locale. The
// static exporter walks this list to know which pages to prerender.
package sitemap

import (
	"context"
	"fmt"
	"strings"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

// Entry is one exportable page.
type Entry struct {
	Path   string
	Locale string
}

type Service interface {
	Fetch(ctx context.Context, locales []string) ([]Entry, error)
}

const sitemapPageSize = 100

const sitemapQuery = `
query PortalSitemap($site: String!, $language: String!, $first: Int!, $after: String) {
  sitemap(site: $site, language: $language, first: $first, after: $after) {
    results {
      path
    }
    pageInfo {
      endCursor
      hasNext
    }
  }
}`

type sitemapQueryVariables struct {
	Site     string `json:"site"`
	Language string `json:"language"`
	First    int    `json:"first"`
	After    string `json:"after,omitempty"`
}

type sitemapQueryResponse struct {
	Sitemap struct {
		Results []struct {
			Path string `json:"path"`
		} `json:"results"`
		PageInfo struct {
			EndCursor string `json:"endCursor"`
			HasNext   bool   `json:"hasNext"`
		} `json:"pageInfo"`
	} `json:"sitemap"`
}

type GraphQLService struct {
	client genqlientgraphql.Client
	site   string
}

func NewGraphQLService(client genqlientgraphql.Client, site string) *GraphQLService {
	return &GraphQLService{client: client, site: site}
}

// Fetch lists every route for every requested locale. Paths are normalized
// to a leading slash and deduplicated within a locale.
func (s *GraphQLService) Fetch(ctx context.Context, locales []string) ([]Entry, error) {
	var entries []Entry
	for _, locale := range locales {
		localeEntries, err := s.fetchLocale(ctx, locale)
		if err != nil {
			return nil, err
		}
		entries = append(entries, localeEntries...)
	}

	return entries, nil
}

func (s *GraphQLService) fetchLocale(ctx context.Context, locale string) ([]Entry, error) {
	var entries []Entry
	seen := map[string]struct{}{}

	after := ""
	for {
		request := &genqlientgraphql.Request{
			OpName: "PortalSitemap",
			Query:  sitemapQuery,
			Variables: sitemapQueryVariables{
				Site:     s.site,
				Language: locale,
				First:    sitemapPageSize,
				After:    after,
			},
		}

		var data sitemapQueryResponse
		if err := s.client.MakeRequest(ctx, request, &genqlientgraphql.Response{Data: &data}); err != nil {
			return nil, fmt.Errorf("sitemap fetch %q: %w", locale, err)
		}

		for _, result := range data.Sitemap.Results {
			path := normalizePath(result.Path)
			if path == "" {
				continue
			}
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			entries = append(entries, Entry{Path: path, Locale: locale})
		}

		info := data.Sitemap.PageInfo
		if !info.HasNext || info.EndCursor == "" {
			return entries, nil
		}
		after = info.EndCursor
	}
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	return path
}
