// Package layout fetches route layout data from the headless CMS. Two
// transports exist: the REST layout endpoint and the GraphQL layout query.
// Both normalize upstream failures into cms.StatusError so the caller can
// tell a missing page (404) or a protected one (401) from a real outage.
package layout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	genqlientgraphql "github.com/Khan/genqlient/graphql"

	"devportal/internal/cms"
	"devportal/internal/cms/gqlclient"
)

// FetchOptions is the request-scoped configuration for a single fetch. It
// replaces any notion of reconfiguring a shared client: concurrent
// resolutions never observe each other's credentials.
type FetchOptions struct {
	// Authorization is a caller bearer token for protected content.
	Authorization string

	// Request and Response are the render-time HTTP handles. When set,
	// selected request headers are forwarded upstream and upstream
	// Set-Cookie headers are relayed back. Build-time fetches leave both
	// nil.
	Request  *http.Request
	Response http.ResponseWriter
}

type Service interface {
	Fetch(ctx context.Context, path string, locale string, opts FetchOptions) (*cms.LayoutData, error)
}

// forwardedRequestHeaders are the client headers the upstream CMS uses for
// personalization and analytics.
var forwardedRequestHeaders = []string{"Cookie", "User-Agent", "Referer", "X-Forwarded-For", "X-Forwarded-Proto"}

type Config struct {
	Endpoint string
	SiteName string
	APIKey   string
	Timeout  time.Duration
}

// RESTService calls the layout render endpoint:
// GET {endpoint}?item={path}&language={locale}&site={site}.
type RESTService struct {
	cfg    Config
	client *http.Client
}

func NewRESTService(cfg Config) *RESTService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &RESTService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *RESTService) Fetch(ctx context.Context, path string, locale string, opts FetchOptions) (*cms.LayoutData, error) {
	endpoint, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse layout endpoint: %w", err)
	}

	query := endpoint.Query()
	query.Set("item", path)
	query.Set("language", locale)
	if site := strings.TrimSpace(s.cfg.SiteName); site != "" {
		query.Set("site", site)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build layout request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", s.cfg.APIKey)
	}
	if opts.Authorization != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Authorization)
	}
	forwardRequestHeaders(req, opts.Request)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("layout fetch %q: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	relayResponseCookies(opts.Response, resp)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &cms.StatusError{Code: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read layout response: %w", err)
	}

	return cms.ParseLayoutData(payload)
}

func forwardRequestHeaders(upstream *http.Request, incoming *http.Request) {
	if incoming == nil {
		return
	}

	for _, name := range forwardedRequestHeaders {
		for _, value := range incoming.Header.Values(name) {
			upstream.Header.Add(name, value)
		}
	}
}

func relayResponseCookies(w http.ResponseWriter, resp *http.Response) {
	if w == nil || resp == nil {
		return
	}

	for _, value := range resp.Header.Values("Set-Cookie") {
		w.Header().Add("Set-Cookie", value)
	}
}

const layoutQuery = `
query PortalLayout($site: String!, $routePath: String!, $language: String!) {
  layout(site: $site, routePath: $routePath, language: $language) {
    item {
      rendered
    }
  }
}`

type layoutQueryVariables struct {
	Site      string `json:"site"`
	RoutePath string `json:"routePath"`
	Language  string `json:"language"`
}

type layoutQueryResponse struct {
	Layout *struct {
		Item *struct {
			Rendered json.RawMessage `json:"rendered"`
		} `json:"item"`
	} `json:"layout"`
}

// GraphQLService resolves layout data through the CMS GraphQL endpoint. A
// path with no content comes back as a null item, which maps onto a
// route-less LayoutData rather than an error.
type GraphQLService struct {
	cfg       Config
	anonymous genqlientgraphql.Client
}

func NewGraphQLService(cfg Config) *GraphQLService {
	return &GraphQLService{
		cfg: cfg,
		anonymous: gqlclient.New(gqlclient.Options{
			Endpoint: cfg.Endpoint,
			APIKey:   cfg.APIKey,
			Timeout:  cfg.Timeout,
		}),
	}
}

func (s *GraphQLService) Fetch(ctx context.Context, path string, locale string, opts FetchOptions) (*cms.LayoutData, error) {
	request := &genqlientgraphql.Request{
		OpName: "PortalLayout",
		Query:  layoutQuery,
		Variables: layoutQueryVariables{
			Site:      s.cfg.SiteName,
			RoutePath: path,
			Language:  locale,
		},
	}

	var data layoutQueryResponse
	response := &genqlientgraphql.Response{Data: &data}
	if err := s.clientFor(opts).MakeRequest(ctx, request, response); err != nil {
		return nil, normalizeGraphQLError(path, err)
	}

	if data.Layout == nil || data.Layout.Item == nil || len(data.Layout.Item.Rendered) == 0 {
		return &cms.LayoutData{}, nil
	}

	return cms.ParseLayoutData(data.Layout.Item.Rendered)
}

func (s *GraphQLService) clientFor(opts FetchOptions) genqlientgraphql.Client {
	if opts.Authorization == "" {
		return s.anonymous
	}

	return gqlclient.New(gqlclient.Options{
		Endpoint:      s.cfg.Endpoint,
		APIKey:        s.cfg.APIKey,
		Timeout:       s.cfg.Timeout,
		Authorization: opts.Authorization,
	})
}

func normalizeGraphQLError(path string, err error) error {
	var httpErr *genqlientgraphql.HTTPError
	if errors.As(err, &httpErr) {
		return &cms.StatusError{Code: httpErr.StatusCode}
	}

	return fmt.Errorf("layout fetch %q: %w", path, err)
}
