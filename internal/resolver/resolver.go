// Package resolver turns one render context into the full set of page
// properties the rendering layer consumes: locale, dictionary phrases, the
// layout context payload, per-component props, and the not-found and
// unauthorized flags.
package resolver

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"devportal/internal/cms"
	"devportal/internal/cms/dictionary"
	"devportal/internal/cms/layout"
	"devportal/internal/componentprops"
	"devportal/internal/editing"
	"devportal/internal/session"
)

// PageProps is the result of one resolution.
//
// At most one of NotFound and Unauthorized is set. LayoutContext is nil
// exactly when one of them is set; a successful resolution always carries a
// payload.
type PageProps struct {
	Locale         string             `json:"locale"`
	Dictionary     dictionary.Phrases `json:"dictionary"`
	LayoutContext  map[string]any     `json:"layoutContext"`
	ComponentProps map[string]any     `json:"componentProps"`
	NotFound       bool               `json:"notFound"`
	Unauthorized   bool               `json:"unauthorized"`
}

// EditingReader is the slice of the editing store the resolver needs.
type EditingReader interface {
	Get(ctx context.Context, key string) (*editing.Data, error)
}

// SessionResolver looks up the visitor's session, nil when there is none.
type SessionResolver interface {
	Resolve(r *http.Request) *session.Session
}

// Options wires a Resolver. Layout, Dictionary, and DefaultLocale are
// required; the rest degrade gracefully when absent.
type Options struct {
	Layout        layout.Service
	Dictionary    dictionary.Service
	Editing       EditingReader
	Sessions      SessionResolver
	Components    *componentprops.Registry
	DefaultLocale string
	Logger        *zap.Logger
}

type Resolver struct {
	layout        layout.Service
	dictionary    dictionary.Service
	editing       EditingReader
	sessions      SessionResolver
	components    *componentprops.Registry
	defaultLocale string
	logger        *zap.Logger
}

func New(opts Options) (*Resolver, error) {
	if opts.Layout == nil {
		return nil, fmt.Errorf("resolver needs a layout service")
	}
	if opts.Dictionary == nil {
		return nil, fmt.Errorf("resolver needs a dictionary service")
	}
	if opts.DefaultLocale == "" {
		return nil, fmt.Errorf("resolver needs a default locale")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		layout:        opts.Layout,
		dictionary:    opts.Dictionary,
		editing:       opts.Editing,
		sessions:      opts.Sessions,
		components:    opts.Components,
		defaultLocale: opts.DefaultLocale,
		logger:        logger,
	}, nil
}

// Resolve runs the full resolution sequence for one render context.
//
// Layout fetch failures carrying a 404 or 401 status are folded into the
// NotFound and Unauthorized flags; every other failure, including component
// prop fetchers and missing editing data, aborts the resolution.
func (r *Resolver) Resolve(ctx context.Context, rc RenderContext) (*PageProps, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	var sess *session.Session
	if rc.Kind == KindRequest && r.sessions != nil {
		sess = r.sessions.Resolve(rc.Request)
	}

	var (
		locale     string
		phrases    dictionary.Phrases
		layoutData *cms.LayoutData
		props      = &PageProps{}
	)

	if rc.InPreview() {
		data, err := r.resolveEditingData(ctx, rc.PreviewKey)
		if err != nil {
			return nil, err
		}
		locale = data.locale
		phrases = data.phrases
		layoutData = data.layout
	} else {
		path := rc.Path()
		locale = rc.ResolveLocale(r.defaultLocale)

		var err error
		layoutData, err = r.fetchLayout(ctx, rc, sess, path, locale, props)
		if err != nil {
			return nil, err
		}
		if layoutData != nil && layoutData.Route == nil {
			props.NotFound = true
			layoutData = nil
		}

		// The dictionary is fetched even for pages that turned out missing
		// or protected: the error views still need their phrases.
		phrases, err = r.dictionary.Fetch(ctx, locale)
		if err != nil {
			return nil, err
		}
	}

	if layoutData != nil && layoutData.Route != nil {
		props.LayoutContext = buildContextPayload(layoutData)

		componentProps, err := r.fetchComponentProps(ctx, rc, layoutData)
		if err != nil {
			return nil, err
		}
		props.ComponentProps = componentProps
	}

	props.Locale = locale
	props.Dictionary = phrases

	return props, nil
}

type editingResolution struct {
	locale  string
	phrases dictionary.Phrases
	layout  *cms.LayoutData
}

// resolveEditingData adopts a pushed editing snapshot wholesale. There is no
// fallback: a draft page without its snapshot cannot be rendered.
func (r *Resolver) resolveEditingData(ctx context.Context, key string) (*editingResolution, error) {
	if r.editing == nil {
		return nil, fmt.Errorf("preview requested but no editing store is configured")
	}

	data, err := r.editing.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("editing data %q: %w", key, err)
	}

	layoutData, err := cms.ParseLayoutData(data.Layout)
	if err != nil {
		return nil, fmt.Errorf("editing data %q: %w", key, err)
	}
	if layoutData.Route == nil {
		return nil, fmt.Errorf("editing data %q has no route payload", key)
	}

	phrases := make(dictionary.Phrases, len(data.Dictionary))
	for k, v := range data.Dictionary {
		phrases[k] = v
	}

	return &editingResolution{locale: data.Locale, phrases: phrases, layout: layoutData}, nil
}

func (r *Resolver) fetchLayout(ctx context.Context, rc RenderContext, sess *session.Session, path, locale string, props *PageProps) (*cms.LayoutData, error) {
	opts := layout.FetchOptions{
		Request:  rc.Request,
		Response: rc.Response,
	}
	if sess != nil {
		opts.Authorization = sess.Authorization
	}

	layoutData, err := r.layout.Fetch(ctx, path, locale, opts)
	if err == nil {
		return layoutData, nil
	}

	r.logger.Error("layout fetch failed",
		zap.String("path", path),
		zap.String("locale", locale),
		zap.Error(err))

	switch {
	case cms.IsStatus(err, http.StatusNotFound):
		props.NotFound = true
		return nil, nil
	case cms.IsStatus(err, http.StatusUnauthorized):
		props.Unauthorized = true
		return nil, nil
	default:
		return nil, err
	}
}

// buildContextPayload merges the route payload, its item id, and the
// auxiliary context bag. The bag is applied last and may shadow the route
// and itemId keys if the CMS chose to emit them; that shadowing is part of
// the payload contract.
func buildContextPayload(data *cms.LayoutData) map[string]any {
	payload := map[string]any{
		"route":  data.Route,
		"itemId": data.Route.ItemID,
	}
	for key, value := range data.Context {
		payload[key] = value
	}

	return payload
}

func (r *Resolver) fetchComponentProps(ctx context.Context, rc RenderContext, data *cms.LayoutData) (map[string]any, error) {
	if r.components == nil {
		return map[string]any{}, nil
	}

	switch rc.Kind {
	case KindRequest:
		return componentprops.FetchRequestProps(ctx, data, rc.Request, r.components)
	default:
		return componentprops.FetchStaticProps(ctx, data, r.components)
	}
}
