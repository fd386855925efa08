// Package render turns resolved page properties into HTML through a
// component factory: the CMS names components, the factory maps those names
// to templ components, and placeholders stitch the tree together.
package render

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"devportal/internal/cms"
	"devportal/internal/resolver"
)

// PageView is the view model every component receives: the resolved props
// plus the path being rendered.
type PageView struct {
	Props *resolver.PageProps
	Path  string
}

func NewPageView(props *resolver.PageProps, path string) PageView {
	return PageView{Props: props, Path: path}
}

// Route digs the route payload out of the layout context. It is nil for
// failed resolutions and when the context bag shadowed the route key with
// something else.
func (v PageView) Route() *cms.RouteData {
	if v.Props == nil || v.Props.LayoutContext == nil {
		return nil
	}
	route, _ := v.Props.LayoutContext["route"].(*cms.RouteData)

	return route
}

// Phrase looks up a dictionary phrase, falling back to the key so missing
// translations stay visible instead of blanking out.
func (v PageView) Phrase(key string) string {
	if v.Props != nil {
		if phrase, ok := v.Props.Dictionary[key]; ok {
			return phrase
		}
	}

	return key
}

// ComponentProps returns the props fetched for one rendering instance, nil
// when none were fetched.
func (v PageView) ComponentProps(uid string) any {
	if v.Props == nil {
		return nil
	}

	return v.Props.ComponentProps[uid]
}

func (v PageView) Locale() string {
	if v.Props == nil || v.Props.Locale == "" {
		return "en"
	}

	return v.Props.Locale
}

// ComponentFunc builds the templ component for one rendering instance. The
// factory is passed through so containers can render their nested
// placeholders.
type ComponentFunc func(f *Factory, view PageView, rendering *cms.ComponentRendering) templ.Component

// Options configures a Factory.
type Options struct {
	// RootURL is the portal origin used for link normalization in content
	// components.
	RootURL string

	// SiteTitle is the fallback document title.
	SiteTitle string

	// DevMode renders a visible marker for unknown component names instead
	// of dropping them silently.
	DevMode bool
}

// Factory maps CMS component names to renderers.
type Factory struct {
	opts       Options
	components map[string]ComponentFunc
}

// NewFactory builds a factory preloaded with the built-in component set.
func NewFactory(opts Options) *Factory {
	f := &Factory{opts: opts, components: map[string]ComponentFunc{}}
	registerBuiltins(f)

	return f
}

func (f *Factory) Register(name string, component ComponentFunc) {
	f.components[name] = component
}

func (f *Factory) RootURL() string { return f.opts.RootURL }
func (f *Factory) DevMode() bool   { return f.opts.DevMode }

// Component resolves one rendering instance. Unknown names render a marker
// in dev mode and nothing in production.
func (f *Factory) Component(view PageView, rendering *cms.ComponentRendering) templ.Component {
	if component, ok := f.components[rendering.ComponentName]; ok {
		return component(f, view, rendering)
	}
	if f.opts.DevMode {
		return missingComponent(rendering.ComponentName)
	}

	return templ.NopComponent
}

// Placeholder renders every component placed in the named placeholder of a
// rendering's subtree.
func (f *Factory) Placeholder(view PageView, placeholders map[string][]cms.ComponentRendering, name string) templ.Component {
	renderings := placeholders[name]
	children := make([]templ.Component, 0, len(renderings))
	for i := range renderings {
		children = append(children, f.Component(view, &renderings[i]))
	}

	return sequence(children)
}

// RoutePlaceholder renders a top-level route placeholder.
func (f *Factory) RoutePlaceholder(view PageView, name string) templ.Component {
	route := view.Route()
	if route == nil {
		return templ.NopComponent
	}

	return f.Placeholder(view, route.Placeholders, name)
}

func sequence(components []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, component := range components {
			if err := component.Render(ctx, w); err != nil {
				return err
			}
		}

		return nil
	})
}

func missingComponent(name string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<div class="missing-component" data-component="`+templ.EscapeString(name)+`">`+
				templ.EscapeString(name)+` is not registered</div>`)

		return err
	})
}
