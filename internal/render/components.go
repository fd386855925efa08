package render

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"devportal/internal/cms"
	"devportal/internal/componentprops"
	"devportal/internal/richtext"
)

func registerBuiltins(f *Factory) {
	f.Register("RichText", richTextComponent)
	f.Register("Markdown", markdownComponent)
	f.Register("PageTitle", pageTitleComponent)
	f.Register("Container", containerComponent)
	f.Register("Navigation", navigationComponent)
	f.Register("Search", searchComponent)
}

// richTextComponent renders an editor-authored HTML field with normalized
// links.
func richTextComponent(f *Factory, _ PageView, rendering *cms.ComponentRendering) templ.Component {
	content := cms.TextField(rendering.Fields, "content")
	rendered := richtext.Render(content, richtext.Options{RootURL: f.RootURL()})

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="rich-text">`); err != nil {
			return err
		}
		if err := templ.Raw(string(rendered)).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)

		return err
	})
}

// markdownComponent renders a markdown documentation field with chroma
// highlighting.
func markdownComponent(f *Factory, _ PageView, rendering *cms.ComponentRendering) templ.Component {
	source := cms.TextField(rendering.Fields, "source")
	if source == "" {
		source = cms.TextField(rendering.Fields, "content")
	}
	rendered := richtext.MarkdownToHTML(source, richtext.Options{RootURL: f.RootURL()})

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<article class="markdown-body">`); err != nil {
			return err
		}
		if err := templ.Raw(string(rendered)).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</article>`)

		return err
	})
}

func pageTitleComponent(_ *Factory, view PageView, rendering *cms.ComponentRendering) templ.Component {
	title := cms.TextField(rendering.Fields, "text")
	if title == "" {
		title = view.Route().PageTitle()
	}

	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1 class="page-title">`+templ.EscapeString(title)+`</h1>`)

		return err
	})
}

// containerComponent wraps its own placeholder so editors can nest layouts.
// The placeholder name defaults to "container" and can be overridden with a
// rendering parameter.
func containerComponent(f *Factory, view PageView, rendering *cms.ComponentRendering) templ.Component {
	placeholderName := rendering.Params["placeholder"]
	if placeholderName == "" {
		placeholderName = "container"
	}
	class := rendering.Params["class"]
	if class == "" {
		class = "container"
	}
	inner := f.Placeholder(view, rendering.Placeholders, placeholderName)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="`+templ.EscapeString(class)+`">`); err != nil {
			return err
		}
		if err := inner.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)

		return err
	})
}

type navigationEntry struct {
	phraseKey string
	href      string
}

// fallbackNavigation covers deployments with no sitemap-fed links: the
// well-known portal sections, labeled from the dictionary.
var fallbackNavigation = []navigationEntry{
	{phraseKey: "navigation.documentation", href: "/docs"},
	{phraseKey: "navigation.styleguide", href: "/styleguide"},
	{phraseKey: "navigation.graphql", href: "/graphql"},
}

// navigationComponent renders the home link plus the section links fetched
// for this rendering, falling back to the static section list.
func navigationComponent(_ *Factory, view PageView, rendering *cms.ComponentRendering) templ.Component {
	fetched, _ := view.ComponentProps(rendering.UID).([]componentprops.NavLink)

	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav class="site-nav"><ul>`); err != nil {
			return err
		}
		if err := writeNavLink(w, "/", view.Phrase("navigation.home")); err != nil {
			return err
		}
		if len(fetched) > 0 {
			for _, link := range fetched {
				if err := writeNavLink(w, link.Href, link.Label); err != nil {
					return err
				}
			}
		} else {
			for _, entry := range fallbackNavigation {
				if err := writeNavLink(w, entry.href, view.Phrase(entry.phraseKey)); err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(w, `</ul></nav>`)

		return err
	})
}

func writeNavLink(w io.Writer, href, label string) error {
	_, err := io.WriteString(w,
		`<li><a href="`+templ.EscapeString(href)+`">`+templ.EscapeString(label)+`</a></li>`)

	return err
}

func searchComponent(_ *Factory, view PageView, _ *cms.ComponentRendering) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<form class="site-search" action="/search" method="get">`+
				`<input type="search" name="q" placeholder="`+templ.EscapeString(view.Phrase("search.placeholder"))+`">`+
				`</form>`)

		return err
	})
}
