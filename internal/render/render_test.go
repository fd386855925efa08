package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"devportal/internal/cms"
	"devportal/internal/cms/dictionary"
	"devportal/internal/componentprops"
	"devportal/internal/resolver"
)

func renderToString(t *testing.T, component templ.Component) string {
	t.Helper()
	var buffer bytes.Buffer
	if err := component.Render(context.Background(), &buffer); err != nil {
		t.Fatalf("render: %v", err)
	}

	return buffer.String()
}

func textFieldJSON(value string) json.RawMessage {
	encoded, _ := json.Marshal(map[string]string{"value": value})

	return json.RawMessage(encoded)
}

func testView() PageView {
	route := &cms.RouteData{
		Name:   "styleguide",
		ItemID: "item-1",
		Fields: map[string]json.RawMessage{
			"pageTitle": textFieldJSON("Styleguide"),
		},
		Placeholders: map[string][]cms.ComponentRendering{
			"header": {
				{UID: "nav", ComponentName: "Navigation"},
			},
			"main": {
				{
					UID:           "rt",
					ComponentName: "RichText",
					Fields: map[string]json.RawMessage{
						"content": textFieldJSON(`<p>See <a href="https://developers.example.com/docs">docs</a></p>`),
					},
				},
			},
		},
	}

	props := &resolver.PageProps{
		Locale: "en",
		Dictionary: dictionary.Phrases{
			"navigation.home":      "Home",
			"error.notfound.title": "Page not found",
			"error.notfound.body":  "Nothing lives here.",
			"search.placeholder":   "Search the docs",
			"footer.copyright":     "All rights reserved.",
		},
		LayoutContext: map[string]any{"route": route, "itemId": route.ItemID},
	}

	return NewPageView(props, "/styleguide")
}

func newTestFactory() *Factory {
	return NewFactory(Options{
		RootURL:   "https://developers.example.com",
		SiteTitle: "Developer Portal",
	})
}

func TestPageRendersPlaceholders(t *testing.T) {
	got := renderToString(t, Page(newTestFactory(), testView()))

	if !strings.Contains(got, "<title>Styleguide</title>") {
		t.Fatalf("expected route title in document, got %s", got)
	}
	if !strings.Contains(got, `lang="en"`) {
		t.Fatalf("expected locale on html element, got %s", got)
	}
	if !strings.Contains(got, `<nav class="site-nav">`) {
		t.Fatalf("expected navigation in header placeholder, got %s", got)
	}
	if !strings.Contains(got, ">Home</a>") {
		t.Fatalf("expected dictionary phrase in navigation, got %s", got)
	}
	if !strings.Contains(got, `<div class="rich-text">`) {
		t.Fatalf("expected rich text component in main placeholder, got %s", got)
	}
	if !strings.Contains(got, `href="/docs"`) {
		t.Fatalf("expected same-origin link relativized, got %s", got)
	}
	if !strings.Contains(got, "All rights reserved.") {
		t.Fatalf("expected footer phrase, got %s", got)
	}
}

func TestPageFallsBackToSiteTitle(t *testing.T) {
	view := testView()
	view.Route().Fields = nil
	view.Route().Name = ""

	got := renderToString(t, Page(newTestFactory(), view))
	if !strings.Contains(got, "<title>Developer Portal</title>") {
		t.Fatalf("expected site title fallback, got %s", got)
	}
}

func TestFactoryUnknownComponent(t *testing.T) {
	rendering := &cms.ComponentRendering{UID: "x", ComponentName: "Nope"}

	dev := NewFactory(Options{DevMode: true})
	if got := renderToString(t, dev.Component(testView(), rendering)); !strings.Contains(got, "Nope is not registered") {
		t.Fatalf("expected dev marker, got %q", got)
	}

	prod := NewFactory(Options{})
	if got := renderToString(t, prod.Component(testView(), rendering)); got != "" {
		t.Fatalf("expected silent drop in production, got %q", got)
	}
}

func TestContainerRendersNestedPlaceholder(t *testing.T) {
	rendering := &cms.ComponentRendering{
		UID:           "c",
		ComponentName: "Container",
		Params:        map[string]string{"class": "two-col"},
		Placeholders: map[string][]cms.ComponentRendering{
			"container": {
				{UID: "t", ComponentName: "PageTitle", Fields: map[string]json.RawMessage{
					"text": textFieldJSON("Nested"),
				}},
			},
		},
	}

	got := renderToString(t, newTestFactory().Component(testView(), rendering))
	if !strings.Contains(got, `<div class="two-col">`) {
		t.Fatalf("expected container class, got %s", got)
	}
	if !strings.Contains(got, `<h1 class="page-title">Nested</h1>`) {
		t.Fatalf("expected nested title, got %s", got)
	}
}

func TestNavigationUsesFetchedLinks(t *testing.T) {
	view := testView()
	view.Props.ComponentProps = map[string]any{
		"nav": []componentprops.NavLink{{Label: "API Reference", Href: "/api-reference"}},
	}

	got := renderToString(t, Page(newTestFactory(), view))
	if !strings.Contains(got, `<a href="/api-reference">API Reference</a>`) {
		t.Fatalf("expected fetched link, got %s", got)
	}
	if !strings.Contains(got, `<a href="/">Home</a>`) {
		t.Fatalf("expected home link ahead of fetched links, got %s", got)
	}
	if strings.Contains(got, "/styleguide") {
		t.Fatalf("fallback entries rendered alongside fetched links: %s", got)
	}
}

func TestSearchComponentUsesPhrase(t *testing.T) {
	rendering := &cms.ComponentRendering{UID: "s", ComponentName: "Search"}

	got := renderToString(t, newTestFactory().Component(testView(), rendering))
	if !strings.Contains(got, `placeholder="Search the docs"`) {
		t.Fatalf("expected localized placeholder, got %s", got)
	}
}

func TestNotFoundPage(t *testing.T) {
	got := renderToString(t, NotFoundPage(testView()))

	if !strings.Contains(got, "<h1>Page not found</h1>") {
		t.Fatalf("expected localized title, got %s", got)
	}
	if !strings.Contains(got, "Nothing lives here.") {
		t.Fatalf("expected localized body, got %s", got)
	}
}

func TestUnauthorizedPageFallsBackToKeys(t *testing.T) {
	view := NewPageView(&resolver.PageProps{Locale: "en"}, "/private")

	got := renderToString(t, UnauthorizedPage(view))
	if !strings.Contains(got, "error.unauthorized.title") {
		t.Fatalf("expected phrase key fallback, got %s", got)
	}
}

func TestErrorPage(t *testing.T) {
	got := renderToString(t, ErrorPage())

	if !strings.Contains(got, "Something went wrong") {
		t.Fatalf("expected generic error text, got %s", got)
	}
}

func TestPhraseFallsBackToKey(t *testing.T) {
	view := NewPageView(&resolver.PageProps{}, "/")
	if got := view.Phrase("missing.key"); got != "missing.key" {
		t.Fatalf("Phrase = %q", got)
	}
}
