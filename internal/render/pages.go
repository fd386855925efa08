package render

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"devportal/internal/richtext"
)

// Page renders the full HTML document for a successfully resolved page:
// header, main, and footer placeholders inside a document shell.
func Page(f *Factory, view PageView) templ.Component {
	title := f.opts.SiteTitle
	if route := view.Route(); route != nil {
		if routeTitle := route.PageTitle(); routeTitle != "" {
			title = routeTitle
		}
	}

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<header class="site-header">`); err != nil {
			return err
		}
		if err := f.RoutePlaceholder(view, "header").Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</header><main>`); err != nil {
			return err
		}
		if err := f.RoutePlaceholder(view, "main").Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</main><footer class="site-footer">`); err != nil {
			return err
		}
		if err := f.RoutePlaceholder(view, "footer").Render(ctx, w); err != nil {
			return err
		}
		footer := `<p>` + templ.EscapeString(view.Phrase("footer.copyright")) + `</p></footer>`
		_, err := io.WriteString(w, footer)

		return err
	})

	return document(view, title, body)
}

// NotFoundPage renders the localized missing-page view.
func NotFoundPage(view PageView) templ.Component {
	return errorDocument(view, view.Phrase("error.notfound.title"), view.Phrase("error.notfound.body"))
}

// UnauthorizedPage renders the localized sign-in-required view.
func UnauthorizedPage(view PageView) templ.Component {
	return errorDocument(view, view.Phrase("error.unauthorized.title"), view.Phrase("error.unauthorized.body"))
}

// ErrorPage is the last-resort view for failed resolutions, when not even a
// dictionary is available.
func ErrorPage() templ.Component {
	view := PageView{}

	return errorDocument(view, "Something went wrong", "The page could not be rendered. Please try again.")
}

func errorDocument(view PageView, title, body string) templ.Component {
	content := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<main class="error-page"><h1>`+templ.EscapeString(title)+`</h1>`+
				`<p>`+templ.EscapeString(body)+`</p>`+
				`<p><a href="/">`+templ.EscapeString(view.Phrase("navigation.home"))+`</a></p></main>`)

		return err
	})

	return document(view, title, content)
}

func document(view PageView, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="` + templ.EscapeString(view.Locale()) + `"><head>` +
			`<meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<link rel="stylesheet" href="/static/portal.css">` +
			`<style>` + string(richtext.ChromaCSS()) + `</style>` +
			`</head><body>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)

		return err
	})
}
