package richtext

import (
	"strings"
	"testing"
)

const portalRoot = "https://developers.example.com"

func TestRender_RelativizesSameOriginLinks(t *testing.T) {
	got := string(Render(`<p>See <a href="https://developers.example.com/docs/auth?x=1#scopes">auth docs</a>.</p>`, Options{
		RootURL: portalRoot,
	}))

	if !strings.Contains(got, `href="/docs/auth?x=1#scopes"`) {
		t.Fatalf("expected relativized same-origin href, got %s", got)
	}
	if strings.Contains(got, `target="_blank"`) {
		t.Fatalf("did not expect new-tab attributes on internal links, got %s", got)
	}
}

func TestRender_MarksExternalLinks(t *testing.T) {
	got := string(Render(`<a href="https://github.com/example" target="_self">repo</a>`, Options{
		RootURL: portalRoot,
	}))

	if !strings.Contains(got, `target="_blank"`) {
		t.Fatalf("expected target blank on external link, got %s", got)
	}
	if !strings.Contains(got, `rel="noopener noreferrer"`) {
		t.Fatalf("expected rel attrs on external link, got %s", got)
	}
	if strings.Contains(got, `target="_self"`) {
		t.Fatalf("expected author target to be replaced, got %s", got)
	}
}

func TestRender_LeavesRelativeLinksAlone(t *testing.T) {
	got := string(Render(`<a href="/docs/intro">intro</a> <a href="#section">jump</a>`, Options{
		RootURL: portalRoot,
	}))

	if !strings.Contains(got, `href="/docs/intro"`) || !strings.Contains(got, `href="#section"`) {
		t.Fatalf("expected relative hrefs untouched, got %s", got)
	}
	if strings.Contains(got, "_blank") {
		t.Fatalf("relative links must stay in-tab, got %s", got)
	}
}

func TestRender_EmptyContent(t *testing.T) {
	if got := Render("   ", Options{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestPlainText_StripsMarkupAndScripts(t *testing.T) {
	got := PlainText(`<h1>Title</h1><script>alert(1)</script><p>Body   text</p>`)

	if got != "Title Body text" {
		t.Fatalf("PlainText = %q", got)
	}
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	got := Excerpt("<p>alpha beta gamma delta</p>", 12)
	if got != "alpha beta..." {
		t.Fatalf("expected graceful word truncation, got %q", got)
	}
}

func TestExcerpt_ShortContentUntouched(t *testing.T) {
	got := Excerpt("<p>short</p>", 40)
	if got != "short" {
		t.Fatalf("Excerpt = %q", got)
	}
}
