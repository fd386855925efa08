package richtext

import (
	"strings"
	"testing"
)

func TestMarkdownToHTML_NormalizesSameOriginLinks(t *testing.T) {
	got := string(MarkdownToHTML("[auth](https://developers.example.com/docs/auth)", Options{
		RootURL: portalRoot,
	}))

	if !strings.Contains(got, `href="/docs/auth"`) {
		t.Fatalf("expected relativized href, got %s", got)
	}
	if strings.Contains(got, `target="_blank"`) {
		t.Fatalf("did not expect new-tab attributes on internal links, got %s", got)
	}
}

func TestMarkdownToHTML_MarksExternalLinks(t *testing.T) {
	got := string(MarkdownToHTML("[spec](https://www.rfc-editor.org/rfc/rfc6749)", Options{
		RootURL: portalRoot,
	}))

	if !strings.Contains(got, `target="_blank"`) {
		t.Fatalf("expected target blank, got %s", got)
	}
	if !strings.Contains(got, `rel="noopener noreferrer"`) {
		t.Fatalf("expected rel attrs, got %s", got)
	}
}

func TestMarkdownToHTML_HighlightsCodeBlocks(t *testing.T) {
	source := "```go\nfmt.Println(\"hello\")\n```"
	got := string(MarkdownToHTML(source, Options{}))

	if !strings.Contains(got, `class="chroma"`) {
		t.Fatalf("expected chroma class for fenced code block, got %s", got)
	}
	if !strings.Contains(got, "Println") {
		t.Fatalf("expected code content in rendered block, got %s", got)
	}
}

func TestMarkdownToHTML_RendersInlineCodeClass(t *testing.T) {
	got := string(MarkdownToHTML("Run `devportal serve` locally.", Options{}))

	if !strings.Contains(got, `<code class="inline-code">devportal serve</code>`) {
		t.Fatalf("expected inline code class, got %s", got)
	}
}

func TestMarkdownToHTML_SkipsRawHTML(t *testing.T) {
	got := string(MarkdownToHTML("before <script>alert(1)</script> after", Options{}))

	if strings.Contains(got, "<script>") {
		t.Fatalf("raw HTML must be skipped, got %s", got)
	}
}

func TestChromaCSSContainsBothSchemes(t *testing.T) {
	css := string(ChromaCSS())

	if !strings.Contains(css, "prefers-color-scheme: light") {
		t.Fatalf("missing light scheme block")
	}
	if !strings.Contains(css, "prefers-color-scheme: dark") {
		t.Fatalf("missing dark scheme block")
	}
}
