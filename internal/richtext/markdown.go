package richtext

import (
	stdhtml "html"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownToHTML renders a markdown-authored documentation field. Links go
// through the same normalization as rich text anchors; fenced code blocks
// come out highlighted with chroma classes (see ChromaCSS for the matching
// stylesheet).
func MarkdownToHTML(source string, opts Options) template.HTML {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(source))
	normalizeMarkdownLinks(doc, opts)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: renderNodeHook,
	})

	return template.HTML(md.Render(doc, renderer))
}

func normalizeMarkdownLinks(doc ast.Node, opts Options) {
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		link, ok := node.(*ast.Link)
		if !ok {
			return ast.GoToNext
		}

		href, internal := normalizeHref(string(link.Destination), opts.RootURL)
		link.Destination = []byte(href)
		if !internal {
			link.AdditionalAttributes = externalLinkAttributes(link.AdditionalAttributes)
		}

		return ast.GoToNext
	})
}

func externalLinkAttributes(existing []string) []string {
	attrs := make([]string, 0, len(existing)+2)
	for _, attr := range existing {
		normalized := strings.ToLower(strings.TrimSpace(attr))
		if strings.HasPrefix(normalized, "target=") || strings.HasPrefix(normalized, "rel=") {
			continue
		}
		attrs = append(attrs, attr)
	}

	return append(attrs, `target="_blank"`, `rel="noopener noreferrer"`)
}

func renderNodeHook(writer io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	switch typed := node.(type) {
	case *ast.CodeBlock:
		renderCodeBlock(writer, typed)
		return ast.SkipChildren, true
	case *ast.Code:
		renderInlineCode(writer, typed)
		return ast.SkipChildren, true
	default:
		return ast.GoToNext, false
	}
}

func renderCodeBlock(writer io.Writer, block *ast.CodeBlock) {
	code := string(block.Literal)
	lexer := pickLexer(codeLanguage(block.Info), code)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderPlainCodeBlock(writer, code)
		return
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(writer, styles.Fallback, iterator); err != nil {
		renderPlainCodeBlock(writer, code)
	}
}

func renderInlineCode(writer io.Writer, code *ast.Code) {
	_, _ = io.WriteString(writer, `<code class="inline-code">`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(string(code.Literal)))
	_, _ = io.WriteString(writer, `</code>`)
}

func renderPlainCodeBlock(writer io.Writer, code string) {
	_, _ = io.WriteString(writer, `<pre class="chroma"><code>`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(code))
	_, _ = io.WriteString(writer, `</code></pre>`)
}

func pickLexer(language string, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}

	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}

	return lexers.Fallback
}

func codeLanguage(info []byte) string {
	fields := strings.Fields(strings.TrimSpace(string(info)))
	if len(fields) == 0 {
		return ""
	}

	return strings.ToLower(fields[0])
}
