// Package richtext prepares CMS-authored content for rendering. Rich text
// fields arrive as HTML fragments and documentation fields as markdown
// source; both get their links normalized against the portal origin and
// fenced code highlighted server side.
package richtext

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options controls link normalization.
type Options struct {
	// RootURL is the portal's public origin. Absolute links into it are
	// rewritten to site-relative paths so navigation stays on this
	// deployment; all other absolute links open in a new tab.
	RootURL string
}

// Render normalizes the anchors of an editor-authored HTML fragment. The
// content is trusted as-is; only link targets and attributes change.
func Render(content string, opts Options) template.HTML {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	nodes, err := parseFragment(content)
	if err != nil {
		return template.HTML(content)
	}

	var buffer bytes.Buffer
	for _, node := range nodes {
		rewriteAnchors(node, opts.RootURL)
		if err := html.Render(&buffer, node); err != nil {
			return template.HTML(content)
		}
	}

	return template.HTML(buffer.String())
}

// PlainText strips an HTML fragment down to its visible text with collapsed
// whitespace.
func PlainText(content string) string {
	nodes, err := parseFragment(content)
	if err != nil {
		return strings.Join(strings.Fields(content), " ")
	}

	var builder strings.Builder
	for _, node := range nodes {
		collectText(node, &builder)
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}

// Excerpt produces a plain-text summary suitable for meta descriptions,
// truncated near maxChars on a word boundary.
func Excerpt(content string, maxChars int) string {
	if maxChars < 1 {
		return ""
	}

	clean := PlainText(content)
	if clean == "" {
		return ""
	}
	if utf8.RuneCountInString(clean) <= maxChars {
		return clean
	}

	return truncateRunes(clean, maxChars)
}

func parseFragment(content string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	return html.ParseFragment(strings.NewReader(content), body)
}

func rewriteAnchors(node *html.Node, rootURL string) {
	if node.Type == html.ElementNode && node.DataAtom == atom.A {
		for i := range node.Attr {
			if node.Attr[i].Key != "href" {
				continue
			}
			href, internal := normalizeHref(node.Attr[i].Val, rootURL)
			node.Attr[i].Val = href
			if !internal {
				markExternal(node)
			}
			break
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		rewriteAnchors(child, rootURL)
	}
}

func markExternal(node *html.Node) {
	attrs := node.Attr[:0]
	for _, attr := range node.Attr {
		if attr.Key == "target" || attr.Key == "rel" {
			continue
		}
		attrs = append(attrs, attr)
	}

	node.Attr = append(attrs,
		html.Attribute{Key: "target", Val: "_blank"},
		html.Attribute{Key: "rel", Val: "noopener noreferrer"})
}

// normalizeHref decides whether a link stays on this portal and rewrites
// absolute same-origin links to relative ones. Internal links keep in-tab
// navigation; everything else is marked external by the caller.
func normalizeHref(href, rootURL string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" {
		return href, true
	}
	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "?") {
		return href, true
	}

	if rootURL != "" && strings.HasPrefix(trimmed, rootURL) {
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return href, true
		}

		normalized := parsed.Path
		if normalized == "" {
			normalized = "/"
		}
		if parsed.RawQuery != "" {
			normalized += "?" + parsed.RawQuery
		}
		if parsed.Fragment != "" {
			normalized += "#" + parsed.Fragment
		}

		return normalized, true
	}

	if !strings.Contains(trimmed, ":") {
		// Relative path like "docs/intro".
		return href, true
	}

	return href, false
}

func collectText(node *html.Node, builder *strings.Builder) {
	switch {
	case node.Type == html.TextNode:
		builder.WriteString(node.Data)
		builder.WriteString(" ")
	case node.Type == html.ElementNode && (node.DataAtom == atom.Script || node.DataAtom == atom.Style):
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, builder)
	}
}

const lastGoodBreakRatio = 0.8

func truncateRunes(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	truncateAt := maxChars
	minBreak := int(float64(maxChars) * lastGoodBreakRatio)
	for idx := maxChars - 1; idx >= minBreak; idx-- {
		if unicode.IsSpace(runes[idx]) {
			truncateAt = idx
			break
		}
	}

	truncated := strings.TrimSpace(string(runes[:truncateAt]))
	if truncated == "" {
		truncated = strings.TrimSpace(string(runes[:maxChars]))
	}

	return truncated + "..."
}
