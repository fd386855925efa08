package resolver

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind discriminates how a resolution was triggered. It is fixed when the
// context is constructed, never inferred later from which fields happen to
// be set.
type Kind uint8

const (
	// KindRequest resolutions serve a live HTTP request and carry the
	// request and response handles.
	KindRequest Kind = iota + 1
	// KindBuild resolutions run during static export with no request in
	// flight.
	KindBuild
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

// RenderContext is the immutable input to one resolution. Construct it with
// NewRequestContext or NewBuildContext.
type RenderContext struct {
	Kind     Kind
	Segments []string

	// Locale is the route-level locale override, empty when the route does
	// not pin one.
	Locale string

	// PreviewKey selects an editing snapshot instead of published content.
	// Empty means a normal resolution.
	PreviewKey string

	// Request and Response are set only for KindRequest.
	Request  *http.Request
	Response http.ResponseWriter
}

func NewRequestContext(w http.ResponseWriter, r *http.Request, segments []string, locale string) RenderContext {
	return RenderContext{
		Kind:     KindRequest,
		Segments: segments,
		Locale:   locale,
		Request:  r,
		Response: w,
	}
}

func NewBuildContext(segments []string, locale string) RenderContext {
	return RenderContext{
		Kind:     KindBuild,
		Segments: segments,
		Locale:   locale,
	}
}

// WithPreview returns a copy pinned to an editing snapshot.
func (c RenderContext) WithPreview(key string) RenderContext {
	c.PreviewKey = key

	return c
}

// InPreview reports whether this resolution draws from editing data.
func (c RenderContext) InPreview() bool {
	return c.PreviewKey != ""
}

// Validate rejects contexts that mix the two kinds.
func (c RenderContext) Validate() error {
	switch c.Kind {
	case KindRequest:
		if c.Request == nil {
			return fmt.Errorf("request context missing request handle")
		}
	case KindBuild:
		if c.Request != nil || c.Response != nil {
			return fmt.Errorf("build context must not carry request handles")
		}
	default:
		return fmt.Errorf("render context kind is unset")
	}

	return nil
}

// Path joins the catch-all segments into a normalized path: exactly one
// leading slash, no duplicate slashes, "/" when there are no segments.
func (c RenderContext) Path() string {
	parts := make([]string, 0, len(c.Segments))
	for _, segment := range c.Segments {
		for _, part := range strings.Split(segment, "/") {
			if part != "" {
				parts = append(parts, part)
			}
		}
	}
	if len(parts) == 0 {
		return "/"
	}

	return "/" + strings.Join(parts, "/")
}

// ResolveLocale prefers the route-level locale and falls back to the
// configured default.
func (c RenderContext) ResolveLocale(defaultLocale string) string {
	if c.Locale != "" {
		return c.Locale
	}

	return defaultLocale
}

// SegmentsFromPath splits a URL path back into catch-all segments. The root
// path yields none.
func SegmentsFromPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}

	return segments
}
