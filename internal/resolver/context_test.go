package resolver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestContextPath(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{name: "no segments", segments: nil, want: "/"},
		{name: "empty slice", segments: []string{}, want: "/"},
		{name: "two segments", segments: []string{"a", "b"}, want: "/a/b"},
		{name: "missing leading slash", segments: []string{"docs"}, want: "/docs"},
		{name: "embedded slashes", segments: []string{"docs/intro"}, want: "/docs/intro"},
		{name: "duplicate slashes", segments: []string{"//docs//", "intro/"}, want: "/docs/intro"},
		{name: "blank segments", segments: []string{"", "docs", ""}, want: "/docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := NewBuildContext(tt.segments, "")
			if got := rc.Path(); got != tt.want {
				t.Fatalf("Path(%v) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}

func TestContextResolveLocale(t *testing.T) {
	rc := NewBuildContext(nil, "de")
	if got := rc.ResolveLocale("en"); got != "de" {
		t.Fatalf("ResolveLocale = %q, want route locale", got)
	}

	rc = NewBuildContext(nil, "")
	if got := rc.ResolveLocale("en"); got != "en" {
		t.Fatalf("ResolveLocale = %q, want default", got)
	}
}

func TestContextValidate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()

	if err := NewRequestContext(recorder, req, nil, "").Validate(); err != nil {
		t.Fatalf("request context invalid: %v", err)
	}
	if err := NewBuildContext(nil, "").Validate(); err != nil {
		t.Fatalf("build context invalid: %v", err)
	}

	broken := RenderContext{Kind: KindRequest}
	if err := broken.Validate(); err == nil {
		t.Fatal("request context without handles validated")
	}

	mixed := RenderContext{Kind: KindBuild, Request: req}
	if err := mixed.Validate(); err == nil {
		t.Fatal("build context with request handle validated")
	}

	if err := (RenderContext{}).Validate(); err == nil {
		t.Fatal("zero context validated")
	}
}

func TestContextPreview(t *testing.T) {
	rc := NewBuildContext(nil, "en")
	if rc.InPreview() {
		t.Fatal("fresh context reports preview")
	}

	pinned := rc.WithPreview("key-1")
	if !pinned.InPreview() || pinned.PreviewKey != "key-1" {
		t.Fatalf("pinned = %+v", pinned)
	}
	if rc.InPreview() {
		t.Fatal("WithPreview mutated the receiver")
	}
}

func TestSegmentsFromPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{path: "/", want: nil},
		{path: "", want: nil},
		{path: "/docs/intro", want: []string{"docs", "intro"}},
		{path: "docs", want: []string{"docs"}},
	}

	for _, tt := range tests {
		got := SegmentsFromPath(tt.path)
		if len(got) != len(tt.want) {
			t.Fatalf("SegmentsFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("SegmentsFromPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		}
	}
}
