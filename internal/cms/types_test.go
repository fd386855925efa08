package cms

import (
	"encoding/json"
	"net/http"
	"testing"
)

func mustFields(t *testing.T, payload string) map[string]json.RawMessage {
	t.Helper()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	return fields
}

const sampleLayoutPayload = `{
	"layout": {
		"context": {
			"pageEditing": false,
			"site": {"name": "devportal"},
			"language": "en"
		},
		"route": {
			"name": "getting-started",
			"displayName": "Getting Started",
			"itemId": "7c6f4a9e-2b3d-4f08-9a11-0d8f4d1c5e42",
			"itemLanguage": "en",
			"itemVersion": 3,
			"templateName": "Article",
			"fields": {
				"pageTitle": {"value": "Getting Started"},
				"summary": {"value": "First steps with the platform."}
			},
			"placeholders": {
				"main": [
					{
						"uid": "b12e7c01-44f8-4f6e-8d1a-9e2a6f0c3d55",
						"componentName": "RichText",
						"fields": {"content": {"value": "<p>Welcome</p>"}},
						"placeholders": {
							"inner": [
								{
									"uid": "aa0c1f44-0d31-47e7-8a55-6b1f2c3d4e5f",
									"componentName": "CodeSnippet",
									"params": {"language": "go"}
								}
							]
						}
					}
				]
			}
		}
	}
}`

func TestParseLayoutData(t *testing.T) {
	layout, err := ParseLayoutData([]byte(sampleLayoutPayload))
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}

	if layout.Route == nil {
		t.Fatal("expected route payload")
	}
	if layout.Route.ItemID != "7c6f4a9e-2b3d-4f08-9a11-0d8f4d1c5e42" {
		t.Fatalf("unexpected item id %q", layout.Route.ItemID)
	}
	if layout.Route.ItemVersion != 3 {
		t.Fatalf("unexpected item version %d", layout.Route.ItemVersion)
	}
	if got := layout.Context["language"]; got != "en" {
		t.Fatalf("expected context language en, got %v", got)
	}

	main := layout.Route.Placeholders["main"]
	if len(main) != 1 {
		t.Fatalf("expected one rendering in main, got %d", len(main))
	}
	if main[0].ComponentName != "RichText" {
		t.Fatalf("unexpected component %q", main[0].ComponentName)
	}

	inner := main[0].Placeholders["inner"]
	if len(inner) != 1 || inner[0].ComponentName != "CodeSnippet" {
		t.Fatalf("expected nested CodeSnippet rendering, got %+v", inner)
	}
	if inner[0].Params["language"] != "go" {
		t.Fatalf("unexpected params %v", inner[0].Params)
	}
}

func TestParseLayoutDataNullRoute(t *testing.T) {
	layout, err := ParseLayoutData([]byte(`{"layout": {"route": null, "context": {"site": {"name": "devportal"}}}}`))
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	if layout.Route != nil {
		t.Fatal("expected nil route")
	}
	if layout.Context == nil {
		t.Fatal("expected context bag to survive a null route")
	}
}

func TestParseLayoutDataRejectsMissingEnvelope(t *testing.T) {
	if _, err := ParseLayoutData([]byte(`{"route": {}}`)); err == nil {
		t.Fatal("expected error for missing envelope")
	}
	if _, err := ParseLayoutData([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestTextField(t *testing.T) {
	layout, err := ParseLayoutData([]byte(sampleLayoutPayload))
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}

	fields := layout.Route.Fields
	if got := TextField(fields, "pageTitle"); got != "Getting Started" {
		t.Fatalf("unexpected pageTitle %q", got)
	}
	if got := TextField(fields, "missing"); got != "" {
		t.Fatalf("expected empty value for missing field, got %q", got)
	}
}

func TestRoutePageTitle(t *testing.T) {
	tests := []struct {
		name     string
		route    *RouteData
		expected string
	}{
		{name: "nil route", route: nil, expected: ""},
		{
			name:     "field wins",
			route:    &RouteData{Name: "x", DisplayName: "Display", Fields: mustFields(t, `{"pageTitle": {"value": "Field Title"}}`)},
			expected: "Field Title",
		},
		{
			name:     "display name fallback",
			route:    &RouteData{Name: "x", DisplayName: "Display"},
			expected: "Display",
		},
		{
			name:     "item name fallback",
			route:    &RouteData{Name: "docs"},
			expected: "docs",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.route.PageTitle(); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	err := error(&StatusError{Code: http.StatusNotFound})

	if !IsStatus(err, http.StatusNotFound) {
		t.Fatal("expected status 404 match")
	}
	if IsStatus(err, http.StatusUnauthorized) {
		t.Fatal("did not expect status 401 match")
	}
	if got := StatusOf(err); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
	if got := StatusOf(nil); got != 0 {
		t.Fatalf("expected 0 for nil error, got %d", got)
	}
}
