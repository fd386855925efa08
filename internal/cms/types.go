package cms

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContextBag carries arbitrary route metadata returned next to the route
// payload (site info, language, page-state flags, anything the layout
// service decides to attach).
type ContextBag map[string]any

// LayoutData is the layout service's description of one route. A nil Route
// means the requested path has no content.
type LayoutData struct {
	Route   *RouteData `json:"route"`
	Context ContextBag `json:"context,omitempty"`
}

type RouteData struct {
	Name         string                          `json:"name"`
	DisplayName  string                          `json:"displayName,omitempty"`
	ItemID       string                          `json:"itemId"`
	ItemLanguage string                          `json:"itemLanguage,omitempty"`
	ItemVersion  int                             `json:"itemVersion,omitempty"`
	TemplateName string                          `json:"templateName,omitempty"`
	Fields       map[string]json.RawMessage      `json:"fields,omitempty"`
	Placeholders map[string][]ComponentRendering `json:"placeholders,omitempty"`
}

// ComponentRendering is one component instance placed in a placeholder.
// Placeholders nest, so renderings form a tree.
type ComponentRendering struct {
	UID           string                          `json:"uid"`
	ComponentName string                          `json:"componentName"`
	DataSource    string                          `json:"dataSource,omitempty"`
	Params        map[string]string               `json:"params,omitempty"`
	Fields        map[string]json.RawMessage      `json:"fields,omitempty"`
	Placeholders  map[string][]ComponentRendering `json:"placeholders,omitempty"`
}

type layoutEnvelope struct {
	Layout *LayoutData `json:"layout"`
}

// ParseLayoutData decodes the layout service response envelope
// {"layout": {"context": {...}, "route": {...}}}.
func ParseLayoutData(payload []byte) (*LayoutData, error) {
	var envelope layoutEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode layout payload: %w", err)
	}
	if envelope.Layout == nil {
		return nil, fmt.Errorf("layout payload missing %q envelope", "layout")
	}

	return envelope.Layout, nil
}

// Field is the common {"value": ...} shape of route and component fields.
type Field struct {
	Value    json.RawMessage `json:"value"`
	Editable string          `json:"editable,omitempty"`
}

// TextField returns the string value of a field, or "" when the field is
// absent or not a string.
func TextField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}

	var field Field
	if err := json.Unmarshal(raw, &field); err != nil {
		return ""
	}

	var value string
	if err := json.Unmarshal(field.Value, &value); err != nil {
		return ""
	}

	return strings.TrimSpace(value)
}

// BoolParam reads a rendering parameter as a boolean. Missing or
// unrecognized values report false.
func (r *ComponentRendering) BoolParam(name string) bool {
	if r == nil || r.Params == nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(r.Params[name])) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// PageTitle picks a human title for the route: the Title field when present,
// then the display name, then the item name.
func (r *RouteData) PageTitle() string {
	if r == nil {
		return ""
	}
	if title := TextField(r.Fields, "pageTitle"); title != "" {
		return title
	}
	if title := TextField(r.Fields, "title"); title != "" {
		return title
	}
	if v := strings.TrimSpace(r.DisplayName); v != "" {
		return v
	}

	return strings.TrimSpace(r.Name)
}
