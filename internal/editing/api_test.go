package editing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testSecret = "s3cret"

func newTestAPI(t *testing.T) (*API, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(time.Hour)

	return NewAPI(store, testSecret, zap.NewNop()), store
}

func doJSON(t *testing.T, api *API, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	api.Routes().ServeHTTP(recorder, req)

	return recorder
}

func TestAPISecretGuard(t *testing.T) {
	api, _ := newTestAPI(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "missing secret", target: "/data/k1", status: http.StatusUnauthorized},
		{name: "wrong secret", target: "/data/k1?secret=nope", status: http.StatusUnauthorized},
		{name: "right secret unknown key", target: "/data/k1?secret=" + testSecret, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(t, api, http.MethodGet, tt.target, "")
			if recorder.Code != tt.status {
				t.Fatalf("status = %d, want %d", recorder.Code, tt.status)
			}
		})
	}
}

func TestAPISecretHeader(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/data/k1", nil)
	req.Header.Set(SecretHeader, testSecret)
	recorder := httptest.NewRecorder()
	api.Routes().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusNotFound)
	}
}

func TestAPIUnconfiguredSecretRejects(t *testing.T) {
	api := NewAPI(NewMemoryStore(time.Hour), "", zap.NewNop())

	recorder := doJSON(t, api, http.MethodGet, "/data/k1?secret=", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusUnauthorized)
	}
}

func TestAPIUpsertAndGet(t *testing.T) {
	api, _ := newTestAPI(t)

	payload := `{
		"path": "/styleguide",
		"locale": "en",
		"layout": {"layout": {"route": {"name": "styleguide", "itemId": "item-1"}}},
		"dictionary": {"a": "Alpha"}
	}`

	recorder := doJSON(t, api, http.MethodPut, "/data/k1?secret="+testSecret, payload)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("PUT status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	recorder = doJSON(t, api, http.MethodGet, "/data/k1?secret="+testSecret, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("GET status = %d", recorder.Code)
	}
	var data Data
	if err := json.Unmarshal(recorder.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if data.Key != "k1" || data.Path != "/styleguide" || data.Dictionary["a"] != "Alpha" {
		t.Fatalf("data = %+v", data)
	}

	recorder = doJSON(t, api, http.MethodDelete, "/data/k1?secret="+testSecret, "")
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", recorder.Code)
	}
	recorder = doJSON(t, api, http.MethodGet, "/data/k1?secret="+testSecret, "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d", recorder.Code)
	}
}

func TestAPIUpsertKeyMismatch(t *testing.T) {
	api, _ := newTestAPI(t)

	payload := `{"key": "other", "locale": "en", "layout": {"layout": {}}}`
	recorder := doJSON(t, api, http.MethodPut, "/data/k1?secret="+testSecret, payload)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
}

func TestAPIUpsertInvalidPayload(t *testing.T) {
	api, _ := newTestAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{{"},
		{name: "missing layout", body: `{"locale": "en"}`},
		{name: "missing locale", body: `{"layout": {"layout": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(t, api, http.MethodPut, "/data/k1?secret="+testSecret, tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestAPICreateMintsKey(t *testing.T) {
	api, store := newTestAPI(t)

	payload := `{"locale": "en", "layout": {"layout": {"route": {"name": "draft"}}}}`
	recorder := doJSON(t, api, http.MethodPost, "/data?secret="+testSecret, payload)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var created map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	key := created["key"]
	if key == "" {
		t.Fatal("response missing key")
	}

	if _, err := store.Get(context.Background(), key); err != nil {
		t.Fatalf("stored data missing: %v", err)
	}
}
