package gqlclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCredentialTransportHeaders(t *testing.T) {
	var gotAPIKey, gotAuthorization string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get(apiKeyHeader)
		gotAuthorization = r.Header.Get(authorizationHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {}}`))
	}))
	defer upstream.Close()

	client := NewHTTPClient(Options{APIKey: "key-123", Authorization: "token-456"})
	resp, err := client.Get(upstream.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()

	if gotAPIKey != "key-123" {
		t.Fatalf("expected api key header, got %q", gotAPIKey)
	}
	if gotAuthorization != "Bearer token-456" {
		t.Fatalf("expected bearer header, got %q", gotAuthorization)
	}
}

func TestCredentialTransportNoCredentials(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header[apiKeyHeader]; ok {
			t.Error("did not expect api key header")
		}
		if _, ok := r.Header[authorizationHeader]; ok {
			t.Error("did not expect authorization header")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	client := NewHTTPClient(Options{})
	resp, err := client.Get(upstream.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
}
