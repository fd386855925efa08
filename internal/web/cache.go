package web

import (
	"net/http"
	"strings"
)

const defaultPageCachePolicy = "public, max-age=300, s-maxage=300"
const defaultStaticCachePolicy = "public, max-age=86400, s-maxage=86400"
const defaultErrorCachePolicy = "public, max-age=60, s-maxage=60"

// previewCachePolicy keeps draft content out of every cache between the
// editor and the browser.
const previewCachePolicy = "no-store"

// CachePolicies holds the Cache-Control values per response class. Empty
// fields fall back to the defaults.
type CachePolicies struct {
	Pages  string
	Static string
	Health string
	Error  string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		Pages:  defaultPageCachePolicy,
		Static: defaultStaticCachePolicy,
		Health: defaultErrorCachePolicy,
		Error:  defaultErrorCachePolicy,
	}
}

func withDefaultPolicies(policies CachePolicies) CachePolicies {
	defaults := DefaultCachePolicies()
	if strings.TrimSpace(policies.Pages) == "" {
		policies.Pages = defaults.Pages
	}
	if strings.TrimSpace(policies.Static) == "" {
		policies.Static = defaults.Static
	}
	if strings.TrimSpace(policies.Health) == "" {
		policies.Health = defaults.Health
	}
	if strings.TrimSpace(policies.Error) == "" {
		policies.Error = defaults.Error
	}

	return policies
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	policy = strings.TrimSpace(policy)
	if policy == "" {
		return
	}
	w.Header().Set("Cache-Control", policy)
}

func withCachePolicy(policy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCachePolicy(w, policy)
		next.ServeHTTP(w, r)
	})
}
