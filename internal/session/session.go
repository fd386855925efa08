// Package session reads and writes the portal's signed browser cookie. The
// cookie carries who the visitor is, their CMS bearer token, and whether the
// browser is pinned to an editing preview.
package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// DefaultCookieName is used unless the deployment overrides it.
const DefaultCookieName = "portal_session"

const (
	subjectValue       = "sub"
	authorizationValue = "auth"
	previewKeyValue    = "previewKey"
)

// Session is the decoded cookie state. Zero values mean an anonymous visitor
// outside preview.
type Session struct {
	Subject       string
	Authorization string
	PreviewKey    string
}

// InPreview reports whether the browser holds an editing preview pin.
func (s *Session) InPreview() bool {
	return s != nil && s.PreviewKey != ""
}

// Provider wraps a signed cookie store. Cookies that fail signature
// verification resolve to no session at all.
type Provider struct {
	store *sessions.CookieStore
	name  string
}

// NewProvider builds a cookie-backed provider. keys rotate oldest-last, the
// way gorilla expects them; at least one is required.
func NewProvider(name string, keys ...[]byte) (*Provider, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("session provider needs at least one key")
	}
	if name == "" {
		name = DefaultCookieName
	}

	store := sessions.NewCookieStore(keys...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Provider{store: store, name: name}, nil
}

// Resolve decodes the request's session cookie. Absent, expired, and
// tampered cookies all come back nil.
func (p *Provider) Resolve(r *http.Request) *Session {
	stored, err := p.store.Get(r, p.name)
	if err != nil || stored.IsNew {
		return nil
	}

	resolved := &Session{}
	resolved.Subject, _ = stored.Values[subjectValue].(string)
	resolved.Authorization, _ = stored.Values[authorizationValue].(string)
	resolved.PreviewKey, _ = stored.Values[previewKeyValue].(string)

	return resolved
}

// SignIn records the visitor's identity and CMS bearer token.
func (p *Provider) SignIn(w http.ResponseWriter, r *http.Request, subject, authorization string) error {
	stored, _ := p.store.Get(r, p.name)
	stored.Values[subjectValue] = subject
	stored.Values[authorizationValue] = authorization

	return stored.Save(r, w)
}

// SignOut drops the whole session, preview pin included.
func (p *Provider) SignOut(w http.ResponseWriter, r *http.Request) error {
	stored, _ := p.store.Get(r, p.name)
	stored.Options.MaxAge = -1

	return stored.Save(r, w)
}

// EnterPreview pins the browser to an editing snapshot.
func (p *Provider) EnterPreview(w http.ResponseWriter, r *http.Request, key string) error {
	if key == "" {
		return fmt.Errorf("preview key must not be empty")
	}

	stored, _ := p.store.Get(r, p.name)
	stored.Values[previewKeyValue] = key

	return stored.Save(r, w)
}

// ExitPreview removes the preview pin but keeps the rest of the session.
func (p *Provider) ExitPreview(w http.ResponseWriter, r *http.Request) error {
	stored, _ := p.store.Get(r, p.name)
	delete(stored.Values, previewKeyValue)

	return stored.Save(r, w)
}
