// Package editing holds the server side of CMS preview sessions. When an
// editor opens a page in the editing host, the CMS pushes the draft layout
// and dictionary here; the page resolver reads it back by key instead of
// calling the published content services.
package editing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDataNotFound reports an unknown or expired editing key.
var ErrDataNotFound = errors.New("editing data not found")

// DefaultTTL is how long pushed editing data stays retrievable. Editing
// sessions are interactive, so entries have no business outliving the hour.
const DefaultTTL = time.Hour

// Data is one editing snapshot: everything the resolver needs to render a
// draft page without consulting the published CMS endpoints.
type Data struct {
	Key        string            `json:"key"`
	Path       string            `json:"path"`
	Locale     string            `json:"locale"`
	Layout     json.RawMessage   `json:"layout"`
	Dictionary map[string]string `json:"dictionary,omitempty"`
}

// Validate rejects snapshots the resolver could not render.
func (d *Data) Validate() error {
	if d == nil {
		return errors.New("editing data is nil")
	}
	if d.Key == "" {
		return errors.New("editing data missing key")
	}
	if d.Locale == "" {
		return errors.New("editing data missing locale")
	}
	if len(d.Layout) == 0 {
		return errors.New("editing data missing layout")
	}

	return nil
}

// Store persists editing snapshots for the duration of an editing session.
type Store interface {
	Put(ctx context.Context, data *Data) error
	Get(ctx context.Context, key string) (*Data, error)
	Delete(ctx context.Context, key string) error
	Prune(ctx context.Context) (int, error)
	Close() error
}

// NewKey mints a fresh editing key.
func NewKey() string {
	return uuid.NewString()
}
