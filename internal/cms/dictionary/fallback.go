package dictionary

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// FallbackBundle serves the phrases compiled into the binary. They cover the
// portal chrome (navigation, errors, search) so a fresh CMS instance still
// renders with sensible text.
type FallbackBundle struct {
	bundle *i18n.Bundle
	keys   []string
}

// NewFallbackBundle loads every embedded locale file into an i18n bundle.
// defaultLocale decides which language answers for locales with no file of
// their own.
func NewFallbackBundle(defaultLocale string) (*FallbackBundle, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, name := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			return nil, fmt.Errorf("load phrase file %s: %w", name, err)
		}

		raw, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		var flat map[string]string
		if err := json.Unmarshal(raw, &flat); err != nil {
			return nil, fmt.Errorf("decode phrase file %s: %w", name, err)
		}
		for key := range flat {
			seen[key] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &FallbackBundle{bundle: bundle, keys: keys}, nil
}

// Phrases localizes every embedded key for the given locale. Keys with no
// translation in any matching language are left out.
func (b *FallbackBundle) Phrases(locale string) Phrases {
	localizer := i18n.NewLocalizer(b.bundle, locale)

	out := make(Phrases, len(b.keys))
	for _, key := range b.keys {
		msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
		if err != nil {
			continue
		}
		out[key] = msg
	}

	return out
}
