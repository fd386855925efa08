// Package dictionary loads translated UI phrases for a locale. Phrases live
// in the CMS and are fetched page by page over GraphQL; an embedded fallback
// bundle fills in keys the CMS does not define yet.
package dictionary

import (
	"context"
	"fmt"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

// Phrases maps dictionary keys to translated text for one locale.
type Phrases map[string]string

type Service interface {
	Fetch(ctx context.Context, locale string) (Phrases, error)
}

const dictionaryPageSize = 200

const dictionaryQuery = `
query PortalDictionary($site: String!, $language: String!, $first: Int!, $after: String) {
  dictionary(site: $site, language: $language, first: $first, after: $after) {
    results {
      key
      phrase
    }
    pageInfo {
      endCursor
      hasNext
    }
  }
}`

type dictionaryQueryVariables struct {
	Site     string `json:"site"`
	Language string `json:"language"`
	First    int    `json:"first"`
	After    string `json:"after,omitempty"`
}

type dictionaryQueryResponse struct {
	Dictionary struct {
		Results []struct {
			Key    string `json:"key"`
			Phrase string `json:"phrase"`
		} `json:"results"`
		PageInfo struct {
			EndCursor string `json:"endCursor"`
			HasNext   bool   `json:"hasNext"`
		} `json:"pageInfo"`
	} `json:"dictionary"`
}

// GraphQLService pulls the full phrase set for a locale, following the
// cursor until the upstream reports no further pages.
type GraphQLService struct {
	client   genqlientgraphql.Client
	site     string
	fallback *FallbackBundle
}

// NewGraphQLService builds a dictionary service on an existing GraphQL
// client. fallback may be nil when no embedded phrases are wanted.
func NewGraphQLService(client genqlientgraphql.Client, site string, fallback *FallbackBundle) *GraphQLService {
	return &GraphQLService{client: client, site: site, fallback: fallback}
}

func (s *GraphQLService) Fetch(ctx context.Context, locale string) (Phrases, error) {
	phrases := Phrases{}
	if s.fallback != nil {
		phrases = s.fallback.Phrases(locale)
	}

	after := ""
	for {
		request := &genqlientgraphql.Request{
			OpName: "PortalDictionary",
			Query:  dictionaryQuery,
			Variables: dictionaryQueryVariables{
				Site:     s.site,
				Language: locale,
				First:    dictionaryPageSize,
				After:    after,
			},
		}

		var data dictionaryQueryResponse
		if err := s.client.MakeRequest(ctx, request, &genqlientgraphql.Response{Data: &data}); err != nil {
			return nil, fmt.Errorf("dictionary fetch %q: %w", locale, err)
		}

		for _, result := range data.Dictionary.Results {
			if result.Key == "" {
				continue
			}
			phrases[result.Key] = result.Phrase
		}

		info := data.Dictionary.PageInfo
		if !info.HasNext || info.EndCursor == "" {
			return phrases, nil
		}
		after = info.EndCursor
	}
}
