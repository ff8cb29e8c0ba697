package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/artist-origin/internal/fetcher"
	"go.uber.org/zap"
)

// SPARQL query templates. English labels, limit 1: chúng ta chỉ cần
// một best guess, không disambiguation.
const (
	// personBirthplaceQuery birthplace (P19) hoặc origin (P740) của human (Q5)
	personBirthplaceQuery = `SELECT ?placeLabel WHERE {
  ?person wdt:P31 wd:Q5 ;
          rdfs:label "%s"@en .
  { ?person wdt:P19 ?place . } UNION { ?person wdt:P740 ?place . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT 1`

	// bandFormationQuery formation location (P740) của musical group (Q215380)
	bandFormationQuery = `SELECT ?placeLabel WHERE {
  ?band wdt:P31 wd:Q215380 ;
        rdfs:label "%s"@en ;
        wdt:P740 ?place .
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT 1`

	// subdivisionCapitalQuery capital (P36) của một named subdivision
	subdivisionCapitalQuery = `SELECT ?capitalLabel WHERE {
  ?subdivision rdfs:label "%s"@en ;
               wdt:P36 ?capital .
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
} LIMIT 1`
)

// Client Wikidata SPARQL endpoint client
type Client struct {
	endpoint string
	fetcher  *fetcher.Fetcher
	logger   *zap.Logger
}

// NewClient tạo mới Wikidata client
func NewClient(endpoint string, f *fetcher.Fetcher, logger *zap.Logger) *Client {
	return &Client{endpoint: endpoint, fetcher: f, logger: logger}
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// ArtistOrigin hỏi birthplace của person trước, formation location của
// band sau. Trả về plain place label, "" khi cả hai đều miss.
func (c *Client) ArtistOrigin(ctx context.Context, name string) (string, error) {
	place, err := c.queryLabel(ctx, fmt.Sprintf(personBirthplaceQuery, escapeLiteral(name)), "placeLabel")
	if err != nil {
		return "", err
	}
	if place != "" {
		return place, nil
	}
	return c.queryLabel(ctx, fmt.Sprintf(bandFormationQuery, escapeLiteral(name)), "placeLabel")
}

// SubdivisionCapital hỏi capital city của một subdivision theo tên.
// Dùng bởi capital-snap heuristic.
func (c *Client) SubdivisionCapital(ctx context.Context, subdivision string) (string, error) {
	return c.queryLabel(ctx, fmt.Sprintf(subdivisionCapitalQuery, escapeLiteral(subdivision)), "capitalLabel")
}

// queryLabel chạy một SPARQL query và lấy binding đầu tiên của variable
func (c *Client) queryLabel(ctx context.Context, query, variable string) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("format", "json")

	var resp sparqlResponse
	found, err := c.fetcher.GetJSON(ctx, c.endpoint+"?"+q.Encode(), &resp)
	if err != nil {
		return "", fmt.Errorf("sparql query: %w", err)
	}
	if !found || len(resp.Results.Bindings) == 0 {
		return "", nil
	}

	value := resp.Results.Bindings[0][variable].Value
	if value != "" {
		c.logger.Debug("SPARQL hit", zap.String("variable", variable), zap.String("value", value))
	}
	return value, nil
}

// escapeLiteral escape tên artist khi nội suy vào SPARQL string literal
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
