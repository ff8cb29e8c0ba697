package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artist-origin/internal/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger, _ := zap.NewDevelopment()
	return NewClient(srv.URL, fetcher.New("artist-origin-test/1.0", 0, logger), logger)
}

// wikiHandler giả lập hai endpoint search + parse của MediaWiki API
func wikiHandler(title, wikitext string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "query":
			if title == "" {
				fmt.Fprint(w, `{"query":{"search":[]}}`)
				return
			}
			fmt.Fprintf(w, `{"query":{"search":[{"title":%q}]}}`, title)
		case "parse":
			resp := map[string]interface{}{
				"parse": map[string]interface{}{
					"wikitext": map[string]string{"*": wikitext},
				},
			}
			json.NewEncoder(w).Encode(resp)
		}
	})
}

func TestFetchOrigin_OriginField(t *testing.T) {
	client := newTestClient(t, wikiHandler("Tame Impala",
		"{{Infobox musical artist\n| name = Tame Impala\n| origin = [[Perth]], Western Australia, Australia\n| genre = rock\n}}"))

	location, err := client.FetchOrigin(context.Background(), "Tame Impala band")
	require.NoError(t, err)
	assert.Equal(t, "Perth, Western Australia, Australia", location)
}

func TestFetchOrigin_BirthPlaceField(t *testing.T) {
	client := newTestClient(t, wikiHandler("Some Musician",
		"{{Infobox person\n| birth_place = [[Gothenburg]], Sweden\n}}"))

	location, err := client.FetchOrigin(context.Background(), "Some Musician")
	require.NoError(t, err)
	assert.Equal(t, "Gothenburg, Sweden", location)
}

// TestFetchOrigin_FieldOrder origin thắng birth_place khi cả hai có mặt
func TestFetchOrigin_FieldOrder(t *testing.T) {
	client := newTestClient(t, wikiHandler("Band",
		"| birth_place = [[Stockholm]], Sweden\n| origin = [[Oslo]], Norway\n"))

	location, err := client.FetchOrigin(context.Background(), "Band")
	require.NoError(t, err)
	assert.Equal(t, "Oslo, Norway", location)
}

func TestFetchOrigin_EmptySearch(t *testing.T) {
	client := newTestClient(t, wikiHandler("", ""))

	location, err := client.FetchOrigin(context.Background(), "Completely Unknown Artist XYZ123")
	require.NoError(t, err)
	assert.Empty(t, location)
}

func TestFetchOrigin_NoInfoboxField(t *testing.T) {
	client := newTestClient(t, wikiHandler("Article", "Some article without an infobox."))

	location, err := client.FetchOrigin(context.Background(), "Article")
	require.NoError(t, err)
	assert.Empty(t, location)
}
