package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/artist-origin/internal/fetcher"
	"github.com/artist-origin/internal/textclean"
	"go.uber.org/zap"
)

// infoboxFields các field pattern theo thứ tự ưu tiên, field đầu match thắng.
// Value kết thúc ở newline hoặc một "|" khác.
var infoboxFields = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\|\s*origin\s*=\s*([^\n|]+)`),
	regexp.MustCompile(`(?i)\|\s*birth_place\s*=\s*([^\n|]+)`),
	regexp.MustCompile(`(?i)\|\s*birthplace\s*=\s*([^\n|]+)`),
}

// Client Wikipedia article scraper
type Client struct {
	apiURL  string
	fetcher *fetcher.Fetcher
	logger  *zap.Logger
}

// NewClient tạo mới Wikipedia client. apiURL trỏ vào w/api.php.
func NewClient(apiURL string, f *fetcher.Fetcher, logger *zap.Logger) *Client {
	return &Client{apiURL: apiURL, fetcher: f, logger: logger}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type parseResponse struct {
	Parse struct {
		Wikitext struct {
			Content string `json:"*"`
		} `json:"wikitext"`
	} `json:"parse"`
}

// FetchOrigin hai bước: search article index lấy title đầu tiên, rồi fetch
// section-0 wikitext của title đó và extract infobox origin/birth_place.
// Trả về "" khi search rỗng hoặc không field nào match.
func (c *Client) FetchOrigin(ctx context.Context, query string) (string, error) {
	title, err := c.searchTitle(ctx, query)
	if err != nil {
		return "", err
	}
	if title == "" {
		return "", nil
	}

	wikitext, err := c.fetchWikitext(ctx, title)
	if err != nil {
		return "", err
	}
	if wikitext == "" {
		return "", nil
	}

	for _, re := range infoboxFields {
		m := re.FindStringSubmatch(wikitext)
		if m == nil {
			continue
		}
		location := textclean.CleanWikipediaLocation(m[1])
		if location != "" {
			c.logger.Debug("Infobox location extracted",
				zap.String("query", query),
				zap.String("title", title),
				zap.String("location", location))
			return location, nil
		}
	}
	return "", nil
}

// searchTitle lấy title của hit đầu tiên trong article index
func (c *Client) searchTitle(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("srlimit", "1")
	q.Set("format", "json")

	var resp searchResponse
	found, err := c.fetcher.GetJSON(ctx, c.apiURL+"?"+q.Encode(), &resp)
	if err != nil {
		return "", fmt.Errorf("wikipedia search %q: %w", query, err)
	}
	if !found || len(resp.Query.Search) == 0 {
		return "", nil
	}
	return resp.Query.Search[0].Title, nil
}

// fetchWikitext lấy section-0 wikitext của một article
func (c *Client) fetchWikitext(ctx context.Context, title string) (string, error) {
	q := url.Values{}
	q.Set("action", "parse")
	q.Set("page", title)
	q.Set("prop", "wikitext")
	q.Set("section", "0")
	q.Set("format", "json")

	var resp parseResponse
	found, err := c.fetcher.GetJSON(ctx, c.apiURL+"?"+q.Encode(), &resp)
	if err != nil {
		return "", fmt.Errorf("wikipedia parse %q: %w", title, err)
	}
	if !found {
		return "", nil
	}
	return resp.Parse.Wikitext.Content, nil
}
