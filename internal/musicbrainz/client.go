package musicbrainz

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/artist-origin/app/models"
	"github.com/artist-origin/internal/fetcher"
	"github.com/artist-origin/internal/matcher"
	"github.com/artist-origin/internal/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	// isPersonRelTypeID relationship type nối performance name với người thật
	isPersonRelTypeID = "dd9886f2-1dfe-4270-97db-283f6839a666"

	// maxAreaDepth giới hạn đệ quy khi walk "part of" hierarchy.
	// Upstream không đảm bảo là DAG nên không được trust vòng lặp.
	maxAreaDepth = 5

	searchLimit = 5
)

// Client MusicBrainz web service client. Mọi request đi qua một rate
// limiter chung vì MusicBrainz document giới hạn 1 request/giây.
type Client struct {
	baseURL  string
	fetcher  *fetcher.Fetcher
	limiter  *ratelimit.Limiter
	minScore int
	logger   *zap.Logger
}

// NewClient tạo mới MusicBrainz client. pace là khoảng cách tối thiểu
// giữa hai request liên tiếp (mặc định 1.1s).
func NewClient(baseURL string, f *fetcher.Fetcher, pace time.Duration, minScore int, logger *zap.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		fetcher:  f,
		limiter:  ratelimit.NewInterval("musicbrainz", pace),
		minScore: minScore,
		logger:   logger,
	}
}

// searchResponse response của artist search endpoint
type searchResponse struct {
	Artists []models.ArtistCandidate `json:"artists"`
}

// SearchArtist search artist theo tên và áp gate lên từng candidate.
// Trả về tagged outcome: NoCandidates khi search rỗng, AllRejected khi
// có candidates nhưng không ai vượt gate, Candidate khi tìm được.
func (c *Client) SearchArtist(ctx context.Context, name string) (*models.SearchOutcome, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// Quoted phrase query để tránh match rời rạc từng từ
	q := url.Values{}
	q.Set("query", fmt.Sprintf("%q", name))
	q.Set("fmt", "json")
	q.Set("limit", fmt.Sprintf("%d", searchLimit))

	var resp searchResponse
	found, err := c.fetcher.GetJSON(ctx, c.baseURL+"/artist?"+q.Encode(), &resp)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz search %q: %w", name, err)
	}
	if !found || len(resp.Artists) == 0 {
		return &models.SearchOutcome{Kind: models.MatchNoCandidates}, nil
	}

	for i := range resp.Artists {
		cand := &resp.Artists[i]
		if cand.Score < c.minScore {
			continue
		}

		// Gate chạy trên sort-name, fallback sang name nếu thiếu
		gateName := cand.SortName
		if gateName == "" {
			gateName = cand.Name
		}
		if !matcher.VerifyArtistMatch(name, gateName) {
			c.logger.Debug("Candidate rejected by name gate",
				zap.String("query", name),
				zap.String("candidate", cand.Name),
				zap.Int("score", cand.Score))
			continue
		}

		if !cand.HasArea() && matcher.IsExactMatch(name, cand.Name) {
			cand.ExactMatch = true
		}

		c.logger.Debug("Candidate accepted",
			zap.String("query", name),
			zap.String("candidate", cand.Name),
			zap.String("mbid", cand.ID))
		return &models.SearchOutcome{Kind: models.MatchCandidate, Candidate: cand}, nil
	}

	// Có candidates nhưng tất cả bị loại: terminal cho encyclopedic
	// fallbacks, tránh surface famous homonyms.
	return &models.SearchOutcome{Kind: models.MatchAllRejected}, nil
}

// ResolveAreaContext walk "part of" hierarchy của một area để tìm
// country và subdivision bao quanh nó.
func (c *Client) ResolveAreaContext(ctx context.Context, areaID string) (*models.AreaContext, error) {
	return c.resolveAreaContext(ctx, areaID, 0)
}

func (c *Client) resolveAreaContext(ctx context.Context, areaID string, depth int) (*models.AreaContext, error) {
	if depth > maxAreaDepth {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var a models.Area
	found, err := c.fetcher.GetJSON(ctx, c.baseURL+"/area/"+url.PathEscape(areaID)+"?inc=area-rels&fmt=json", &a)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz area %s: %w", areaID, err)
	}
	if !found {
		return nil, nil
	}

	// Area tự mang country code: chính nó là country (hoặc subdivision
	// với ISO 3166-2)
	if code := countryCode(&a); code != "" {
		return &models.AreaContext{Country: countryNameFromCode(code)}, nil
	}

	parents := backwardParents(&a)
	for _, p := range parents {
		code := countryCode(p)
		if code == "" {
			continue
		}
		actx := &models.AreaContext{Country: countryNameFromCode(code)}
		if p.Type == "Subdivision" {
			actx.Subdivision = p.Name
		}
		return actx, nil
	}

	// Không parent nào mang code: đệ quy vào parent đầu tiên
	if len(parents) > 0 {
		return c.resolveAreaContext(ctx, parents[0].ID, depth+1)
	}
	return nil, nil
}

// relationsResponse response của artist lookup với artist-rels
type relationsResponse struct {
	Relations []struct {
		TypeID string `json:"type-id"`
		Artist *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"relations"`
}

// LocationViaRelationships theo link "is person" từ một performance name
// sang người thật và trả về artist record của người đó với area fields.
// Resolve được alias kiểu "Keli Holiday" -> "Adam Hyde".
func (c *Client) LocationViaRelationships(ctx context.Context, mbid string) (*models.ArtistCandidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var rels relationsResponse
	found, err := c.fetcher.GetJSON(ctx, c.baseURL+"/artist/"+url.PathEscape(mbid)+"?inc=artist-rels&fmt=json", &rels)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz relations %s: %w", mbid, err)
	}
	if !found {
		return nil, nil
	}

	for _, rel := range rels.Relations {
		if rel.TypeID != isPersonRelTypeID || rel.Artist == nil {
			continue
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		var person models.ArtistCandidate
		found, err := c.fetcher.GetJSON(ctx, c.baseURL+"/artist/"+url.PathEscape(rel.Artist.ID)+"?fmt=json", &person)
		if err != nil {
			return nil, fmt.Errorf("musicbrainz person %s: %w", rel.Artist.ID, err)
		}
		if !found {
			return nil, nil
		}

		c.logger.Debug("Followed is-person relationship",
			zap.String("from", mbid),
			zap.String("to", person.Name))
		return &person, nil
	}
	return nil, nil
}

// backwardParents lọc các backward "part of" relations
func backwardParents(a *models.Area) []*models.Area {
	var parents []*models.Area
	for _, rel := range a.Relations {
		if rel.Type == "part of" && rel.Direction == "backward" && rel.Area != nil {
			parents = append(parents, rel.Area)
		}
	}
	return parents
}

// countryCode lấy country code từ area: ISO 3166-1 trực tiếp, hoặc hai
// ký tự đầu của ISO 3166-2 làm last resort
func countryCode(a *models.Area) string {
	if len(a.ISO31661) > 0 {
		return a.ISO31661[0]
	}
	if len(a.ISO31662) > 0 && len(a.ISO31662[0]) >= 2 {
		return a.ISO31662[0][:2]
	}
	return ""
}

// countryNameFromCode đổi ISO code sang tên tiếng Anh qua CLDR display names
func countryNameFromCode(code string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return code
}
