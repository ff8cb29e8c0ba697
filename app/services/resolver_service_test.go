package services

import (
	"context"
	"testing"
	"time"

	"github.com/artist-origin/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// === Fakes ===

type fakeMetadata struct {
	outcome  *models.SearchOutcome
	person   *models.ArtistCandidate
	contexts map[string]*models.AreaContext
	relCalls int
}

func (f *fakeMetadata) SearchArtist(ctx context.Context, name string) (*models.SearchOutcome, error) {
	return f.outcome, nil
}

func (f *fakeMetadata) ResolveAreaContext(ctx context.Context, areaID string) (*models.AreaContext, error) {
	return f.contexts[areaID], nil
}

func (f *fakeMetadata) LocationViaRelationships(ctx context.Context, mbid string) (*models.ArtistCandidate, error) {
	f.relCalls++
	return f.person, nil
}

type fakeKnowledge struct {
	origin      string
	capitals    map[string]string
	originCalls int
}

func (f *fakeKnowledge) ArtistOrigin(ctx context.Context, name string) (string, error) {
	f.originCalls++
	return f.origin, nil
}

func (f *fakeKnowledge) SubdivisionCapital(ctx context.Context, subdivision string) (string, error) {
	return f.capitals[subdivision], nil
}

type fakeArticle struct {
	origins map[string]string
	queries []string
}

func (f *fakeArticle) FetchOrigin(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.origins[query], nil
}

type fakeGeocoder struct {
	results map[string]*models.GeoResult
	queries []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, location string) (*models.GeoResult, error) {
	f.queries = append(f.queries, location)
	return f.results[location], nil
}

func candidateOutcome(c *models.ArtistCandidate) *models.SearchOutcome {
	return &models.SearchOutcome{Kind: models.MatchCandidate, Candidate: c}
}

func newTestResolver(md MetadataClient, kn KnowledgeClient, art ArticleClient, geo GeocodeClient, cache ICacheService) *ResolverService {
	return NewResolverService(md, kn, art, geo, cache, ResolverOptions{
		InterResolveDelay: time.Millisecond,
		BatchLimit:        50,
	}, zap.NewNop())
}

func emptyFakes() (*fakeKnowledge, *fakeArticle, *fakeGeocoder) {
	return &fakeKnowledge{capitals: map[string]string{}},
		&fakeArticle{origins: map[string]string{}},
		&fakeGeocoder{results: map[string]*models.GeoResult{}}
}

// === Pipeline scenarios ===

// Candidate có begin-area city-level: geocode thẳng với country context
func TestResolveArtist_CityLevelBeginArea(t *testing.T) {
	md := &fakeMetadata{
		outcome: candidateOutcome(&models.ArtistCandidate{
			ID: "mbid-taylor", Name: "Taylor Swift", SortName: "Swift, Taylor", Score: 100,
			BeginArea: &models.Area{ID: "wr", Name: "West Reading", Type: "City"},
			Area:      &models.Area{ID: "us", Name: "United States", Type: "Country"},
		}),
		contexts: map[string]*models.AreaContext{"wr": {Country: "United States"}},
	}
	kn, art, geo := emptyFakes()
	geo.results["West Reading, United States"] = &models.GeoResult{
		Lat: 40.3354, Lon: -75.9263,
		DisplayName: "West Reading, United States", AddressType: "city",
	}

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "Taylor Swift")
	require.NoError(t, err)

	assert.Equal(t, "West Reading, United States", result.LocationName)
	assert.Equal(t, []float64{40.3354, -75.9263}, result.LocationCoord)
	assert.Zero(t, md.relCalls, "city-level area không cần relationship traversal")
	assert.Zero(t, kn.originCalls)
}

// Search rỗng và mọi fallback miss: Unknown sentinel
func TestResolveArtist_TotalMiss(t *testing.T) {
	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "Completely Unknown Artist XYZ123")
	require.NoError(t, err)

	assert.True(t, result.IsUnknown())
	assert.Nil(t, result.LocationCoord)
	// Ba query Wikipedia từ hẹp đến rộng
	assert.Equal(t, []string{
		"Completely Unknown Artist XYZ123 musician",
		"Completely Unknown Artist XYZ123 band",
		"Completely Unknown Artist XYZ123",
	}, art.queries)
}

// Area ở mức Subdivision: capital snap trước khi geocode
func TestResolveArtist_SubdivisionCapitalSnap(t *testing.T) {
	md := &fakeMetadata{
		outcome: candidateOutcome(&models.ArtistCandidate{
			ID: "mbid-tame", Name: "Tame Impala", SortName: "Tame Impala", Score: 100,
			Area: &models.Area{ID: "wa", Name: "Western Australia", Type: "Subdivision"},
		}),
		contexts: map[string]*models.AreaContext{"wa": {Country: "Australia"}},
	}
	kn, art, geo := emptyFakes()
	kn.capitals["Western Australia"] = "Perth"
	geo.results["Perth, Australia"] = &models.GeoResult{
		Lat: -31.9523, Lon: 115.8613,
		DisplayName: "Perth, Australia", AddressType: "city",
	}

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "Tame Impala")
	require.NoError(t, err)

	require.True(t, result.HasCoords())
	lat, lon := result.LocationCoord[0], result.LocationCoord[1]
	assert.Greater(t, lat, -35.0)
	assert.Less(t, lat, -30.0)
	assert.Greater(t, lon, 110.0)
	assert.Less(t, lon, 120.0)
}

// Performance name không có area: theo link is-person sang người thật
func TestResolveArtist_ViaRelationships(t *testing.T) {
	md := &fakeMetadata{
		outcome: candidateOutcome(&models.ArtistCandidate{
			ID: "mbid-keli", Name: "Keli Holiday", SortName: "Holiday, Keli",
			Score: 100, ExactMatch: true,
		}),
		person: &models.ArtistCandidate{
			ID: "mbid-adam", Name: "Adam Hyde",
			BeginArea: &models.Area{ID: "cbr", Name: "Canberra", Type: "City"},
			Area:      &models.Area{ID: "au", Name: "Australia", Type: "Country"},
		},
		contexts: map[string]*models.AreaContext{"cbr": {Country: "Australia"}},
	}
	kn, art, geo := emptyFakes()
	geo.results["Canberra, Australia"] = &models.GeoResult{
		Lat: -35.2931, Lon: 149.1287,
		DisplayName: "Canberra, Australia", AddressType: "city",
	}

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "Keli Holiday")
	require.NoError(t, err)

	assert.Contains(t, result.LocationName, "Canberra")
	assert.Equal(t, 1, md.relCalls)
}

// Mọi candidate bị gate loại: sticky Unknown, không hỏi encyclopedic
// sources dù chúng có dữ liệu
func TestResolveArtist_AllRejectedIsSticky(t *testing.T) {
	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchAllRejected}}
	kn, art, geo := emptyFakes()
	kn.origin = "Iowa City" // sẵn có nhưng không được dùng

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "GREG")
	require.NoError(t, err)

	assert.True(t, result.IsUnknown())
	assert.Zero(t, kn.originCalls)
	assert.Empty(t, art.queries)
}

// Exact match không có area và không có is-person link: terminal Unknown
func TestResolveArtist_ExactMatchNoAreaTerminal(t *testing.T) {
	md := &fakeMetadata{
		outcome: candidateOutcome(&models.ArtistCandidate{
			ID: "mbid-x", Name: "Somename", SortName: "Somename",
			Score: 100, ExactMatch: true,
		}),
	}
	kn, art, geo := emptyFakes()
	kn.origin = "Springfield"

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "Somename")
	require.NoError(t, err)

	assert.True(t, result.IsUnknown())
	assert.Zero(t, kn.originCalls)
}

// SPARQL hit: geocode label và trả về
func TestResolveArtist_SparqlHit(t *testing.T) {
	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()
	kn.origin = "Liverpool"
	geo.results["Liverpool"] = &models.GeoResult{
		Lat: 53.4084, Lon: -2.9916,
		DisplayName: "Liverpool, United Kingdom", AddressType: "city",
	}

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "The Beatles")
	require.NoError(t, err)

	assert.Equal(t, "Liverpool, United Kingdom", result.LocationName)
	assert.Empty(t, art.queries, "SPARQL hit thì không scrape Wikipedia")
}

// Wikipedia trả về region thay vì city: capital snap qua segment đầu
func TestResolveArtist_WikipediaCapitalSnap(t *testing.T) {
	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()
	art.origins["Obscure Act musician"] = "Connacht, Ireland"
	kn.capitals["Connacht"] = "Galway"
	geo.results["Connacht, Ireland"] = &models.GeoResult{
		Lat: 53.5, Lon: -9.0,
		DisplayName: "Connacht, Ireland", AddressType: "state",
	}
	geo.results["Galway, Connacht, Ireland"] = &models.GeoResult{
		Lat: 53.2707, Lon: -9.0568,
		DisplayName: "Galway, Ireland", AddressType: "city",
	}

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "Obscure Act")
	require.NoError(t, err)

	assert.Equal(t, "Galway, Ireland", result.LocationName)
}

// Geocode miss toàn bộ: partial entry với raw string, không Unknown
func TestResolveArtist_PartialWhenGeocodeMisses(t *testing.T) {
	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()
	kn.origin = "Ruritania"

	rs := newTestResolver(md, kn, art, geo, nil)
	result, err := rs.ResolveArtist(context.Background(), "Fictional Band")
	require.NoError(t, err)

	assert.Equal(t, "Ruritania", result.LocationName)
	assert.Nil(t, result.LocationCoord)
	assert.True(t, result.IsPartial())
}

// Idempotence: hai lần resolve cùng name cho cùng kết quả
func TestResolveArtist_Idempotent(t *testing.T) {
	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()

	rs := newTestResolver(md, kn, art, geo, nil)
	first, err := rs.ResolveArtist(context.Background(), "Twice Resolved")
	require.NoError(t, err)
	second, err := rs.ResolveArtist(context.Background(), "Twice Resolved")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// === Batch streaming ===

func TestResolveBatch_CachedFirstThenInputOrder(t *testing.T) {
	cache := NewLRUCacheService(100, time.Hour, zap.NewNop())
	cached := &models.ResolvedLocation{
		LocationName:  "Berlin, Germany",
		LocationCoord: []float64{52.52, 13.405},
	}
	require.NoError(t, cache.Set(context.Background(), "Cached Band", cached))

	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()

	rs := newTestResolver(md, kn, art, geo, cache)
	var lines []*models.ArtistLine
	for line := range rs.ResolveBatch(context.Background(), []string{"Fresh Band", "Cached Band"}) {
		lines = append(lines, line)
	}

	require.Len(t, lines, 2)
	// Cached result emit trước dù đứng sau trong input
	assert.Equal(t, "Cached Band", lines[0].Artist)
	assert.Equal(t, "Berlin, Germany", lines[0].LocationName)
	assert.Equal(t, "Fresh Band", lines[1].Artist)
	assert.Equal(t, models.UnknownLocationName, lines[1].LocationName)

	// Kết quả mới phải được write back
	entry, found, err := cache.Get(context.Background(), "Fresh Band")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, entry.IsUnknown())
}

// Partial entry trong batch được coi là miss và re-resolve đầy đủ
func TestResolveBatch_PartialEntryIsMiss(t *testing.T) {
	cache := NewLRUCacheService(100, time.Hour, zap.NewNop())
	require.NoError(t, cache.Set(context.Background(), "半 Resolved",
		&models.ResolvedLocation{LocationName: "Ruritania"}))

	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()
	kn.origin = "Oslo"
	geo.results["Oslo"] = &models.GeoResult{
		Lat: 59.9139, Lon: 10.7522,
		DisplayName: "Oslo, Norway", AddressType: "city",
	}

	rs := newTestResolver(md, kn, art, geo, cache)
	var lines []*models.ArtistLine
	for line := range rs.ResolveBatch(context.Background(), []string{"半 Resolved"}) {
		lines = append(lines, line)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "Oslo, Norway", lines[0].LocationName)
	assert.Equal(t, []float64{59.9139, 10.7522}, lines[0].LocationCoord)
}

func TestResolveBatch_TruncatesToLimit(t *testing.T) {
	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()

	rs := NewResolverService(md, kn, art, geo, nil, ResolverOptions{
		InterResolveDelay: time.Millisecond,
		BatchLimit:        2,
	}, zap.NewNop())

	var count int
	for range rs.ResolveBatch(context.Background(), []string{"A", "B", "C"}) {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestResolveBatch_CacheLess(t *testing.T) {
	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()

	rs := newTestResolver(md, kn, art, geo, nil)
	var lines []*models.ArtistLine
	for line := range rs.ResolveBatch(context.Background(), []string{"A"}) {
		lines = append(lines, line)
	}
	require.Len(t, lines, 1)
	assert.True(t, lines[0].LocationCoord == nil)
}

// === Single-artist path với partial retry ===

func TestResolveSingle_PartialEntryUpgraded(t *testing.T) {
	cache := NewLRUCacheService(100, time.Hour, zap.NewNop())
	require.NoError(t, cache.Set(context.Background(), "Foo Band",
		&models.ResolvedLocation{LocationName: "Tbilisi"}))

	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()
	geo.results["Tbilisi"] = &models.GeoResult{
		Lat: 41.7151, Lon: 44.8271,
		DisplayName: "Tbilisi, Georgia", AddressType: "city",
	}

	rs := newTestResolver(md, kn, art, geo, cache)
	result, cacheHit, err := rs.ResolveSingle(context.Background(), "Foo Band")
	require.NoError(t, err)

	assert.True(t, cacheHit)
	assert.Equal(t, "Tbilisi, Georgia", result.LocationName)
	assert.Equal(t, []float64{41.7151, 44.8271}, result.LocationCoord)

	// Bản upgrade phải được persist
	entry, found, err := cache.Get(context.Background(), "Foo Band")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, entry.HasCoords())

	// Geocode chỉ chạy trên stored name, không re-run cả pipeline
	assert.Equal(t, []string{"Tbilisi"}, geo.queries)
}

func TestResolveSingle_ServiceableHitReturnsCached(t *testing.T) {
	cache := NewLRUCacheService(100, time.Hour, zap.NewNop())
	cached := models.UnknownLocation()
	require.NoError(t, cache.Set(context.Background(), "Void", cached))

	md := &fakeMetadata{outcome: &models.SearchOutcome{Kind: models.MatchNoCandidates}}
	kn, art, geo := emptyFakes()

	rs := newTestResolver(md, kn, art, geo, cache)
	result, cacheHit, err := rs.ResolveSingle(context.Background(), "Void")
	require.NoError(t, err)

	assert.True(t, cacheHit)
	assert.True(t, result.IsUnknown())
	assert.Empty(t, geo.queries)
}
