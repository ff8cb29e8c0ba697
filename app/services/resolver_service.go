package services

import (
	"context"
	"strings"
	"time"

	"github.com/artist-origin/app/models"
	"github.com/artist-origin/internal/area"
	"go.uber.org/zap"
)

// MetadataClient music metadata service (MusicBrainz)
type MetadataClient interface {
	SearchArtist(ctx context.Context, name string) (*models.SearchOutcome, error)
	ResolveAreaContext(ctx context.Context, areaID string) (*models.AreaContext, error)
	LocationViaRelationships(ctx context.Context, mbid string) (*models.ArtistCandidate, error)
}

// KnowledgeClient SPARQL endpoint (Wikidata)
type KnowledgeClient interface {
	ArtistOrigin(ctx context.Context, name string) (string, error)
	SubdivisionCapital(ctx context.Context, subdivision string) (string, error)
}

// ArticleClient encyclopedia scraper (Wikipedia infobox)
type ArticleClient interface {
	FetchOrigin(ctx context.Context, query string) (string, error)
}

// GeocodeClient geocoder cascade (Nominatim + Photon)
type GeocodeClient interface {
	Geocode(ctx context.Context, location string) (*models.GeoResult, error)
}

// ResolverOptions các knob hand-tuned của resolver
type ResolverOptions struct {
	// InterResolveDelay nghỉ giữa hai resolve liên tiếp trong một batch
	// để dàn tải lên các upstream
	InterResolveDelay time.Duration
	// BatchLimit số artist tối đa trong một batch request
	BatchLimit int
}

// ResolverService orchestrator của fallback chain: MusicBrainz ->
// relationship traversal -> Wikidata SPARQL -> Wikipedia infobox ->
// capital snap -> geocoder cascade. Cache là optional capability:
// nil cache nghĩa là mọi request resolve đầy đủ.
type ResolverService struct {
	metadata  MetadataClient
	knowledge KnowledgeClient
	article   ArticleClient
	geocoder  GeocodeClient
	cache     ICacheService
	opts      ResolverOptions
	logger    *zap.Logger
}

// NewResolverService tạo mới ResolverService. cache có thể nil.
func NewResolverService(
	metadata MetadataClient,
	knowledge KnowledgeClient,
	article ArticleClient,
	geocoder GeocodeClient,
	cache ICacheService,
	opts ResolverOptions,
	logger *zap.Logger,
) *ResolverService {
	return &ResolverService{
		metadata:  metadata,
		knowledge: knowledge,
		article:   article,
		geocoder:  geocoder,
		cache:     cache,
		opts:      opts,
		logger:    logger,
	}
}

// ResolveArtist chạy toàn bộ fallback chain cho một artist. Trong một
// request mọi bước là tuần tự: rate limit của upstream chi phối
// throughput nên fan-out song song chỉ gây thêm retry.
func (rs *ResolverService) ResolveArtist(ctx context.Context, name string) (*models.ResolvedLocation, error) {
	outcome, err := rs.metadata.SearchArtist(ctx, name)
	if err != nil {
		return nil, err
	}

	// Có candidates nhưng tất cả bị gate loại: terminal. Trust
	// encyclopedic fallbacks ở đây hay surface famous homonyms.
	if outcome.Kind == models.MatchAllRejected {
		rs.logger.Debug("All candidates rejected", zap.String("artist", name))
		return models.UnknownLocation(), nil
	}

	var cand *models.ArtistCandidate
	if outcome.Kind == models.MatchCandidate {
		cand = outcome.Candidate
	}

	var best *models.Area
	if cand != nil {
		best = area.ChooseBestArea(cand.BeginArea, cand.Area)
	}

	// Area đã ở city-level: geocode thẳng
	if best != nil && area.IsCityLevel(best.Type) {
		return rs.geocodeMusicBrainzResult(ctx, best)
	}

	// Relationship traversal: performance name -> người thật
	if cand != nil {
		person, err := rs.metadata.LocationViaRelationships(ctx, cand.ID)
		if err != nil {
			return nil, err
		}
		if person != nil {
			if pbest := area.ChooseBestArea(person.BeginArea, person.Area); pbest != nil && area.IsCityLevel(pbest.Type) {
				rs.logger.Debug("Resolved via is-person relationship",
					zap.String("artist", name),
					zap.String("person", person.Name))
				return rs.geocodeMusicBrainzResult(ctx, pbest)
			}
		}
	}

	// Exact match không có area: dừng ở Unknown, không hỏi encyclopedic
	// sources vì dễ đụng người khác trùng tên.
	if cand != nil && cand.ExactMatch && !cand.HasArea() {
		rs.logger.Debug("Exact match without area, terminal Unknown", zap.String("artist", name))
		return models.UnknownLocation(), nil
	}

	// Wikidata SPARQL: person birthplace rồi band formation
	place, err := rs.knowledge.ArtistOrigin(ctx, name)
	if err != nil {
		return nil, err
	}
	if place != "" {
		return rs.geocodeLocation(ctx, place), nil
	}

	// Wikipedia infobox với ba query từ hẹp đến rộng
	for _, query := range []string{name + " musician", name + " band", name} {
		location, err := rs.article.FetchOrigin(ctx, query)
		if err != nil {
			return nil, err
		}
		if location != "" {
			return rs.geocodeWikipediaLocation(ctx, location)
		}
	}

	// Còn area ở bất kỳ level nào thì vẫn dùng được
	if best != nil {
		return rs.geocodeMusicBrainzResult(ctx, best)
	}

	return models.UnknownLocation(), nil
}

// geocodeMusicBrainzResult geocode một MusicBrainz area với country và
// subdivision context. Subdivision được snap về capital trước, tránh
// thả marker vào tâm địa lý của những bang khổng lồ kiểu Western Australia.
func (rs *ResolverService) geocodeMusicBrainzResult(ctx context.Context, a *models.Area) (*models.ResolvedLocation, error) {
	actx, err := rs.metadata.ResolveAreaContext(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	country, subdivision := "", ""
	if actx != nil {
		country = actx.Country
		subdivision = actx.Subdivision
	}

	if a.Type == "Subdivision" {
		capital, err := rs.knowledge.SubdivisionCapital(ctx, a.Name)
		if err != nil {
			return nil, err
		}
		if capital != "" {
			query := capital
			if country != "" {
				query = capital + ", " + country
			}
			rs.logger.Debug("Capital snap for subdivision",
				zap.String("subdivision", a.Name),
				zap.String("capital", capital))
			if geo, err := rs.geocoder.Geocode(ctx, query); err != nil {
				return nil, err
			} else if geo != nil {
				return fromGeoResult(geo), nil
			}
		}
	}

	// Thử từ context đầy đủ nhất xuống trần area name
	var queries []string
	if subdivision != "" && country != "" {
		queries = append(queries, a.Name+", "+subdivision+", "+country)
	}
	if subdivision != "" {
		queries = append(queries, a.Name+", "+subdivision)
	}
	if country != "" {
		queries = append(queries, a.Name+", "+country)
	}
	queries = append(queries, a.Name)

	for _, query := range queries {
		geo, err := rs.geocoder.Geocode(ctx, query)
		if err != nil {
			return nil, err
		}
		if geo != nil {
			return fromGeoResult(geo), nil
		}
	}

	// Partial entry: có tên nhưng không có tọa độ, lần đọc sau sẽ retry
	return &models.ResolvedLocation{LocationName: a.Name}, nil
}

// geocodeWikipediaLocation geocode một location string từ infobox.
// Kết quả không ở city-level thì capital-snap: lấy segment đầu làm
// putative subdivision, hỏi SPARQL capital của nó và geocode lại.
func (rs *ResolverService) geocodeWikipediaLocation(ctx context.Context, location string) (*models.ResolvedLocation, error) {
	geo, err := rs.geocoder.Geocode(ctx, location)
	if err != nil {
		return nil, err
	}
	if geo != nil && area.IsCityLevelGeocode(geo) {
		return fromGeoResult(geo), nil
	}

	first := strings.TrimSpace(strings.Split(location, ",")[0])
	if first != "" {
		capital, err := rs.knowledge.SubdivisionCapital(ctx, first)
		if err != nil {
			return nil, err
		}
		if capital != "" {
			snapped, err := rs.geocoder.Geocode(ctx, capital+", "+location)
			if err != nil {
				return nil, err
			}
			if snapped != nil {
				rs.logger.Debug("Capital snap applied",
					zap.String("location", location),
					zap.String("capital", capital))
				return fromGeoResult(snapped), nil
			}
		}
	}

	if geo != nil {
		return fromGeoResult(geo), nil
	}
	return &models.ResolvedLocation{LocationName: location}, nil
}

// geocodeLocation geocode một place label; miss thì giữ raw string làm
// partial entry
func (rs *ResolverService) geocodeLocation(ctx context.Context, location string) *models.ResolvedLocation {
	geo, err := rs.geocoder.Geocode(ctx, location)
	if err != nil || geo == nil {
		if err != nil {
			rs.logger.Warn("Geocode failed", zap.Error(err), zap.String("location", location))
		}
		return &models.ResolvedLocation{LocationName: location}
	}
	return fromGeoResult(geo)
}

// ResolveBatch stream kết quả cho một batch: flush mọi cached result
// trước, rồi resolve tuần tự các name chưa cache theo input order.
// Partial entries được coi là miss ở đây và re-resolve đầy đủ.
// Channel đóng khi xong hoặc khi một resolve lỗi; các dòng đã emit
// vẫn hợp lệ.
func (rs *ResolverService) ResolveBatch(ctx context.Context, artists []string) <-chan *models.ArtistLine {
	out := make(chan *models.ArtistLine)

	go func() {
		defer close(out)

		if len(artists) > rs.opts.BatchLimit {
			artists = artists[:rs.opts.BatchLimit]
		}

		var misses []string
		for _, name := range artists {
			entry := rs.cachedServiceable(ctx, name)
			if entry == nil {
				misses = append(misses, name)
				continue
			}
			if !rs.send(ctx, out, models.LineFor(name, entry)) {
				return
			}
		}

		for i, name := range misses {
			if i > 0 && !rs.pause(ctx) {
				return
			}

			result, err := rs.ResolveArtist(ctx, name)
			if err != nil {
				rs.logger.Error("Resolve failed, closing stream",
					zap.Error(err),
					zap.String("artist", name))
				return
			}

			rs.writeBack(ctx, name, result)

			if !rs.send(ctx, out, models.LineFor(name, result)) {
				return
			}
		}
	}()

	return out
}

// ResolveSingle đường đọc một artist với partial-entry retry: hit
// partial thì re-geocode location_name đã lưu, thành công thì cập nhật
// cả tên lẫn tọa độ và persist.
func (rs *ResolverService) ResolveSingle(ctx context.Context, name string) (*models.ResolvedLocation, bool, error) {
	if rs.cache != nil {
		entry, found, err := rs.cache.Get(ctx, name)
		if err != nil {
			rs.logger.Warn("Cache read failed", zap.Error(err), zap.String("artist", name))
		} else if found {
			if entry.IsServiceable() {
				return entry, true, nil
			}
			if entry.IsPartial() {
				geo, err := rs.geocoder.Geocode(ctx, entry.LocationName)
				if err == nil && geo != nil {
					updated := fromGeoResult(geo)
					rs.writeBack(ctx, name, updated)
					rs.logger.Debug("Partial entry upgraded",
						zap.String("artist", name),
						zap.String("location", updated.LocationName))
					return updated, true, nil
				}
				return entry, true, nil
			}
		}
	}

	result, err := rs.ResolveArtist(ctx, name)
	if err != nil {
		return nil, false, err
	}
	rs.writeBack(ctx, name, result)
	return result, false, nil
}

// cachedServiceable trả về entry nếu phục vụ được từ cache, nil nếu
// miss. Cache read error bị degrade thành miss.
func (rs *ResolverService) cachedServiceable(ctx context.Context, name string) *models.ResolvedLocation {
	if rs.cache == nil {
		return nil
	}
	entry, found, err := rs.cache.Get(ctx, name)
	if err != nil {
		rs.logger.Warn("Cache read failed", zap.Error(err), zap.String("artist", name))
		return nil
	}
	if !found || !entry.IsServiceable() {
		return nil
	}
	return entry
}

// writeBack ghi kết quả vào cache; lỗi chỉ log, không ảnh hưởng response
func (rs *ResolverService) writeBack(ctx context.Context, name string, result *models.ResolvedLocation) {
	if rs.cache == nil {
		return
	}
	if err := rs.cache.Set(ctx, name, result); err != nil {
		rs.logger.Warn("Cache write failed", zap.Error(err), zap.String("artist", name))
	}
}

// send emit một dòng, abort khi client disconnect
func (rs *ResolverService) send(ctx context.Context, out chan<- *models.ArtistLine, line *models.ArtistLine) bool {
	select {
	case out <- line:
		return true
	case <-ctx.Done():
		return false
	}
}

// pause nghỉ giữa hai resolve liên tiếp
func (rs *ResolverService) pause(ctx context.Context) bool {
	select {
	case <-time.After(rs.opts.InterResolveDelay):
		return true
	case <-ctx.Done():
		return false
	}
}

// fromGeoResult build ResolvedLocation từ một geocode hit
func fromGeoResult(geo *models.GeoResult) *models.ResolvedLocation {
	return &models.ResolvedLocation{
		LocationName:  geo.DisplayName,
		LocationCoord: geo.Coords(),
	}
}
