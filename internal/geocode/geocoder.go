package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/artist-origin/app/models"
	"github.com/artist-origin/internal/fetcher"
	"github.com/artist-origin/internal/textclean"
	"go.uber.org/zap"
)

// Geocoder cascade hai provider: Nominatim trước, Photon sau, cuối cùng
// fallback sang country segment để luôn có một điểm trên globe.
type Geocoder struct {
	nominatimURL string
	photonURL    string
	fetcher      *fetcher.Fetcher
	logger       *zap.Logger
}

// NewGeocoder tạo mới geocoder cascade
func NewGeocoder(nominatimURL, photonURL string, f *fetcher.Fetcher, logger *zap.Logger) *Geocoder {
	return &Geocoder{
		nominatimURL: nominatimURL,
		photonURL:    photonURL,
		fetcher:      f,
		logger:       logger,
	}
}

// nominatimHit một hit của Nominatim. lat/lon là string trong JSON.
type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	AddressType string `json:"addresstype"`
	Type        string `json:"type"`
}

// photonResponse feature collection của Photon. Coordinates theo GeoJSON
// là [lon, lat], phải đảo lại.
type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Type string `json:"type"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolve một location string ra tọa độ. Thử full string qua cả
// hai provider; nếu miss và string có dấu phẩy thì retry với segment
// cuối (country). Trả về nil khi tất cả đều miss.
func (g *Geocoder) Geocode(ctx context.Context, location string) (*models.GeoResult, error) {
	result, err := g.tryProviders(ctx, location)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}

	if idx := strings.LastIndex(location, ","); idx >= 0 {
		country := strings.TrimSpace(location[idx+1:])
		if country != "" {
			g.logger.Debug("Falling back to country segment",
				zap.String("location", location),
				zap.String("country", country))
			return g.tryProviders(ctx, country)
		}
	}
	return nil, nil
}

// tryProviders Nominatim trước, Photon sau
func (g *Geocoder) tryProviders(ctx context.Context, query string) (*models.GeoResult, error) {
	result, err := g.nominatim(ctx, query)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	return g.photon(ctx, query)
}

func (g *Geocoder) nominatim(ctx context.Context, query string) (*models.GeoResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")

	var hits []nominatimHit
	found, err := g.fetcher.GetJSON(ctx, g.nominatimURL+"/search?"+q.Encode(), &hits)
	if err != nil {
		return nil, fmt.Errorf("nominatim %q: %w", query, err)
	}
	if !found || len(hits) == 0 {
		return nil, nil
	}

	hit := hits[0]
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim lat %q: %w", hit.Lat, err)
	}
	lon, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim lon %q: %w", hit.Lon, err)
	}

	addressType := hit.AddressType
	if addressType == "" {
		addressType = hit.Type
	}

	return &models.GeoResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: textclean.NormalizeDisplayName(hit.DisplayName),
		AddressType: addressType,
	}, nil
}

func (g *Geocoder) photon(ctx context.Context, query string) (*models.GeoResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")

	var resp photonResponse
	found, err := g.fetcher.GetJSON(ctx, g.photonURL+"/api?"+q.Encode(), &resp)
	if err != nil {
		return nil, fmt.Errorf("photon %q: %w", query, err)
	}
	if !found || len(resp.Features) == 0 {
		return nil, nil
	}

	coords := resp.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return nil, nil
	}

	// Photon không trả display string: dùng lại query làm display name
	return &models.GeoResult{
		Lat:         coords[1],
		Lon:         coords[0],
		DisplayName: query,
		AddressType: resp.Features[0].Properties.Type,
	}, nil
}
