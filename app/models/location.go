package models

// UnknownLocationName sentinel cho artist không resolve được
const UnknownLocationName = "Unknown"

// Area một administrative area từ MusicBrainz
type Area struct {
	ID        string         `json:"id"`                          // MBID của area
	Name      string         `json:"name"`                        // Tên area
	Type      string         `json:"type"`                        // Loại area (Country, Subdivision, City, ...)
	ISO31661  []string       `json:"iso-3166-1-codes,omitempty"`  // ISO 3166-1 country codes
	ISO31662  []string       `json:"iso-3166-2-codes,omitempty"`  // ISO 3166-2 subdivision codes
	Relations []AreaRelation `json:"relations,omitempty"`         // "part of" relationships
}

// AreaRelation một relationship giữa hai areas
type AreaRelation struct {
	Type      string `json:"type"`      // Loại relationship ("part of")
	Direction string `json:"direction"` // "backward" = parent area
	Area      *Area  `json:"area"`      // Area đích
}

// AreaContext country và subdivision bao quanh một area
type AreaContext struct {
	Country     string `json:"country"`               // Tên quốc gia (English)
	Subdivision string `json:"subdivision,omitempty"` // Tên subdivision nếu có
}

// ArtistCandidate một candidate từ MusicBrainz artist search
type ArtistCandidate struct {
	ID        string `json:"id"`                   // MBID
	Name      string `json:"name"`                 // Tên artist
	SortName  string `json:"sort-name"`            // Sort name ("Beatles, The")
	Score     int    `json:"score"`                // Search score 0-100
	BeginArea *Area  `json:"begin-area,omitempty"` // Nơi thành lập / sinh
	Area      *Area  `json:"area,omitempty"`       // Area chính (thường là country)

	// ExactMatch candidate khớp chính xác tên query nhưng không có area.
	// Orchestrator được phép thử relationship traversal nhưng không được
	// fall through sang encyclopedic sources (tránh famous homonyms).
	ExactMatch bool `json:"-"`
}

// HasArea kiểm tra candidate có ít nhất một area không
func (c *ArtistCandidate) HasArea() bool {
	return c.BeginArea != nil || c.Area != nil
}

// MatchKind phân loại kết quả MusicBrainz search
type MatchKind int

const (
	// MatchNoCandidates search không trả về candidate nào
	MatchNoCandidates MatchKind = iota
	// MatchAllRejected có candidates nhưng tất cả bị gate loại
	MatchAllRejected
	// MatchCandidate có một candidate vượt gate
	MatchCandidate
)

// SearchOutcome tagged result của MusicBrainz artist search
type SearchOutcome struct {
	Kind      MatchKind        `json:"kind"`
	Candidate *ArtistCandidate `json:"candidate,omitempty"`
}

// GeoResult kết quả geocode đã chuẩn hóa
type GeoResult struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"` // Đã normalize về "City, Country"
	AddressType string  `json:"address_type"` // city, town, state, country, ...
}

// Coords trả về [lat, lon] theo wire format
func (g *GeoResult) Coords() []float64 {
	return []float64{g.Lat, g.Lon}
}

// ResolvedLocation kết quả resolve cuối cùng, cũng là form lưu cache
type ResolvedLocation struct {
	LocationName  string    `json:"location_name"`  // Tên location hoặc "Unknown"
	LocationCoord []float64 `json:"location_coord"` // [lat, lon] hoặc null
}

// UnknownLocation tạo sentinel Unknown
func UnknownLocation() *ResolvedLocation {
	return &ResolvedLocation{LocationName: UnknownLocationName, LocationCoord: nil}
}

// IsUnknown kiểm tra có phải sentinel Unknown không
func (rl *ResolvedLocation) IsUnknown() bool {
	return rl.LocationName == UnknownLocationName
}

// HasCoords kiểm tra có tọa độ không
func (rl *ResolvedLocation) HasCoords() bool {
	return len(rl.LocationCoord) == 2
}

// IsServiceable entry phục vụ được từ cache: có tọa độ hoặc là Unknown sentinel
func (rl *ResolvedLocation) IsServiceable() bool {
	return rl.HasCoords() || rl.IsUnknown()
}

// IsPartial entry có tên nhưng thiếu tọa độ, đủ điều kiện retry
func (rl *ResolvedLocation) IsPartial() bool {
	return rl.LocationName != "" && !rl.IsUnknown() && !rl.HasCoords()
}

// ArtistLine một dòng NDJSON trả về client
type ArtistLine struct {
	Artist        string    `json:"artist"`         // Tên artist theo input
	LocationName  string    `json:"location_name"`  // Tên location hoặc "Unknown"
	LocationCoord []float64 `json:"location_coord"` // [lat, lon] hoặc null
}

// LineFor build ArtistLine từ một ResolvedLocation
func LineFor(artist string, rl *ResolvedLocation) *ArtistLine {
	return &ArtistLine{
		Artist:        artist,
		LocationName:  rl.LocationName,
		LocationCoord: rl.LocationCoord,
	}
}
