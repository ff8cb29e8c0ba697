package area

import (
	"strings"

	"github.com/artist-origin/app/models"
)

// Specificity gán điểm cụ thể cho một area type.
// country=0, subdivision=1, county=2, city-level=3, type lạ=1, rỗng=-1.
func Specificity(areaType string) int {
	switch strings.ToLower(strings.TrimSpace(areaType)) {
	case "":
		return -1
	case "country":
		return 0
	case "subdivision":
		return 1
	case "county":
		return 2
	case "city", "municipality", "district", "town", "village", "island":
		return 3
	default:
		return 1
	}
}

// IsCityLevel type đủ cụ thể để geocode thẳng ra một populated place
func IsCityLevel(areaType string) bool {
	return Specificity(areaType) >= 3
}

// ChooseBestArea chọn area cụ thể hơn giữa begin-area và area.
// Hòa thì ưu tiên area: khi cả hai đều là country thì hai field
// thường giống hệt nhau với single-country acts.
func ChooseBestArea(begin, area *models.Area) *models.Area {
	if area == nil {
		return begin
	}
	if begin == nil {
		return area
	}
	if Specificity(area.Type) >= Specificity(begin.Type) {
		return area
	}
	return begin
}

// cityLevelAddressTypes các address type của geocoder được coi là city-level
var cityLevelAddressTypes = map[string]bool{
	"city":          true,
	"town":          true,
	"village":       true,
	"municipality":  true,
	"suburb":        true,
	"neighbourhood": true,
	"district":      true,
	"borough":       true,
	"locality":      true,
}

// IsCityLevelGeocode kiểm tra một geocode result có trỏ vào populated place không
func IsCityLevelGeocode(result *models.GeoResult) bool {
	if result == nil {
		return false
	}
	return cityLevelAddressTypes[strings.ToLower(result.AddressType)]
}
