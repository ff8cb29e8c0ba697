package textclean

import (
	"regexp"
	"strings"
)

var (
	// [[target|display]] -> target. Giữ target thay vì display vì target
	// thường là tên location chuẩn ("Memphis, Tennessee" thay vì "Memphis").
	pipedLinkRe = regexp.MustCompile(`\[\[([^\]|]+)\|[^\]]*\]\]`)
	// [[target]] -> target
	plainLinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	// {{template|...}} bỏ hẳn
	templateRe = regexp.MustCompile(`\{\{[^}]*\}\}`)
	// HTML tags (<br/>, <ref>...) bỏ hẳn
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	// whitespace liên tiếp gộp thành một space
	spaceRe = regexp.MustCompile(`\s+`)
)

// CleanWikipediaLocation strip wikitext markup khỏi một infobox value
func CleanWikipediaLocation(raw string) string {
	s := pipedLinkRe.ReplaceAllString(raw, "$1")
	s = plainLinkRe.ReplaceAllString(s, "$1")
	s = templateRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeDisplayName rút display string của geocoder về "City, Country":
// giữ segment đầu và cuối, bỏ các tầng hành chính ở giữa.
func NormalizeDisplayName(displayName string) string {
	parts := strings.Split(displayName, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return parts[0]
	}
	return parts[0] + ", " + parts[len(parts)-1]
}
