package matcher

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// maxMissingRatio tỷ lệ token được phép vắng mặt với multi-word queries
const maxMissingRatio = 0.4

// normalize đưa tên về dạng so sánh: trim, fold accents, lowercase.
// "Beyoncé" và "Beyonce" phải so sánh bằng nhau.
func normalize(name string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(name)))
}

// IsExactMatch so sánh bằng nhau, bỏ qua hoa thường và accents
func IsExactMatch(query, candidate string) bool {
	return normalize(query) == normalize(candidate)
}

// VerifyArtistMatch gate quyết định candidate có khớp query không.
//
// Single-word query: strict, tương đương IsExactMatch, chặn famous
// homonyms kiểu "GREG" -> "Greg Brown".
//
// Multi-word query: lenient, tokenize query theo whitespace và đếm số
// token không xuất hiện trong candidate; một token được coi là "có mặt"
// nếu chính nó hoặc n-2 ký tự đầu của nó là substring (tolerant với
// plural/possessive). Chấp nhận khi missing/total <= 40%. Cho phép
// "The Beatles" -> "Beatles, The" nhưng chặn "Keli Holiday" -> "Billie Holiday".
func VerifyArtistMatch(query, candidate string) bool {
	q := normalize(query)
	c := normalize(candidate)

	tokens := strings.Fields(q)
	if len(tokens) <= 1 {
		return q == c
	}

	missing := 0
	for _, tok := range tokens {
		if !tokenPresent(tok, c) {
			missing++
		}
	}
	return float64(missing)/float64(len(tokens)) <= maxMissingRatio
}

// tokenPresent substring test với stem fallback bỏ 2 ký tự cuối
func tokenPresent(token, candidate string) bool {
	if strings.Contains(candidate, token) {
		return true
	}
	if len(token) > 2 && strings.Contains(candidate, token[:len(token)-2]) {
		return true
	}
	return false
}
