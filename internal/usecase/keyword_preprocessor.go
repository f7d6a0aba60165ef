package usecase

import (
	"log"
	"regexp"
	"strings"
)

// KeywordPreprocessor cleans user-supplied search keywords before they reach the
// marketplace search API.
type KeywordPreprocessor struct {
	enableDebugLogging bool
}

// Compiled regex patterns for keyword preprocessing
var (
	// Matches bracketed listing tags like "[PROMO]", "(READY STOCK)", "{COD}"
	listingTagPattern = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}`)

	// Matches repeated emphasis punctuation like "!!!", "???", "***"
	emphasisPattern = regexp.MustCompile(`[!?*~]{2,}`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// keywordNoiseWords are listing-title filler terms that narrow nothing in a search.
// Mostly Indonesian marketplace marketing vocabulary.
var keywordNoiseWords = map[string]bool{
	// Promo terms
	"promo":    true,
	"diskon":   true,
	"sale":     true,
	"flash":    true,
	"murah":    true,
	"termurah": true,
	"gratis":   true,
	"ongkir":   true,
	"cod":      true,
	"cashback": true,

	// Popularity claims
	"terlaris":   true,
	"terbaru":    true,
	"bestseller": true,
	"viral":      true,
	"hits":       true,

	// Stock/condition filler
	"ready": true,
	"stock": true,
	"stok":  true,
	"bisa":  true,
}

// NewKeywordPreprocessor creates a new keyword preprocessor
func NewKeywordPreprocessor(enableDebugLogging bool) *KeywordPreprocessor {
	return &KeywordPreprocessor{
		enableDebugLogging: enableDebugLogging,
	}
}

// Preprocess cleans a search keyword: strips listing tags, emphasis punctuation and
// marketplace filler words, then normalizes whitespace. The result is lowercase.
func (p *KeywordPreprocessor) Preprocess(keyword string) string {
	if keyword == "" {
		return ""
	}

	original := keyword

	cleaned := listingTagPattern.ReplaceAllString(keyword, " ")
	cleaned = emphasisPattern.ReplaceAllString(cleaned, " ")
	cleaned = p.removeNoiseWords(cleaned)

	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	// Keep the query short enough for the search endpoint
	if len(cleaned) > 100 {
		cleaned = cleaned[:100]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > 50 {
			cleaned = cleaned[:lastSpace]
		}
	}

	if p.enableDebugLogging {
		log.Printf("[PREPROCESS] Input: %q -> Output: %q", original, cleaned)
	}

	return cleaned
}

// removeNoiseWords drops marketplace filler terms from the keyword
func (p *KeywordPreprocessor) removeNoiseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	var kept []string

	for _, word := range words {
		cleanWord := strings.Trim(word, ",.!?;:-'\"")

		if !keywordNoiseWords[cleanWord] {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}
