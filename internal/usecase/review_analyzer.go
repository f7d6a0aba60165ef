package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/marketlens/backend/internal/domain"
)

// wordRegex matches word tokens (alphanumeric runs) in the lowercased corpus.
var wordRegex = regexp.MustCompile(`\w+`)

// topWordCount caps the word-frequency table handed to the word-cloud consumer.
const topWordCount = 20

// positiveLexicon and negativeLexicon are the fixed sentiment marker lists. Scoring is
// presence-based: a term occurring anywhere in the corpus counts exactly once no matter
// how often it repeats. This measures which markers appear, not how often, and must not
// be "upgraded" to occurrence counting.
var (
	positiveLexicon = []string{
		"bagus", "baik", "mantap", "recommended", "puas",
		"original", "cepat", "oke", "sesuai",
	}
	negativeLexicon = []string{
		"buruk", "jelek", "lambat", "rusak",
		"mengecewakan", "tidak sesuai", "palsu",
	}
)

// ReviewAnalyzer aggregates free-text reviews across a raw batch into sentiment counts
// and a word-frequency table.
type ReviewAnalyzer struct {
	enableDebugLogging bool
}

// NewReviewAnalyzer creates a ReviewAnalyzer.
func NewReviewAnalyzer(enableDebugLogging bool) *ReviewAnalyzer {
	return &ReviewAnalyzer{enableDebugLogging: enableDebugLogging}
}

// Analyze builds the review aggregate for one batch. It returns nil, the "no reviews
// available" sentinel, when no record carries a review message at all. A corpus that
// exists but scores nothing yields zero counts and an empty table, not the sentinel.
func (a *ReviewAnalyzer) Analyze(batch []domain.RawRecord) *domain.ReviewAggregate {
	var messages []string
	for _, record := range batch {
		for _, review := range record.Reviews() {
			messages = append(messages, review.Message)
		}
	}

	if len(messages) == 0 {
		if a.enableDebugLogging {
			log.Printf("[REVIEWS] no review messages in batch of %d records", len(batch))
		}
		return nil
	}

	corpus := strings.ToLower(strings.Join(messages, " "))

	aggregate := &domain.ReviewAggregate{
		WordFrequencies: topWords(corpus, topWordCount),
	}
	for _, term := range positiveLexicon {
		if strings.Contains(corpus, term) {
			aggregate.PositiveCount++
		}
	}
	for _, term := range negativeLexicon {
		if strings.Contains(corpus, term) {
			aggregate.NegativeCount++
		}
	}

	if a.enableDebugLogging {
		log.Printf("[REVIEWS] %d messages, positive=%d negative=%d, %d distinct top words",
			len(messages), aggregate.PositiveCount, aggregate.NegativeCount,
			len(aggregate.WordFrequencies))
	}

	return aggregate
}

// topWords tokenizes the corpus and keeps the limit most frequent tokens, ordered by
// count descending with ties broken by first occurrence in the corpus.
func topWords(corpus string, limit int) []domain.WordCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, token := range wordRegex.FindAllString(corpus, -1) {
		if _, seen := counts[token]; !seen {
			firstSeen[token] = i
		}
		counts[token]++
	}

	words := make([]domain.WordCount, 0, len(counts))
	for word, count := range counts {
		words = append(words, domain.WordCount{Word: word, Count: count})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return firstSeen[words[i].Word] < firstSeen[words[j].Word]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}
