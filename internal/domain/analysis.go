package domain

// WordCount is one entry of the review word-frequency table. The list is ordered by
// count descending with ties broken by first occurrence in the corpus, which is exactly
// the word→weight contract a word-cloud renderer consumes.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ReviewAggregate summarizes the free-text reviews of one batch. A nil *ReviewAggregate
// is the "no reviews available" sentinel: no record in the batch carried a review
// message at all. A non-nil aggregate with zero counts and an empty frequency table
// means reviews existed but scored nothing.
type ReviewAggregate struct {
	PositiveCount   int         `json:"positive_count"`
	NegativeCount   int         `json:"negative_count"`
	WordFrequencies []WordCount `json:"word_frequencies"`
}

// SentimentRatio is the share of positive markers among all sentiment markers found.
// A batch with no markers at all yields 0.
func (a *ReviewAggregate) SentimentRatio() float64 {
	total := a.PositiveCount + a.NegativeCount
	if total == 0 {
		return 0
	}
	return float64(a.PositiveCount) / float64(total)
}

// Overview holds the headline metrics of one batch. Pointer metrics are nil when the
// backing column is unavailable.
type Overview struct {
	TotalProducts int      `json:"total_products"`
	AveragePrice  *float64 `json:"average_price,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	TotalSold     *float64 `json:"total_sold,omitempty"`
}

// Report is the complete output of one pipeline run over one batch.
type Report struct {
	Overview    Overview         `json:"overview"`
	Table       *Table           `json:"table"`
	Reviews     *ReviewAggregate `json:"reviews,omitempty"`
	Insights    []string         `json:"insights"`
	Conclusions []string         `json:"conclusions"`
}
