package usecase

import (
	"fmt"

	"github.com/marketlens/backend/internal/domain"
)

// competitionThreshold is the row count above which (strictly) the market is called
// highly competitive.
const competitionThreshold = 50

// ConclusionService derives recommendation-framed statements from the normalized
// table. Like insights, the emission order is fixed; unlike insights, the first and
// last statements are always present.
type ConclusionService struct{}

// NewConclusionService creates a ConclusionService.
func NewConclusionService() *ConclusionService {
	return &ConclusionService{}
}

// Conclusions renders the conclusion list for one pipeline run.
func (s *ConclusionService) Conclusions(table *domain.Table) []string {
	var conclusions []string

	total := 0
	if table != nil {
		total = table.Len()
	}
	level := "moderate"
	if total > competitionThreshold {
		level = "high"
	}
	conclusions = append(conclusions, fmt.Sprintf(
		"Found %d products, indicating a %s level of competition in this category", total, level))

	if table == nil {
		conclusions = append(conclusions, closingRecommendation)
		return conclusions
	}

	if table.Columns.RealPrice {
		prices := collectPrices(table)
		if len(prices) > 0 {
			med := median(prices)
			if mean(prices) > med*1.2 {
				conclusions = append(conclusions, fmt.Sprintf(
					"The price distribution is left-skewed with a median of %s, pointing to plenty of budget-friendly products",
					formatRupiah(med)))
			} else {
				conclusions = append(conclusions, fmt.Sprintf(
					"The price distribution is roughly normal with a midpoint of %s",
					formatRupiah(med)))
			}
		}
	}

	if table.Columns.Rating {
		ratings := collectRatings(table)
		if len(ratings) > 0 {
			switch avg := mean(ratings); {
			case avg >= 4.5:
				conclusions = append(conclusions,
					"Overall product quality is very good, with a high average rating")
			case avg >= 4.0:
				conclusions = append(conclusions,
					"Overall product quality is good, with room for improvement")
			default:
				conclusions = append(conclusions,
					"Product quality is variable, with several products needing attention")
			}
		}
	}

	if table.Columns.SoldCount && table.Columns.Rating {
		if n := underexposedHighQuality(table); n > 0 {
			conclusions = append(conclusions, fmt.Sprintf(
				"There are %d high-quality products with low sales that could be optimized", n))
		}
	}

	conclusions = append(conclusions, closingRecommendation)
	return conclusions
}

const closingRecommendation = "To enter this market, focus on product quality and a competitive pricing strategy informed by the price distribution"

// underexposedHighQuality counts rows selling below the median sold count while rated
// 4.5 or higher.
func underexposedHighQuality(table *domain.Table) int {
	sold := collectSold(table)
	if len(sold) == 0 {
		return 0
	}
	med := median(sold)

	count := 0
	for _, row := range table.Rows {
		if row.SoldCount != nil && row.Rating != nil && *row.SoldCount < med && *row.Rating >= 4.5 {
			count++
		}
	}
	return count
}
