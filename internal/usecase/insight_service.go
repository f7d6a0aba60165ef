package usecase

import (
	"fmt"
	"math"
	"strconv"

	"github.com/marketlens/backend/internal/domain"
)

// InsightService derives observational statements from the normalized table. Each
// insight is gated on its column being available; a missing column skips the insight
// silently. Emission order is fixed so downstream display is stable.
type InsightService struct{}

// NewInsightService creates an InsightService.
func NewInsightService() *InsightService {
	return &InsightService{}
}

// Insights renders the observation list for one table. Percentages and means are
// computed over rows where the relevant field is non-nil only.
func (s *InsightService) Insights(table *domain.Table) []string {
	var insights []string
	if table == nil || table.Len() == 0 {
		return insights
	}

	prices := collectPrices(table)
	ratings := collectRatings(table)

	if table.Columns.RealPrice && len(prices) > 0 {
		lo, hi := minMax(prices)
		insights = append(insights, fmt.Sprintf(
			"Product prices vary widely, ranging from %s to %s",
			formatRupiah(lo), formatRupiah(hi)))

		if sampleStdDev(prices) > mean(prices) {
			insights = append(insights,
				"Price variation is very high, indicating a diverse range of market segments")
		}
	}

	if table.Columns.Rating && len(ratings) > 0 {
		high := 0
		for _, r := range ratings {
			if r >= 4.5 {
				high++
			}
		}
		pct := float64(high) / float64(len(ratings)) * 100
		insights = append(insights, fmt.Sprintf(
			"%.1f%% of products hold an excellent rating (>=4.5)", pct))
	}

	if table.Columns.Rating && table.Columns.RealPrice {
		xs, ys := collectPriceRatingPairs(table)
		if r := pearson(xs, ys); math.Abs(r) > 0.3 {
			direction := "positive"
			if r < 0 {
				direction = "negative"
			}
			insights = append(insights, fmt.Sprintf(
				"There is a %s correlation between price and rating (r=%.2f)", direction, r))
		}
	}

	if table.Columns.SoldCount {
		sold := collectSold(table)
		if len(sold) > 0 {
			threshold := quantile(sold, 0.8)
			best := 0
			for _, v := range sold {
				if v >= threshold {
					best++
				}
			}
			pct := float64(best) / float64(len(sold)) * 100
			insights = append(insights, fmt.Sprintf(
				"%.1f%% of products qualify as bestsellers (sold count at or above the 80th percentile)", pct))
		}
	}

	if table.Columns.ShopName {
		shops := make(map[string]bool)
		listed := 0
		for _, row := range table.Rows {
			if row.ShopName != nil {
				shops[*row.ShopName] = true
				listed++
			}
		}
		if len(shops) > 0 {
			avg := float64(listed) / float64(len(shops))
			insights = append(insights, fmt.Sprintf(
				"Each shop lists an average of %.1f products in this category", avg))
		}
	}

	return insights
}

func collectPrices(table *domain.Table) []float64 {
	var out []float64
	for _, row := range table.Rows {
		if row.RealPrice != nil {
			out = append(out, *row.RealPrice)
		}
	}
	return out
}

func collectRatings(table *domain.Table) []float64 {
	var out []float64
	for _, row := range table.Rows {
		if row.Rating != nil {
			out = append(out, *row.Rating)
		}
	}
	return out
}

func collectSold(table *domain.Table) []float64 {
	var out []float64
	for _, row := range table.Rows {
		if row.SoldCount != nil {
			out = append(out, *row.SoldCount)
		}
	}
	return out
}

// collectPriceRatingPairs keeps only rows where both fields are present, so the
// correlation series stay aligned.
func collectPriceRatingPairs(table *domain.Table) ([]float64, []float64) {
	var xs, ys []float64
	for _, row := range table.Rows {
		if row.RealPrice != nil && row.Rating != nil {
			xs = append(xs, *row.RealPrice)
			ys = append(ys, *row.Rating)
		}
	}
	return xs, ys
}

// formatRupiah renders a price as "Rp 1,250,000": rounded to whole rupiah with comma
// thousand grouping.
func formatRupiah(value float64) string {
	s := strconv.FormatFloat(math.Round(value), 'f', 0, 64)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return "Rp " + s
}
