package usecase

import (
	"strings"
	"testing"

	"github.com/marketlens/backend/internal/domain"
)

func tableFor(t *testing.T, records ...map[string]any) *domain.Table {
	t.Helper()
	n := NewNormalizer(false)
	batch := make([]domain.RawRecord, 0, len(records))
	for _, r := range records {
		batch = append(batch, record(r))
	}
	table := n.Normalize(batch)
	n.Categorize(table)
	return table
}

func TestInsightsEmptyTable(t *testing.T) {
	s := NewInsightService()
	if got := s.Insights(tableFor(t)); len(got) != 0 {
		t.Errorf("Insights = %v, want empty", got)
	}
	if got := s.Insights(nil); len(got) != 0 {
		t.Errorf("Insights(nil) = %v, want empty", got)
	}
}

func TestInsightsPriceSpan(t *testing.T) {
	s := NewInsightService()
	table := tableFor(t,
		map[string]any{"real_price": 30000.0},
		map[string]any{"real_price": 600000.0},
	)

	insights := s.Insights(table)
	if len(insights) == 0 {
		t.Fatal("expected at least one insight")
	}
	if !strings.Contains(insights[0], "Rp 30,000") || !strings.Contains(insights[0], "Rp 600,000") {
		t.Errorf("price span insight = %q, want min and max cited", insights[0])
	}
}

func TestInsightsVarianceRemark(t *testing.T) {
	s := NewInsightService()

	t.Run("emitted when std exceeds mean", func(t *testing.T) {
		// Prices 1000, 1000, 1000000: std well above mean.
		table := tableFor(t,
			map[string]any{"real_price": 1000.0},
			map[string]any{"real_price": 1000.0},
			map[string]any{"real_price": 1000000.0},
		)
		insights := s.Insights(table)
		if len(insights) < 2 || !strings.Contains(insights[1], "variation") {
			t.Errorf("insights = %v, want variance remark second", insights)
		}
	})

	t.Run("skipped for tight distribution", func(t *testing.T) {
		table := tableFor(t,
			map[string]any{"real_price": 100000.0},
			map[string]any{"real_price": 110000.0},
			map[string]any{"real_price": 120000.0},
		)
		for _, ins := range s.Insights(table) {
			if strings.Contains(ins, "variation is very high") {
				t.Errorf("unexpected variance remark: %q", ins)
			}
		}
	})
}

func TestInsightsHighRatingShare(t *testing.T) {
	s := NewInsightService()
	table := tableFor(t,
		map[string]any{"rating": 3.2},
		map[string]any{"rating": 4.6},
		map[string]any{"rating": 4.9},
	)

	insights := s.Insights(table)
	if len(insights) != 1 {
		t.Fatalf("insights = %v, want exactly the rating share", insights)
	}
	if !strings.Contains(insights[0], "66.7%") {
		t.Errorf("rating insight = %q, want 66.7%%", insights[0])
	}
}

func TestInsightsHighRatingShareSkipsNulls(t *testing.T) {
	s := NewInsightService()
	// One null rating: percentage is over the 2 valid rows, not 3.
	table := tableFor(t,
		map[string]any{"rating": 4.6},
		map[string]any{"rating": "unrated"},
		map[string]any{"rating": 3.0},
	)

	insights := s.Insights(table)
	if len(insights) != 1 || !strings.Contains(insights[0], "50.0%") {
		t.Errorf("insights = %v, want 50.0%% over valid rows only", insights)
	}
}

func TestInsightsCorrelation(t *testing.T) {
	s := NewInsightService()

	t.Run("strong positive correlation is reported", func(t *testing.T) {
		table := tableFor(t,
			map[string]any{"real_price": 10000.0, "rating": 3.0},
			map[string]any{"real_price": 50000.0, "rating": 4.0},
			map[string]any{"real_price": 100000.0, "rating": 4.5},
			map[string]any{"real_price": 200000.0, "rating": 4.9},
		)
		found := false
		for _, ins := range s.Insights(table) {
			if strings.Contains(ins, "positive correlation") && strings.Contains(ins, "r=") {
				found = true
			}
		}
		if !found {
			t.Errorf("insights = %v, want positive correlation remark", s.Insights(table))
		}
	})

	t.Run("weak correlation stays silent", func(t *testing.T) {
		table := tableFor(t,
			map[string]any{"real_price": 10000.0, "rating": 4.0},
			map[string]any{"real_price": 50000.0, "rating": 3.0},
			map[string]any{"real_price": 100000.0, "rating": 4.5},
			map[string]any{"real_price": 200000.0, "rating": 3.5},
		)
		for _, ins := range s.Insights(table) {
			if strings.Contains(ins, "correlation") {
				// |r| must exceed 0.3 for the remark; this shuffled data sits below it.
				t.Errorf("unexpected correlation remark: %q", ins)
			}
		}
	})
}

func TestInsightsBestsellerShare(t *testing.T) {
	s := NewInsightService()
	table := tableFor(t,
		map[string]any{"sold_count": 10.0},
		map[string]any{"sold_count": 20.0},
		map[string]any{"sold_count": 30.0},
		map[string]any{"sold_count": 40.0},
		map[string]any{"sold_count": 100.0},
	)

	// 80th percentile of [10 20 30 40 100] with linear interpolation is 52;
	// only the 100-seller is at or above it.
	insights := s.Insights(table)
	if len(insights) != 1 || !strings.Contains(insights[0], "20.0%") {
		t.Errorf("insights = %v, want 20.0%% bestseller share", insights)
	}
}

func TestInsightsProductsPerShop(t *testing.T) {
	s := NewInsightService()
	table := tableFor(t,
		map[string]any{"shop": map[string]any{"name": "Toko A"}},
		map[string]any{"shop": map[string]any{"name": "Toko A"}},
		map[string]any{"shop": map[string]any{"name": "Toko B"}},
	)

	insights := s.Insights(table)
	if len(insights) != 1 || !strings.Contains(insights[0], "1.5") {
		t.Errorf("insights = %v, want 1.5 products per shop", insights)
	}
}

func TestInsightsEmissionOrder(t *testing.T) {
	s := NewInsightService()
	table := tableFor(t,
		map[string]any{"real_price": 30000.0, "rating": 3.2, "sold_count": 5.0, "shop": map[string]any{"name": "A"}},
		map[string]any{"real_price": 75000.0, "rating": 4.6, "sold_count": 50.0, "shop": map[string]any{"name": "B"}},
		map[string]any{"real_price": 600000.0, "rating": 4.9, "sold_count": 500.0, "shop": map[string]any{"name": "B"}},
	)

	insights := s.Insights(table)
	// Fixed order: price span, (variance), rating share, (correlation), bestseller, shops.
	if len(insights) < 4 {
		t.Fatalf("insights = %v, want at least 4", insights)
	}
	if !strings.Contains(insights[0], "prices vary") {
		t.Errorf("insights[0] = %q, want price span first", insights[0])
	}
	last := insights[len(insights)-1]
	if !strings.Contains(last, "shop") {
		t.Errorf("last insight = %q, want shop average last", last)
	}
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Rp 0"},
		{950, "Rp 950"},
		{30000, "Rp 30,000"},
		{600000, "Rp 600,000"},
		{1250000.4, "Rp 1,250,000"},
	}
	for _, tt := range tests {
		if got := formatRupiah(tt.in); got != tt.want {
			t.Errorf("formatRupiah(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
