package usecase

import (
	"log"
	"strconv"
	"strings"

	"github.com/marketlens/backend/internal/domain"
)

// Normalizer flattens raw product records into the tabular model and attaches the
// derived category columns. It holds no state between runs; normalizing the same batch
// twice yields identical tables.
type Normalizer struct {
	enableDebugLogging bool
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(enableDebugLogging bool) *Normalizer {
	return &Normalizer{enableDebugLogging: enableDebugLogging}
}

// Normalize produces one NormalizedRow per input record, preserving input order.
// Missing or non-coercible fields become nil, never errors. The returned table's
// Columns set reflects which feature columns appeared anywhere in the batch.
func (n *Normalizer) Normalize(batch []domain.RawRecord) *domain.Table {
	table := &domain.Table{Rows: make([]domain.NormalizedRow, 0, len(batch))}

	for _, record := range batch {
		row := domain.NormalizedRow{
			RealPrice:      coerceNumber(record, "real_price"),
			Rating:         coerceNumber(record, "rating"),
			SoldCount:      coerceNumber(record, "sold_count"),
			ShopName:       coerceString(record, "shop", "name"),
			ShopCity:       coerceString(record, "shop", "city"),
			IsOfficialShop: coerceBool(record, "shop", "is_official"),
			Extra:          passthroughFields(record),
		}

		table.Columns.RealPrice = table.Columns.RealPrice || hasField(record, "real_price")
		table.Columns.Rating = table.Columns.Rating || hasField(record, "rating")
		table.Columns.SoldCount = table.Columns.SoldCount || hasField(record, "sold_count")
		table.Columns.ShopName = table.Columns.ShopName || hasField(record, "shop", "name")
		table.Columns.ShopCity = table.Columns.ShopCity || hasField(record, "shop", "city")
		table.Columns.IsOfficialShop = table.Columns.IsOfficialShop || hasField(record, "shop", "is_official")

		table.Rows = append(table.Rows, row)
	}

	if n.enableDebugLogging {
		log.Printf("[NORMALIZE] %d records -> %d rows (price=%v rating=%v sold=%v shop=%v)",
			len(batch), len(table.Rows),
			table.Columns.RealPrice, table.Columns.Rating,
			table.Columns.SoldCount, table.Columns.ShopName)
	}

	return table
}

// Categorize attaches price_category and rating_category to every row per the binning
// rules. It is a pure per-row operation: re-running on an already-categorized table
// recomputes the same labels.
func (n *Normalizer) Categorize(table *domain.Table) {
	for i := range table.Rows {
		row := &table.Rows[i]
		row.PriceCategory = binPrice(row.RealPrice)
		row.RatingCategory = binRating(row.Rating)
	}
}

// binPrice maps a price into its tier. Intervals are right-open, so a price exactly on
// a boundary lands in the higher tier; nil price means nil category.
func binPrice(price *float64) *domain.PriceCategory {
	if price == nil {
		return nil
	}
	var cat domain.PriceCategory
	switch p := *price; {
	case p < 50000:
		cat = domain.PriceUnder50K
	case p < 100000:
		cat = domain.Price50Kto100K
	case p < 200000:
		cat = domain.Price100Kto200K
	case p < 500000:
		cat = domain.Price200Kto500K
	default:
		cat = domain.PriceOver500K
	}
	return &cat
}

// binRating maps a rating into its tier using left-open (a, b] intervals, so exactly
// 4.0 is still "Good (3-4)"; nil rating means nil category.
func binRating(rating *float64) *domain.RatingCategory {
	if rating == nil {
		return nil
	}
	var cat domain.RatingCategory
	switch r := *rating; {
	case r <= 3:
		cat = domain.RatingPoor
	case r <= 4:
		cat = domain.RatingGood
	case r <= 4.5:
		cat = domain.RatingVeryGood
	default:
		cat = domain.RatingExcellent
	}
	return &cat
}

// hasField reports whether the structural path exists in the record at all, whether
// or not its value later coerces to a typed cell.
func hasField(record domain.RawRecord, path ...string) bool {
	_, ok := record.Lookup(path...)
	return ok
}

// coerceNumber resolves a structural path to a float. Numbers arriving as JSON strings
// ("125000") are parsed; anything else non-numeric resolves to nil silently.
func coerceNumber(record domain.RawRecord, path ...string) *float64 {
	value, ok := record.Lookup(path...)
	if !ok {
		return nil
	}
	switch v := value.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func coerceString(record domain.RawRecord, path ...string) *string {
	value, ok := record.Lookup(path...)
	if !ok {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return &s
}

func coerceBool(record domain.RawRecord, path ...string) *bool {
	value, ok := record.Lookup(path...)
	if !ok {
		return nil
	}
	b, ok := value.(bool)
	if !ok {
		return nil
	}
	return &b
}

// normalizedFields are the top-level source keys the normalizer consumes; everything
// else scalar at the top level passes through untouched.
var normalizedFields = map[string]bool{
	"real_price":      true,
	"rating":          true,
	"sold_count":      true,
	"shop":            true,
	"product_reviews": true,
}

func passthroughFields(record domain.RawRecord) map[string]any {
	var extra map[string]any
	for key, value := range record {
		if normalizedFields[key] {
			continue
		}
		switch value.(type) {
		case string, float64, bool, int, int64, nil:
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[key] = value
		}
	}
	return extra
}
