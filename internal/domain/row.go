package domain

// PriceCategory is an ordinal price tier derived by binning real_price.
// Bins are right-open: a price exactly on a boundary belongs to the higher tier.
type PriceCategory string

const (
	PriceUnder50K   PriceCategory = "<50K"
	Price50Kto100K  PriceCategory = "50K-100K"
	Price100Kto200K PriceCategory = "100K-200K"
	Price200Kto500K PriceCategory = "200K-500K"
	PriceOver500K   PriceCategory = ">500K"
)

// RatingCategory is an ordinal quality tier derived by binning rating.
// Bins are left-open intervals (a, b], so a rating of exactly 4.0 is "Good (3-4)".
type RatingCategory string

const (
	RatingPoor      RatingCategory = "Poor (0-3)"
	RatingGood      RatingCategory = "Good (3-4)"
	RatingVeryGood  RatingCategory = "Very Good (4-4.5)"
	RatingExcellent RatingCategory = "Excellent (4.5-5)"
)

// NormalizedRow is the flat, typed projection of one RawRecord. Nil means the source
// field was absent or could not be coerced; downstream statistics skip nil fields
// rather than failing on them.
type NormalizedRow struct {
	RealPrice      *float64        `json:"real_price,omitempty"`
	Rating         *float64        `json:"rating,omitempty"`
	SoldCount      *float64        `json:"sold_count,omitempty"`
	ShopName       *string         `json:"shop_name,omitempty"`
	ShopCity       *string         `json:"shop_city,omitempty"`
	IsOfficialShop *bool           `json:"is_official_shop,omitempty"`
	PriceCategory  *PriceCategory  `json:"price_category,omitempty"`
	RatingCategory *RatingCategory `json:"rating_category,omitempty"`

	// Extra carries top-level scalar fields the normalizer does not touch
	// (name, url, product_id, ...), passed through unchanged.
	Extra map[string]any `json:"extra,omitempty"`
}

// Columns records which feature columns exist anywhere in the batch. A column absent
// batch-wide means "feature unavailable" and gates the insights/conclusions that need
// it; this is distinct from a present column holding nil in some rows. Availability
// tracks key presence in the source records, so a column whose every value fails
// coercion is still available, just nil in each row.
type Columns struct {
	RealPrice      bool `json:"real_price"`
	Rating         bool `json:"rating"`
	SoldCount      bool `json:"sold_count"`
	ShopName       bool `json:"shop_name"`
	ShopCity       bool `json:"shop_city"`
	IsOfficialShop bool `json:"is_official_shop"`
}

// Table is the normalized batch: one row per input record, in input order.
type Table struct {
	Rows    []NormalizedRow `json:"rows"`
	Columns Columns         `json:"columns"`
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }
