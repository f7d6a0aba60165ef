package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/marketlens/backend/internal/domain"
)

// csvHeader is the fixed column order of the tabular export.
var csvHeader = []string{
	"real_price", "rating", "sold_count",
	"shop_name", "shop_city", "is_official_shop",
	"price_category", "rating_category",
}

// WriteCSV writes the normalized table as a delimited export: a header row followed by
// one line per row in table order. Nil fields become empty cells.
func WriteCSV(w io.Writer, table *domain.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, row := range table.Rows {
		record := []string{
			formatFloat(row.RealPrice),
			formatFloat(row.Rating),
			formatFloat(row.SoldCount),
			formatString(row.ShopName),
			formatString(row.ShopCity),
			formatBool(row.IsOfficialShop),
			formatCategory(row.PriceCategory),
			formatCategory(row.RatingCategory),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the raw record batch unchanged from input, as an indented JSON
// document. Non-ASCII review text is emitted as-is rather than escaped.
func WriteJSON(w io.Writer, batch []domain.RawRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(batch)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func formatCategory[T ~string](v *T) string {
	if v == nil {
		return ""
	}
	return string(*v)
}
