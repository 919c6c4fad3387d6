package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"

	"fleximart/internal/logger"
	"fleximart/internal/models"
	"fleximart/internal/reader"
)

// Positional schema of the products extract.
const (
	prodFieldID = iota
	prodFieldName
	prodFieldCategory
	prodFieldPrice
	prodFieldStockQuantity
)

// ProductStats are the quality counters produced by the product stage.
type ProductStats struct {
	Processed           int
	MissingPricesFilled int
}

// ProductNormalizer cleans numeric product fields and imputes defaults.
// Products are intentionally not deduplicated by source id: catalog
// extracts legitimately repeat rows, and every row is loaded.
type ProductNormalizer struct {
	logger *logger.Logger
}

// NewProductNormalizer creates a new product normalizer instance.
func NewProductNormalizer(log *logger.Logger) *ProductNormalizer {
	return &ProductNormalizer{logger: log}
}

// Normalize parses prices and stock counts leniently, then imputes: a
// missing price becomes the median of all present prices in the batch, a
// missing stock quantity becomes zero. No surviving record carries a
// missing price or stock quantity.
func (n *ProductNormalizer) Normalize(rows []reader.Row) ([]models.Product, ProductStats) {
	stats := ProductStats{Processed: len(rows)}

	products := make([]models.Product, 0, len(rows))
	present := make([]decimal.Decimal, 0, len(rows))
	missing := make([]int, 0)

	for _, row := range rows {
		price, priceOK := ParseDecimal(row.Field(prodFieldPrice))

		var stock int64
		if qty, ok := ParseDecimal(row.Field(prodFieldStockQuantity)); ok {
			stock = qty.IntPart()
		}

		p := models.Product{
			SourceID:      row.Field(prodFieldID),
			Name:          strings.TrimSpace(row.Field(prodFieldName)),
			Category:      row.Field(prodFieldCategory),
			Price:         price,
			StockQuantity: stock,
		}

		if priceOK {
			present = append(present, price)
		} else {
			missing = append(missing, len(products))
		}

		products = append(products, p)
	}

	stats.MissingPricesFilled = len(missing)

	// The median is taken over the prices that were present in this batch.
	median := Median(present)
	for _, i := range missing {
		products[i].Price = median
	}

	n.logger.Info("products normalized",
		"processed", stats.Processed,
		"missing_prices_filled", stats.MissingPricesFilled,
	)

	return products, stats
}
