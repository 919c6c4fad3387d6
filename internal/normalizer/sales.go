package normalizer

import (
	"fleximart/internal/logger"
	"fleximart/internal/models"
	"fleximart/internal/reader"
)

// Positional schema of the sales extract.
const (
	saleFieldTransactionID = iota
	saleFieldCustomerID
	saleFieldProductID
	saleFieldQuantity
	saleFieldUnitPrice
	saleFieldDate
	saleFieldStatus
)

// SalesStats are the quality counters produced by the sales stage.
// Processed counts rows that passed the completeness filter, not the full
// raw file; rows missing a customer id, product id, quantity, or unit
// price never reach the counter.
type SalesStats struct {
	Processed         int
	DuplicatesRemoved int
	Dropped           int
}

// AfterCleaning is the row count that survived both filtering and
// deduplication.
func (s SalesStats) AfterCleaning() int {
	return s.Processed - s.DuplicatesRemoved
}

// SalesNormalizer validates referential completeness and deduplicates
// sales transactions.
type SalesNormalizer struct {
	logger *logger.Logger
}

// NewSalesNormalizer creates a new sales normalizer instance.
func NewSalesNormalizer(log *logger.Logger) *SalesNormalizer {
	return &SalesNormalizer{logger: log}
}

// Normalize drops incomplete rows, collapses repeated transaction ids to
// their first occurrence, and parses dates leniently. Identifier resolution
// to surrogate keys is the loader's job; rows leave here still carrying
// source identifiers.
func (n *SalesNormalizer) Normalize(rows []reader.Row) ([]models.Sale, SalesStats) {
	var stats SalesStats

	seen := make(map[string]bool, len(rows))
	sales := make([]models.Sale, 0, len(rows))

	for _, row := range rows {
		customerID := row.Field(saleFieldCustomerID)
		productID := row.Field(saleFieldProductID)

		quantity, qtyOK := ParseDecimal(row.Field(saleFieldQuantity))
		unitPrice, priceOK := ParseDecimal(row.Field(saleFieldUnitPrice))

		// Completeness filter: without both identifiers and both numbers
		// the row can produce neither an order nor an item.
		if customerID == "" || productID == "" || !qtyOK || !priceOK {
			stats.Dropped++
			n.logger.Debug("incomplete sale dropped",
				"transaction_id", row.Field(saleFieldTransactionID))

			continue
		}

		stats.Processed++

		transactionID := row.Field(saleFieldTransactionID)
		if seen[transactionID] {
			stats.DuplicatesRemoved++
			n.logger.Debug("duplicate sale dropped", "transaction_id", transactionID)

			continue
		}

		seen[transactionID] = true

		sales = append(sales, models.Sale{
			TransactionID: transactionID,
			CustomerID:    customerID,
			ProductID:     productID,
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			Date:          ParseDate(row.Field(saleFieldDate)),
			Status:        row.Field(saleFieldStatus),
		})
	}

	n.logger.Info("sales normalized",
		"processed", stats.Processed,
		"duplicates_removed", stats.DuplicatesRemoved,
		"dropped_incomplete", stats.Dropped,
	)

	return sales, stats
}
