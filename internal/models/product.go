package models

import "github.com/shopspring/decimal"

// Product is a cleaned product record ready for loading.
// Price and StockQuantity are always populated after imputation.
type Product struct {
	SourceID      string
	Name          string
	Category      string
	Price         decimal.Decimal
	StockQuantity int64
}
