package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a cleaned sales transaction. CustomerID and ProductID are still
// source identifiers here; resolution to surrogate keys happens at load time.
type Sale struct {
	TransactionID string
	CustomerID    string
	ProductID     string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Date          *time.Time
	Status        string
}

// Total returns quantity × unit price for the transaction.
func (s *Sale) Total() decimal.Decimal {
	return s.Quantity.Mul(s.UnitPrice)
}

// Order is the order header derived from one sale.
type Order struct {
	CustomerID  int64
	Date        *time.Time
	TotalAmount decimal.Decimal
	Status      string
}

// OrderItem is the single line item owned by an order. Every order derived
// from a sale owns exactly one item.
type OrderItem struct {
	OrderID   int64
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
