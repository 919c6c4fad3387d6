package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"

	"fleximart/internal/reader"
)

func TestProductNormalizer_Normalize(t *testing.T) {
	n := NewProductNormalizer(testLogger())

	rows := []reader.Row{
		{"P1", "  Widget  ", "Tools", "100", "5"},
		{"P2", "Gadget", "Tools", "200", ""},
		{"P3", "Gizmo", "Toys", "", "12"},
	}

	products, stats := n.Normalize(rows)

	if stats.Processed != 3 {
		t.Errorf("Processed = %d, want 3", stats.Processed)
	}

	if stats.MissingPricesFilled != 1 {
		t.Errorf("MissingPricesFilled = %d, want 1", stats.MissingPricesFilled)
	}

	if len(products) != 3 {
		t.Fatalf("got %d products, want 3 (nothing is dropped)", len(products))
	}

	if products[0].Name != "Widget" {
		t.Errorf("name = %q, want trimmed", products[0].Name)
	}

	// Median of the present prices [100, 200] is 150.
	if !products[2].Price.Equal(decimal.RequireFromString("150")) {
		t.Errorf("imputed price = %s, want 150", products[2].Price)
	}

	if products[1].StockQuantity != 0 {
		t.Errorf("imputed stock = %d, want 0", products[1].StockQuantity)
	}

	for i, p := range products {
		if p.Price.IsNegative() {
			t.Errorf("products[%d].Price = %s, want non-negative", i, p.Price)
		}
	}
}

func TestProductNormalizer_NoDeduplication(t *testing.T) {
	n := NewProductNormalizer(testLogger())

	rows := []reader.Row{
		{"P1", "Widget", "Tools", "100", "5"},
		{"P1", "Widget", "Tools", "100", "5"},
	}

	products, stats := n.Normalize(rows)

	// Exact repeats are loaded; catalogs may legitimately repeat rows.
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	if stats.Processed != 2 {
		t.Errorf("Processed = %d, want 2", stats.Processed)
	}
}

func TestProductNormalizer_AllPricesMissing(t *testing.T) {
	n := NewProductNormalizer(testLogger())

	products, stats := n.Normalize([]reader.Row{
		{"P1", "Widget", "Tools", "", "1"},
		{"P2", "Gadget", "Tools", "n/a", "2"},
	})

	if stats.MissingPricesFilled != 2 {
		t.Errorf("MissingPricesFilled = %d, want 2", stats.MissingPricesFilled)
	}

	// With no present prices the median falls back to zero; the invariant
	// that no record carries a missing price still holds.
	for i, p := range products {
		if !p.Price.Equal(decimal.Zero) {
			t.Errorf("products[%d].Price = %s, want 0", i, p.Price)
		}
	}
}

func TestProductNormalizer_FractionalStockTruncates(t *testing.T) {
	products, _ := NewProductNormalizer(testLogger()).Normalize([]reader.Row{
		{"P1", "Widget", "Tools", "10", "7.9"},
	})

	if products[0].StockQuantity != 7 {
		t.Errorf("StockQuantity = %d, want 7", products[0].StockQuantity)
	}
}
