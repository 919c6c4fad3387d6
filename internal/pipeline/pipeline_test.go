package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fleximart/internal/config"
	"fleximart/internal/logger"
	"fleximart/internal/models"
	"fleximart/internal/store"

	"github.com/shopspring/decimal"
)

const (
	customersFixture = `C1,Jane,Doe,,9876543210,Pune,2021-01-01
C2,Raj,Patel,raj@shop.in,919812345678,Mumbai,2021-02-10
C1,Jane,Doe,jane@dup.in,9876543210,Pune,2021-01-01
`
	productsFixture = `P1,Widget ,Tools,100,5
P2,Gadget,Tools,200,
P3,Gizmo,Toys,,12
`
	salesFixture = `T1,C1,P1,2,100,2021-05-01,completed
T2,C2,P2,1,,2021-05-02,pending
T3,,P1,1,50,2021-05-03,completed
T1,C1,P1,9,999,2021-05-04,completed
T4,C2,P3,3,75.50,2021-05-05,shipped
`
)

func newTestPipeline(t *testing.T) (*Pipeline, *store.Store) {
	t.Helper()

	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		return path
	}

	cfg := config.Default()
	cfg.Input.Customers = write("customers_raw.csv", customersFixture)
	cfg.Input.Products = write("products_raw.csv", productsFixture)
	cfg.Input.Sales = write("sales_raw.csv", salesFixture)
	cfg.Database.Path = ":memory:"

	log := logger.NewLogger("error")

	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}

	t.Cleanup(func() { st.Close() })

	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	return New(cfg, st, log), st
}

func TestPipeline_Run(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	rep, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rep.RunID == "" {
		t.Error("report missing run id")
	}

	if rep.Customers.Processed != 3 || rep.Customers.DuplicatesRemoved != 1 || rep.Customers.Loaded != 2 {
		t.Errorf("customer stats = %+v", rep.Customers)
	}

	if rep.Customers.MissingHandled != 1 {
		t.Errorf("missing emails filled = %d, want 1", rep.Customers.MissingHandled)
	}

	if rep.Products.Processed != 3 || rep.Products.Loaded != 3 || rep.Products.MissingHandled != 1 {
		t.Errorf("product stats = %+v", rep.Products)
	}

	// T2 (no unit price) and T3 (no customer) never reach the processed
	// counter; T1's repeat is removed as a duplicate.
	if rep.Sales.Processed != 3 || rep.Sales.DuplicatesRemoved != 1 || rep.Sales.Loaded != 2 {
		t.Errorf("sales stats = %+v", rep.Sales)
	}

	for _, table := range []struct {
		name string
		want int64
	}{
		{name: "customers", want: 2},
		{name: "products", want: 3},
		{name: "orders", want: 2},
		{name: "order_items", want: 2},
	} {
		n, err := st.CountRows(ctx, table.name)
		if err != nil {
			t.Fatalf("CountRows(%s) failed: %v", table.name, err)
		}

		if n != table.want {
			t.Errorf("%s count = %d, want %d", table.name, n, table.want)
		}
	}
}

func TestPipeline_SecondRunAppends(t *testing.T) {
	p, st := newTestPipeline(t)
	ctx := context.Background()

	if _, err := p.Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	if _, err := p.Run(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	// Reruns are not idempotent: a second run strictly increases counts.
	for _, table := range []string{"customers", "products", "orders", "order_items"} {
		n, err := st.CountRows(ctx, table)
		if err != nil {
			t.Fatalf("CountRows(%s) failed: %v", table, err)
		}

		var want int64 = 4
		if table == "products" {
			want = 6
		}

		if n != want {
			t.Errorf("%s count after second run = %d, want %d", table, n, want)
		}
	}
}

func TestPipeline_UnresolvedCustomerIsFatal(t *testing.T) {
	p, _ := newTestPipeline(t)
	ctx := context.Background()

	// A map missing an id that survived normalization is a programming or
	// ordering error, never a row to skip.
	_, err := p.runSalesStage(ctx, p.logger,
		map[string]int64{},
		map[string]int64{"P1": 1, "P2": 2, "P3": 3},
	)
	if !errors.Is(err, ErrUnresolvedCustomer) {
		t.Fatalf("err = %v, want ErrUnresolvedCustomer", err)
	}
}

func TestPipeline_UnresolvedProductIsFatal(t *testing.T) {
	p, _ := newTestPipeline(t)
	ctx := context.Background()

	_, err := p.runSalesStage(ctx, p.logger,
		map[string]int64{"C1": 1, "C2": 2},
		map[string]int64{},
	)
	if !errors.Is(err, ErrUnresolvedProduct) {
		t.Fatalf("err = %v, want ErrUnresolvedProduct", err)
	}
}

func TestPipeline_SubtotalMatchesOrderTotal(t *testing.T) {
	sale := models.Sale{
		Quantity:  decimal.NewFromInt(3),
		UnitPrice: decimal.RequireFromString("75.50"),
	}

	if !sale.Total().Equal(decimal.RequireFromString("226.5")) {
		t.Errorf("Total = %s, want 226.5", sale.Total())
	}
}
