// Package pipeline orchestrates the cleansing-and-load run.
//
// Stages execute strictly in order: customers, then products, then sales.
// The ordering is load-bearing — sales resolution consumes the identifier
// maps the first two stages build, and each map must be complete before the
// sales stage starts.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fleximart/internal/config"
	"fleximart/internal/logger"
	"fleximart/internal/models"
	"fleximart/internal/normalizer"
	"fleximart/internal/reader"
	"fleximart/internal/report"
	"fleximart/internal/store"
)

// Resolution errors. A surviving sales row whose source identifier is
// absent from an identifier map indicates stage-ordering or map-construction
// corruption, not dirty input; the run must abort rather than skip the row.
var (
	ErrUnresolvedCustomer = errors.New("sales row references a customer source id absent from the identifier map")
	ErrUnresolvedProduct  = errors.New("sales row references a product source id absent from the identifier map")
)

// Pipeline runs the full batch: read, normalize, load, report.
type Pipeline struct {
	cfg    *config.Config
	store  *store.Store
	reader *reader.Reader
	logger *logger.Logger
}

// New creates a pipeline instance.
func New(cfg *config.Config, st *store.Store, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  st,
		reader: reader.NewReader(log),
		logger: log,
	}
}

// Run executes all stages and returns the assembled quality report. On
// error the report is nil; counters for stages that never ran are never
// fabricated.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	runID := uuid.NewString()
	log := p.logger.With("run_id", runID)

	rep := report.New(runID)

	customerIDs, custStats, err := p.runCustomerStage(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("customer stage: %w", err)
	}

	rep.Customers = custStats

	productIDs, prodStats, err := p.runProductStage(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("product stage: %w", err)
	}

	rep.Products = prodStats

	salesStats, err := p.runSalesStage(ctx, log, customerIDs, productIDs)
	if err != nil {
		return nil, fmt.Errorf("sales stage: %w", err)
	}

	rep.Sales = salesStats

	return rep, nil
}

// runCustomerStage normalizes and loads customers, returning the source→
// surrogate identifier map for sales resolution.
func (p *Pipeline) runCustomerStage(ctx context.Context, log *logger.Logger) (map[string]int64, *report.FileStats, error) {
	rows, err := p.reader.ReadFile(p.cfg.Input.Customers)
	if err != nil {
		return nil, nil, err
	}

	customers, stats := normalizer.NewCustomerNormalizer(log).Normalize(rows)

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	ids := make(map[string]int64, len(customers))

	for i := range customers {
		id, err := tx.InsertCustomer(ctx, &customers[i])
		if err != nil {
			return nil, nil, err
		}

		ids[customers[i].SourceID] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	log.Info("customers loaded", "count", len(customers))

	return ids, &report.FileStats{
		Processed:         stats.Processed,
		DuplicatesRemoved: stats.DuplicatesRemoved,
		MissingHandled:    stats.MissingEmailsFilled,
		MissingNote:       "(emails)",
		Loaded:            len(customers),
	}, nil
}

// runProductStage normalizes and loads products, returning the source→
// surrogate identifier map. Repeated source ids each get their own row and
// the map keeps the last surrogate for the key.
func (p *Pipeline) runProductStage(ctx context.Context, log *logger.Logger) (map[string]int64, *report.FileStats, error) {
	rows, err := p.reader.ReadFile(p.cfg.Input.Products)
	if err != nil {
		return nil, nil, err
	}

	products, stats := normalizer.NewProductNormalizer(log).Normalize(rows)

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	ids := make(map[string]int64, len(products))

	for i := range products {
		id, err := tx.InsertProduct(ctx, &products[i])
		if err != nil {
			return nil, nil, err
		}

		ids[products[i].SourceID] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	log.Info("products loaded", "count", len(products))

	return ids, &report.FileStats{
		Processed:      stats.Processed,
		MissingHandled: stats.MissingPricesFilled,
		MissingNote:    "(prices)",
		Loaded:         len(products),
	}, nil
}

// runSalesStage normalizes sales, resolves source identifiers through the
// completed maps, and loads one order plus one line item per sale inside a
// single stage transaction.
func (p *Pipeline) runSalesStage(ctx context.Context, log *logger.Logger, customerIDs, productIDs map[string]int64) (*report.FileStats, error) {
	rows, err := p.reader.ReadFile(p.cfg.Input.Sales)
	if err != nil {
		return nil, err
	}

	sales, stats := normalizer.NewSalesNormalizer(log).Normalize(rows)

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	loaded := 0

	for i := range sales {
		sale := &sales[i]

		customerID, ok := customerIDs[sale.CustomerID]
		if !ok {
			return nil, fmt.Errorf("%w: %s (transaction %s)",
				ErrUnresolvedCustomer, sale.CustomerID, sale.TransactionID)
		}

		productID, ok := productIDs[sale.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s (transaction %s)",
				ErrUnresolvedProduct, sale.ProductID, sale.TransactionID)
		}

		orderID, err := tx.InsertOrder(ctx, &models.Order{
			CustomerID:  customerID,
			Date:        sale.Date,
			TotalAmount: sale.Total(),
			Status:      sale.Status,
		})
		if err != nil {
			return nil, err
		}

		if _, err := tx.InsertOrderItem(ctx, &models.OrderItem{
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  sale.Quantity,
			UnitPrice: sale.UnitPrice,
			Subtotal:  sale.Total(),
		}); err != nil {
			return nil, err
		}

		loaded++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("sales loaded", "orders", loaded)

	return &report.FileStats{
		Processed:         stats.Processed,
		DuplicatesRemoved: stats.DuplicatesRemoved,
		MissingText:       "rows with missing customer/product/price",
		Loaded:            loaded,
	}, nil
}
