// Package store persists normalized records into the relational schema.
//
// The loader contract is per-stage atomicity: every record of one entity
// stage is inserted inside a single transaction and committed once. A
// failed insert rolls the stage back; stages committed earlier stay
// committed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"fleximart/internal/logger"
	"fleximart/internal/models"
)

const driverName = "sqlite"

// Store wraps the run's single database connection.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open opens (or creates) the database at path. The run holds exactly one
// connection for its duration; the pipeline is strictly sequential.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	return &Store{db: db, logger: log}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		city TEXT,
		registration_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_name TEXT NOT NULL,
		category TEXT,
		price NUMERIC NOT NULL,
		stock_quantity INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
		order_date DATE,
		total_amount NUMERIC NOT NULL,
		status TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders(order_id),
		product_id INTEGER NOT NULL REFERENCES products(product_id),
		quantity NUMERIC NOT NULL,
		unit_price NUMERIC NOT NULL,
		subtotal NUMERIC NOT NULL
	)`,
}

// Migrate creates the target schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	s.logger.Debug("schema ensured", "tables", len(migrations))

	return nil
}

// Begin starts one entity stage's transaction.
func (s *Store) Begin(ctx context.Context) (*StageTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin stage transaction: %w", err)
	}

	return &StageTx{tx: tx}, nil
}

// StageTx is the unit of atomicity for one entity stage. Inserts return the
// store-assigned surrogate key immediately so identifier maps and the
// order→item link can be built while the stage is still open.
type StageTx struct {
	tx *sql.Tx
}

// InsertCustomer inserts one customer and returns its surrogate key.
func (t *StageTx) InsertCustomer(ctx context.Context, c *models.Customer) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO customers (first_name, last_name, email, phone, city, registration_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.City, c.RegistrationDate,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert customer %s: %w", c.SourceID, err)
	}

	return res.LastInsertId()
}

// InsertProduct inserts one product and returns its surrogate key.
func (t *StageTx) InsertProduct(ctx context.Context, p *models.Product) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO products (product_name, category, price, stock_quantity)
		 VALUES (?, ?, ?, ?)`,
		p.Name, p.Category, p.Price, p.StockQuantity,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product %s: %w", p.SourceID, err)
	}

	return res.LastInsertId()
}

// InsertOrder inserts one order header and returns its surrogate key.
func (t *StageTx) InsertOrder(ctx context.Context, o *models.Order) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO orders (customer_id, order_date, total_amount, status)
		 VALUES (?, ?, ?, ?)`,
		o.CustomerID, o.Date, o.TotalAmount, o.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	return res.LastInsertId()
}

// InsertOrderItem inserts one line item and returns its surrogate key.
func (t *StageTx) InsertOrderItem(ctx context.Context, it *models.OrderItem) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
		 VALUES (?, ?, ?, ?, ?)`,
		it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order item: %w", err)
	}

	return res.LastInsertId()
}

// Commit commits the stage.
func (t *StageTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stage: %w", err)
	}

	return nil
}

// Rollback abandons the stage. Safe to call after Commit.
func (t *StageTx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}

	return err
}

// CountRows returns the row count of a table. Used by the pipeline's
// summary logging and by tests verifying load behavior.
func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	switch table {
	case "customers", "products", "orders", "order_items":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}

	return n, nil
}
