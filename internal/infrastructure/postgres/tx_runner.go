package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stock-rentals-api/internal/application/stock"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Si el contexto se cancela antes del Commit, la
// transacción se revierte completa: ledger y registro quedan intactos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	txRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	txRepo := NewTransactionRepository(tx)
	customerRepo := NewCustomerRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(stockRepo, movRepo, txRepo, customerRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
