package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/restostock-api/internal/application/reconcile"
)

var _ reconcile.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con el set
// completo de repositorios atados a la tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos arma el set de repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) reconcile.Repos {
	return reconcile.Repos{
		Items:     NewInventoryItemRepository(q),
		Movements: NewStockMovementRepository(q),
		Recipes:   NewRecipeRepository(q),
		Menu:      NewMenuRepository(q),
		Sales:     NewSaleRepository(q),
		Invoices:  NewPurchaseInvoiceRepository(q),
		Requests:  NewPurchaseRequestRepository(q),
		Suppliers: NewSupplierRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos reconcile.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
